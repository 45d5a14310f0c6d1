// Package cache remembers recently seen comparison profiles so each one is
// announced in the logs only once.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/freewebtopdf/objcompare/internal/domain"
)

// DefaultMaxSize bounds the cache when no size is configured
const DefaultMaxSize = 1024

// node represents a node in the doubly-linked list
type node struct {
	key   string
	value domain.ProfileDigest
	prev  *node
	next  *node
}

// LRUCache implements the ProfileCache interface using LRU eviction policy
type LRUCache struct {
	maxSize int
	size    int

	// Doubly-linked list for LRU ordering
	head *node
	tail *node

	// HashMap for O(1) lookups
	cache map[string]*node

	mutex sync.RWMutex

	// Atomic counters for metrics
	hits      int64
	misses    int64
	evictions int64

	lastHealthCheck time.Time
	healthMutex     sync.Mutex
}

// NewLRUCache creates a new LRU cache with the specified maximum size
func NewLRUCache(maxSize int) *LRUCache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	// Dummy head and tail nodes simplify list manipulation
	head := &node{}
	tail := &node{}
	head.next = tail
	tail.prev = head

	return &LRUCache{
		maxSize:         maxSize,
		head:            head,
		tail:            tail,
		cache:           make(map[string]*node),
		lastHealthCheck: time.Now(),
	}
}

// Get retrieves a digest and marks it as recently used
func (c *LRUCache) Get(hash string) (*domain.ProfileDigest, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	found, exists := c.cache[hash]
	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	c.moveToFront(found)
	atomic.AddInt64(&c.hits, 1)

	digest := found.value
	return &digest, true
}

// Set adds or updates a digest
func (c *LRUCache) Set(hash string, digest *domain.ProfileDigest) {
	if digest == nil {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if existing, exists := c.cache[hash]; exists {
		existing.value = *digest
		c.moveToFront(existing)
		return
	}
	c.insert(hash, *digest)
}

// Add stores the digest unless the hash is already known and reports whether
// it was added. Lookup and insert happen under one lock so concurrent callers
// agree on who saw the hash first.
func (c *LRUCache) Add(hash string, digest *domain.ProfileDigest) bool {
	if digest == nil {
		return false
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if existing, exists := c.cache[hash]; exists {
		c.moveToFront(existing)
		atomic.AddInt64(&c.hits, 1)
		return false
	}

	atomic.AddInt64(&c.misses, 1)
	c.insert(hash, *digest)
	return true
}

// Invalidate removes a specific hash from the cache
func (c *LRUCache) Invalidate(hash string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if n, exists := c.cache[hash]; exists {
		c.removeNode(n)
		delete(c.cache, hash)
		c.size--
	}
}

// Clear removes all entries from the cache
func (c *LRUCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.head.next = c.tail
	c.tail.prev = c.head

	c.cache = make(map[string]*node)
	c.size = 0

	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
	atomic.StoreInt64(&c.evictions, 0)
}

// Stats returns current cache statistics
func (c *LRUCache) Stats() domain.CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)
	total := hits + misses

	var hitRatio float64
	if total > 0 {
		hitRatio = float64(hits) / float64(total)
	}

	return domain.CacheStats{
		Hits:     hits,
		Misses:   misses,
		Size:     c.size,
		MaxSize:  c.maxSize,
		HitRatio: hitRatio,
	}
}

// Evictions returns how many digests were dropped to respect the size bound
func (c *LRUCache) Evictions() int64 {
	return atomic.LoadInt64(&c.evictions)
}

// HealthCheck performs a health check on the cache
func (c *LRUCache) HealthCheck(ctx context.Context) domain.HealthStatus {
	c.healthMutex.Lock()
	defer c.healthMutex.Unlock()

	now := time.Now()
	c.lastHealthCheck = now

	stats := c.Stats()
	evictions := c.Evictions()

	status := domain.HealthStatusHealthy
	message := "Profile cache is operating normally"
	details := map[string]any{
		"size":      stats.Size,
		"max_size":  stats.MaxSize,
		"hit_ratio": stats.HitRatio,
		"hits":      stats.Hits,
		"misses":    stats.Misses,
		"evictions": evictions,
	}

	if stats.Size >= int(float64(stats.MaxSize)*0.9) {
		status = domain.HealthStatusDegraded
		message = "Profile cache is near capacity"
		details["warning"] = "Cache utilization above 90%"
	}

	if evictions > 0 {
		if status == domain.HealthStatusHealthy {
			status = domain.HealthStatusDegraded
			message = "Profile cache is evicting entries"
		}
		details["eviction_warning"] = "Evicted profiles will be announced again"
	}

	return domain.HealthStatus{
		Status:    status,
		Message:   message,
		Details:   details,
		Timestamp: now,
	}
}

// insert adds a new node at the front and evicts past capacity. Callers hold the lock.
func (c *LRUCache) insert(hash string, digest domain.ProfileDigest) {
	n := &node{key: hash, value: digest}
	c.addToFront(n)
	c.cache[hash] = n
	c.size++

	if c.size > c.maxSize {
		c.evictLRU()
	}
}

// moveToFront moves a node to the front of the list (most recently used)
func (c *LRUCache) moveToFront(n *node) {
	c.removeNode(n)
	c.addToFront(n)
}

// addToFront adds a node to the front of the list
func (c *LRUCache) addToFront(n *node) {
	n.prev = c.head
	n.next = c.head.next
	c.head.next.prev = n
	c.head.next = n
}

// removeNode removes a node from the list
func (c *LRUCache) removeNode(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
}

// evictLRU removes the least recently used item from the cache
func (c *LRUCache) evictLRU() {
	if c.tail.prev == c.head {
		return
	}

	lru := c.tail.prev
	c.removeNode(lru)
	delete(c.cache, lru.key)
	c.size--
	atomic.AddInt64(&c.evictions, 1)
}
