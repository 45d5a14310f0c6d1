// Package health aggregates the health of the service components.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/freewebtopdf/objcompare/internal/compare"
	"github.com/freewebtopdf/objcompare/internal/domain"
)

// SystemHealthChecker implements comprehensive system health monitoring
type SystemHealthChecker struct {
	repository domain.ProfileRepository
	cache      domain.ProfileCache
	engine     *compare.Engine

	// Health check configuration
	timeout   time.Duration
	startTime time.Time

	// Cached health status to avoid repeated checks on every request
	lastCheck   time.Time
	lastHealth  domain.SystemHealth
	cacheTTL    time.Duration
	healthMutex sync.RWMutex
}

// NewSystemHealthChecker creates a new system health checker
func NewSystemHealthChecker(repository domain.ProfileRepository, cache domain.ProfileCache) *SystemHealthChecker {
	rules := domain.NewRuleSet().
		Set("value", domain.Percent(10)).
		Set("notes", domain.Ignored())

	return &SystemHealthChecker{
		repository: repository,
		cache:      cache,
		engine:     compare.New(rules, domain.ComparisonOptions{}, compare.WithLogger(zerolog.Nop())),
		timeout:    5 * time.Second,
		cacheTTL:   30 * time.Second,
		startTime:  time.Now(),
	}
}

// WithCacheTTL sets how long an aggregated result is reused
func (h *SystemHealthChecker) WithCacheTTL(ttl time.Duration) *SystemHealthChecker {
	h.cacheTTL = ttl
	return h
}

// CheckHealth performs a system health check across all components
func (h *SystemHealthChecker) CheckHealth(ctx context.Context) domain.SystemHealth {
	h.healthMutex.Lock()
	defer h.healthMutex.Unlock()

	if !h.lastCheck.IsZero() && time.Since(h.lastCheck) < h.cacheTTL {
		return h.lastHealth
	}

	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	now := time.Now()
	components := make(map[string]domain.HealthStatus)
	overallStatus := domain.HealthStatusHealthy

	for _, name := range []string{"storage", "cache", "engine"} {
		status := h.CheckComponent(checkCtx, name)
		components[name] = status
		overallStatus = aggregateStatus(overallStatus, status.Status)
	}

	systemHealth := domain.SystemHealth{
		Status:     overallStatus,
		Timestamp:  now,
		Components: components,
		Metrics:    h.collectSystemMetrics(checkCtx),
		Uptime:     time.Since(h.startTime),
	}

	h.lastCheck = now
	h.lastHealth = systemHealth

	return systemHealth
}

// CheckComponent performs a health check on a specific component
func (h *SystemHealthChecker) CheckComponent(ctx context.Context, component string) domain.HealthStatus {
	switch component {
	case "storage":
		return h.repository.HealthCheck(ctx)
	case "cache":
		return h.cache.HealthCheck(ctx)
	case "engine":
		return h.checkEngine()
	default:
		return domain.HealthStatus{
			Status:    domain.HealthStatusUnhealthy,
			Message:   "Unknown component",
			Timestamp: time.Now(),
			Details: map[string]any{
				"component": component,
				"error":     "Component not found",
			},
		}
	}
}

// checkEngine runs a fixed comparison whose outcome is known
func (h *SystemHealthChecker) checkEngine() domain.HealthStatus {
	start := time.Now()
	passing := h.engine.Compare(
		map[string]any{"value": 100, "notes": "a"},
		map[string]any{"value": 105, "notes": "b"},
	)
	failing := h.engine.Compare(
		map[string]any{"value": 100},
		map[string]any{"value": 120},
	)
	elapsed := time.Since(start)

	details := map[string]any{"self_test_duration": elapsed.String()}
	if !passing.Matches() || failing.Matches() {
		details["passing_summary"] = passing.Summary()
		details["failing_summary"] = failing.Summary()
		return domain.HealthStatus{
			Status:    domain.HealthStatusUnhealthy,
			Message:   "Comparison self-test returned unexpected results",
			Details:   details,
			Timestamp: time.Now(),
		}
	}

	return domain.HealthStatus{
		Status:    domain.HealthStatusHealthy,
		Message:   "Comparison engine is operating normally",
		Details:   details,
		Timestamp: time.Now(),
	}
}

// aggregateStatus determines the overall status based on component statuses
func aggregateStatus(current, componentStatus string) string {
	// Priority: unhealthy > degraded > healthy
	statusPriority := map[string]int{
		domain.HealthStatusHealthy:   0,
		domain.HealthStatusDegraded:  1,
		domain.HealthStatusUnhealthy: 2,
	}

	if statusPriority[componentStatus] > statusPriority[current] {
		return componentStatus
	}
	return current
}

// collectSystemMetrics gathers system-wide metrics
func (h *SystemHealthChecker) collectSystemMetrics(ctx context.Context) map[string]any {
	metrics := make(map[string]any)

	if storageStats := h.repository.GetStats(ctx); storageStats != nil {
		metrics["storage"] = storageStats
	}

	cacheStats := h.cache.Stats()
	metrics["cache"] = map[string]any{
		"hits":      cacheStats.Hits,
		"misses":    cacheStats.Misses,
		"size":      cacheStats.Size,
		"max_size":  cacheStats.MaxSize,
		"hit_ratio": cacheStats.HitRatio,
	}

	metrics["system"] = map[string]any{
		"uptime_seconds": time.Since(h.startTime).Seconds(),
		"timestamp":      time.Now(),
	}

	return metrics
}

// GetDetailedHealth returns detailed health information for debugging
func (h *SystemHealthChecker) GetDetailedHealth(ctx context.Context) map[string]any {
	systemHealth := h.CheckHealth(ctx)

	h.healthMutex.RLock()
	lastCheckAge := time.Since(h.lastCheck)
	h.healthMutex.RUnlock()

	return map[string]any{
		"overall_status": systemHealth.Status,
		"timestamp":      systemHealth.Timestamp,
		"components":     systemHealth.Components,
		"metrics":        systemHealth.Metrics,
		"diagnostics": map[string]any{
			"health_check_timeout": h.timeout.String(),
			"cache_ttl":            h.cacheTTL.String(),
			"last_check_age":       lastCheckAge.String(),
		},
	}
}

// IsHealthy returns true if the system is healthy
func (h *SystemHealthChecker) IsHealthy(ctx context.Context) bool {
	return h.CheckHealth(ctx).Status == domain.HealthStatusHealthy
}
