// Package storage keeps named comparison profiles backed by a directory of
// profile files.
package storage

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/freewebtopdf/objcompare/internal/domain"
	"github.com/freewebtopdf/objcompare/internal/loader"
)

type entry struct {
	profile *domain.Profile
	info    domain.ProfileInfo
}

// Store implements the ProfileRepository interface over a profile directory
type Store struct {
	mu       sync.RWMutex
	dir      string
	profiles map[string]*entry

	profileLoader *loader.FileProfileLoader
	writer        *loader.Writer
	validator     domain.Validator
	loadErrors    []domain.LoadError
}

// NewStore creates a new Store for the profiles under dir
func NewStore(dir string) *Store {
	return &Store{
		dir:           dir,
		profiles:      make(map[string]*entry),
		profileLoader: loader.NewFileProfileLoader(dir),
		writer:        loader.NewWriter(dir),
		validator:     domain.NewValidator(),
	}
}

// Load reads every profile file in the directory. Files that fail to parse
// are skipped and reported through GetLoadErrors.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-ctx.Done():
		return domain.NewAppErrorWithCause(
			domain.ErrTimeout,
			"Load cancelled",
			408,
			ctx.Err(),
			map[string]any{"operation": "load"},
		)
	default:
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return domain.NewAppErrorWithCause(
			domain.ErrInternal,
			"Failed to create profiles directory",
			500,
			err,
			map[string]any{"dir": s.dir},
		).WithContext(ctx, "load")
	}

	loaded, loadErrors, err := s.profileLoader.LoadAll(ctx)
	if err != nil {
		return domain.NewAppErrorWithCause(
			domain.ErrInternal,
			"Failed to load profiles from files",
			500,
			err,
			map[string]any{"errors": len(loadErrors)},
		).WithContext(ctx, "load")
	}

	profiles := make(map[string]*entry, len(loaded))
	for _, lp := range loaded {
		if existing, dup := profiles[lp.File.Name]; dup {
			loadErrors = append(loadErrors, domain.LoadError{
				FilePath: lp.File.FilePath,
				Error:    "duplicate profile name, already loaded from " + existing.info.FilePath,
			})
			continue
		}
		e, err := newEntry(lp.File.Name, lp.File.FilePath, lp.Profile)
		if err != nil {
			loadErrors = append(loadErrors, loader.LoadErrorFor(lp.File.FilePath, err))
			continue
		}
		profiles[lp.File.Name] = e
	}

	s.profiles = profiles
	s.loadErrors = loadErrors
	return nil
}

// Reload reloads profiles from storage
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// ListProfiles returns information about every stored profile, sorted by name
func (s *Store) ListProfiles(ctx context.Context) ([]domain.ProfileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ProfileInfo, 0, len(s.profiles))
	for _, e := range s.profiles {
		result = append(result, e.info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// GetProfile returns a copy of a named profile
func (s *Store) GetProfile(ctx context.Context, name string) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.profiles[name]
	if !exists {
		return nil, notFound(name)
	}
	return e.profile.Clone(), nil
}

// GetProfileInfo returns information about a named profile
func (s *Store) GetProfileInfo(ctx context.Context, name string) (*domain.ProfileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.profiles[name]
	if !exists {
		return nil, notFound(name)
	}
	info := e.info
	return &info, nil
}

// PutProfile validates and writes a named profile, creating or replacing it
func (s *Store) PutProfile(ctx context.Context, name string, profile *domain.Profile) (*domain.ProfileInfo, error) {
	if err := s.validator.ValidateProfileName(name); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateProfile(profile); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.writer.PathFor(name)
	if err := s.writer.WriteProfileToPath(profile, path); err != nil {
		return nil, domain.NewAppErrorWithCause(
			domain.ErrInternal,
			"Failed to write profile file",
			500,
			err,
			map[string]any{"name": name},
		).WithContext(ctx, "put_profile")
	}

	// A profile previously loaded from another file (for example JSON) is
	// replaced by the written YAML file
	if existing, exists := s.profiles[name]; exists && existing.info.FilePath != path {
		_ = s.writer.DeleteProfileFile(existing.info.FilePath)
	}

	e, err := newEntry(name, path, profile.Clone())
	if err != nil {
		return nil, domain.NewAppErrorWithCause(domain.ErrInternal, "Failed to hash profile", 500, err, nil)
	}
	s.profiles[name] = e

	info := e.info
	return &info, nil
}

// DeleteProfile removes a named profile and its file
func (s *Store) DeleteProfile(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.profiles[name]
	if !exists {
		return notFound(name)
	}

	if err := s.writer.DeleteProfileFile(e.info.FilePath); err != nil {
		return domain.NewAppErrorWithCause(
			domain.ErrInternal,
			"Failed to delete profile file",
			500,
			err,
			map[string]any{"name": name},
		).WithContext(ctx, "delete_profile")
	}

	delete(s.profiles, name)
	return nil
}

// GetLoadErrors returns any errors from the last load operation
func (s *Store) GetLoadErrors() []domain.LoadError {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.LoadError, len(s.loadErrors))
	copy(result, s.loadErrors)
	return result
}

// HealthCheck performs a health check on the storage system
func (s *Store) HealthCheck(ctx context.Context) domain.HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	details := map[string]any{
		"profile_count": len(s.profiles),
		"profiles_dir":  s.dir,
		"load_errors":   len(s.loadErrors),
	}

	if _, err := os.Stat(s.dir); err != nil {
		details["error"] = err.Error()
		return domain.HealthStatus{
			Status:    domain.HealthStatusUnhealthy,
			Message:   "Profiles directory is not accessible",
			Details:   details,
			Timestamp: now,
		}
	}

	if len(s.loadErrors) > 0 {
		return domain.HealthStatus{
			Status:    domain.HealthStatusDegraded,
			Message:   "Some profile files failed to load",
			Details:   details,
			Timestamp: now,
		}
	}

	return domain.HealthStatus{
		Status:    domain.HealthStatusHealthy,
		Message:   "Storage is operating normally",
		Details:   details,
		Timestamp: now,
	}
}

// GetStats returns storage statistics
func (s *Store) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fieldCount := 0
	for _, e := range s.profiles {
		fieldCount += e.info.FieldCount
	}

	return map[string]any{
		"profile_count": len(s.profiles),
		"field_count":   fieldCount,
		"profiles_dir":  s.dir,
		"load_errors":   len(s.loadErrors),
	}
}

func newEntry(name, path string, profile *domain.Profile) (*entry, error) {
	hash, err := profile.Hash()
	if err != nil {
		return nil, err
	}
	return &entry{
		profile: profile,
		info: domain.ProfileInfo{
			Name:       name,
			FilePath:   path,
			FieldCount: profile.Fields.Len(),
			Hash:       hash,
			LoadedAt:   time.Now(),
		},
	}, nil
}

func notFound(name string) error {
	return domain.NewAppError(
		domain.ErrNotFound,
		"Profile not found",
		404,
		map[string]any{"name": name},
	)
}
