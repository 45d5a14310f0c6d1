package domain

import "context"

// ProfileRepository defines the contract for named profile storage
type ProfileRepository interface {
	ListProfiles(ctx context.Context) ([]ProfileInfo, error)
	GetProfile(ctx context.Context, name string) (*Profile, error)
	PutProfile(ctx context.Context, name string, profile *Profile) (*ProfileInfo, error)
	DeleteProfile(ctx context.Context, name string) error

	// Health and monitoring
	HealthCheck(ctx context.Context) HealthStatus
	GetStats(ctx context.Context) map[string]any
}

// RuleResolver defines the contract for field path rule lookup
type RuleResolver interface {
	Resolve(path string) (FieldRule, bool)
}

// ProfileCache remembers which profiles have already been announced in logs
type ProfileCache interface {
	Get(hash string) (*ProfileDigest, bool)
	Set(hash string, digest *ProfileDigest)
	// Add stores the digest only if the hash is new and reports whether it did
	Add(hash string, digest *ProfileDigest) bool
	Invalidate(hash string)
	Clear()
	Stats() CacheStats

	// Health and monitoring
	HealthCheck(ctx context.Context) HealthStatus
}

// HealthChecker defines the interface for system health monitoring
type HealthChecker interface {
	CheckHealth(ctx context.Context) SystemHealth
	CheckComponent(ctx context.Context, component string) HealthStatus
}

// Validator defines the interface for profile validation
type Validator interface {
	ValidateProfile(profile *Profile) error
	ValidateSettings(pattern string, settings FieldSettings) error
	ValidateLoggingPolicy(policy *LoggingPolicy) error
	ValidateProfileName(name string) error
}
