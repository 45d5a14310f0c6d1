// Package factory turns comparison profiles into ready-to-use comparers.
package factory

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freewebtopdf/objcompare/internal/compare"
	"github.com/freewebtopdf/objcompare/internal/domain"
	"github.com/freewebtopdf/objcompare/internal/loader"
	"github.com/freewebtopdf/objcompare/internal/logging"
	"github.com/freewebtopdf/objcompare/internal/report"
)

// Comparer runs comparisons for one profile and logs the outcome according
// to the profile's logging policy. It is safe for concurrent use.
type Comparer struct {
	engine  *compare.Engine
	hook    *logging.Hook
	profile *domain.Profile
	hash    string
	name    string
}

// Option configures how a Comparer is assembled
type Option func(*settings)

type settings struct {
	logger zerolog.Logger
	policy *domain.LoggingPolicy
	cache  domain.ProfileCache
	name   string
}

// WithLogger sets the logger used by the engine and the logging hook
func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithLoggingPolicy overrides the logging policy declared by the profile
func WithLoggingPolicy(policy domain.LoggingPolicy) Option {
	return func(s *settings) {
		s.policy = &policy
	}
}

// WithProfileCache sets the cache used to announce each profile only once
func WithProfileCache(cache domain.ProfileCache) Option {
	return func(s *settings) {
		s.cache = cache
	}
}

// WithProfileName attaches a name to the profile in log events
func WithProfileName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

// BuildRuleSet converts the field settings of a profile into rules, keeping
// the profile's pattern order
func BuildRuleSet(profile *domain.Profile) (*domain.RuleSet, error) {
	rules := domain.NewRuleSet()
	if profile == nil {
		return rules, nil
	}

	for _, entry := range profile.Fields.Entries() {
		rule, err := entry.Settings.Rule()
		if err != nil {
			return nil, domain.NewAppErrorWithCause(
				domain.ErrConfiguration,
				"Invalid profile configuration: field "+entry.Pattern,
				422,
				err,
				map[string]any{"field": entry.Pattern},
			)
		}
		rules.Set(entry.Pattern, rule)
	}
	return rules, nil
}

// Create validates a profile and builds a Comparer for it. The profile is
// copied, so later changes to it do not affect the Comparer.
func Create(profile *domain.Profile, opts ...Option) (*Comparer, error) {
	s := settings{logger: log.Logger}
	for _, opt := range opts {
		opt(&s)
	}

	if profile == nil {
		profile = domain.NewProfile()
	}
	profile = profile.Clone()

	validator := domain.NewProfileValidator()
	if err := validator.ValidateProfile(profile); err != nil {
		return nil, err
	}

	rules, err := BuildRuleSet(profile)
	if err != nil {
		return nil, err
	}

	policy := profile.Options.LoggingPolicy()
	if s.policy != nil {
		if err := validator.ValidateLoggingPolicy(s.policy); err != nil {
			return nil, err
		}
		policy = *s.policy
	}

	hash, err := profile.Hash()
	if err != nil {
		return nil, domain.NewAppErrorWithCause(domain.ErrInternal, "Failed to hash profile", 500, err, nil)
	}

	hookOpts := []logging.Option{logging.WithLogger(s.logger)}
	if s.cache != nil {
		hookOpts = append(hookOpts, logging.WithCache(s.cache))
	}
	hook := logging.NewHook(policy, hookOpts...)
	hook.Register(domain.ProfileDigest{
		Hash:       hash,
		Name:       s.name,
		FieldCount: profile.Fields.Len(),
		FirstSeen:  time.Now(),
	})

	return &Comparer{
		engine:  compare.New(rules, profile.Options.ComparisonOptions(), compare.WithLogger(s.logger)),
		hook:    hook,
		profile: profile,
		hash:    hash,
		name:    s.name,
	}, nil
}

// LoadProfile reads a profile file. A missing file yields an error wrapping
// fs.ErrNotExist.
func LoadProfile(path string) (*domain.Profile, error) {
	return loader.NewParser().ParseFile(path)
}

// CreateFromFile loads a profile file and builds a Comparer for it. Unless a
// name is given, the profile is named after the file.
func CreateFromFile(path string, opts ...Option) (*Comparer, error) {
	profile, err := LoadProfile(path)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithProfileName(loader.ProfileName(path))}, opts...)
	return Create(profile, opts...)
}

// Compare compares expected against actual, then hands the result to the
// logging hook. A failed comparison is reported in the result, not as an error.
func (c *Comparer) Compare(expected, actual any) *report.FullComparisonResult {
	result := c.engine.Compare(expected, actual)
	c.hook.Log(result, c.hash)
	return result
}

// Profile returns a copy of the profile the Comparer was built from
func (c *Comparer) Profile() *domain.Profile {
	return c.profile.Clone()
}

// ProfileHash returns the hash identifying the profile in log events
func (c *Comparer) ProfileHash() string {
	return c.hash
}

// Name returns the profile name, if one was given
func (c *Comparer) Name() string {
	return c.name
}

// Rules returns the rules the Comparer resolves field paths against
func (c *Comparer) Rules() *domain.RuleSet {
	return c.engine.Matcher().Rules()
}

// Options returns the comparison options in effect
func (c *Comparer) Options() domain.ComparisonOptions {
	return c.engine.Options()
}

// LoggingPolicy returns the logging policy in effect
func (c *Comparer) LoggingPolicy() domain.LoggingPolicy {
	return c.hook.Policy()
}
