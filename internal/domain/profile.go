package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"time"

	json "github.com/goccy/go-json"
)

// Detail selects which fields a rendered report shows
type Detail string

const (
	DetailFailures    Detail = "failures"
	DetailDifferences Detail = "differences"
	DetailAll         Detail = "all"
)

// ParseDetail converts a string into a Detail, failing fast on unknown values
func ParseDetail(s string) (Detail, error) {
	switch d := Detail(s); d {
	case DetailFailures, DetailDifferences, DetailAll:
		return d, nil
	default:
		return "", NewAppError(
			ErrInvalidDetail,
			"Invalid detail level",
			400,
			map[string]any{
				"value":          s,
				"allowed_values": []string{string(DetailFailures), string(DetailDifferences), string(DetailAll)},
			},
		)
	}
}

// Logging policy values
const (
	LogWhenAlways = "always"
	LogWhenOnFail = "on_fail"

	LogFormatTable = "table"
	LogFormatJSON  = "json"

	DefaultLoggerName = "objcompare.comparison"
)

// LoggingPolicy configures the automatic logging of comparison results
type LoggingPolicy struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	When       string `json:"when" yaml:"when" validate:"oneof=always on_fail"`
	Detail     Detail `json:"detail" yaml:"detail" validate:"oneof=failures differences all"`
	Format     string `json:"format" yaml:"format" validate:"oneof=table json"`
	Level      string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	LoggerName string `json:"logger_name" yaml:"logger_name" validate:"required"`
}

// DefaultLoggingPolicy logs failed comparisons as a failures table at info level
func DefaultLoggingPolicy() LoggingPolicy {
	return LoggingPolicy{
		Enabled:    true,
		When:       LogWhenOnFail,
		Detail:     DetailFailures,
		Format:     LogFormatTable,
		Level:      "info",
		LoggerName: DefaultLoggerName,
	}
}

// FieldSettings is the raw per-path configuration read from a profile.
// Tolerance settings and behavior settings are mutually exclusive.
type FieldSettings struct {
	Percentage     *float64 `json:"percentage,omitempty" yaml:"percentage,omitempty" validate:"omitempty,gte=0"`
	Absolute       *float64 `json:"absolute,omitempty" yaml:"absolute,omitempty" validate:"omitempty,gte=0"`
	Required       *bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Ignore         *bool    `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	TextValidation *bool    `json:"text_validation,omitempty" yaml:"text_validation,omitempty"`
}

// HasTolerance reports whether any tolerance setting is present
func (s FieldSettings) HasTolerance() bool {
	return s.Percentage != nil || s.Absolute != nil
}

// HasBehavior reports whether any behavior setting is present
func (s FieldSettings) HasBehavior() bool {
	return s.Required != nil || s.Ignore != nil || s.TextValidation != nil
}

// BehaviorCount returns how many behavior settings are present
func (s FieldSettings) BehaviorCount() int {
	n := 0
	for _, b := range []*bool{s.Required, s.Ignore, s.TextValidation} {
		if b != nil {
			n++
		}
	}
	return n
}

// Rule converts the settings into a FieldRule. Tolerance settings win; otherwise
// unspecified behavior flags take their defaults, with required defaulting to
// false once ignore or text_validation is switched on.
func (s FieldSettings) Rule() (FieldRule, error) {
	if s.HasTolerance() {
		rule, err := NewToleranceRule(s.Percentage, s.Absolute)
		if err != nil {
			return nil, err
		}
		return rule, nil
	}

	ignore := s.Ignore != nil && *s.Ignore
	textOnly := s.TextValidation != nil && *s.TextValidation
	required := !ignore && !textOnly
	if s.Required != nil {
		required = *s.Required
	}
	rule, err := NewBehaviorRule(required, ignore, textOnly)
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// FieldEntry is one pattern of a profile
type FieldEntry struct {
	Pattern  string        `json:"pattern"`
	Settings FieldSettings `json:"settings"`
}

// ProfileFields is an insertion-ordered pattern -> settings map
type ProfileFields struct {
	entries []FieldEntry
	index   map[string]int
}

// Set adds or replaces the settings for a pattern, keeping its position on replace
func (f *ProfileFields) Set(pattern string, settings FieldSettings) {
	if f.index == nil {
		f.index = make(map[string]int)
	}
	if i, ok := f.index[pattern]; ok {
		f.entries[i].Settings = settings
		return
	}
	f.index[pattern] = len(f.entries)
	f.entries = append(f.entries, FieldEntry{Pattern: pattern, Settings: settings})
}

// Get returns the settings for a pattern
func (f *ProfileFields) Get(pattern string) (FieldSettings, bool) {
	i, ok := f.index[pattern]
	if !ok {
		return FieldSettings{}, false
	}
	return f.entries[i].Settings, true
}

// Delete removes a pattern
func (f *ProfileFields) Delete(pattern string) {
	i, ok := f.index[pattern]
	if !ok {
		return
	}
	f.entries = append(f.entries[:i], f.entries[i+1:]...)
	delete(f.index, pattern)
	for j := i; j < len(f.entries); j++ {
		f.index[f.entries[j].Pattern] = j
	}
}

// Len returns the number of patterns
func (f *ProfileFields) Len() int {
	return len(f.entries)
}

// Entries returns a copy of the entries in order
func (f *ProfileFields) Entries() []FieldEntry {
	out := make([]FieldEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

// MarshalJSON writes the fields as a JSON object in insertion order
func (f ProfileFields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range f.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Pattern)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Settings)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ProfileOptions holds the options block of a profile
type ProfileOptions struct {
	NormalizeTypes bool           `json:"normalize_types" yaml:"normalize_types"`
	Debug          bool           `json:"debug" yaml:"debug"`
	Logging        *LoggingPolicy `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// ComparisonOptions extracts the engine options
func (o ProfileOptions) ComparisonOptions() ComparisonOptions {
	return ComparisonOptions{NormalizeTypes: o.NormalizeTypes, Debug: o.Debug}
}

// LoggingPolicy returns the configured policy or the default one
func (o ProfileOptions) LoggingPolicy() LoggingPolicy {
	if o.Logging == nil {
		return DefaultLoggingPolicy()
	}
	return *o.Logging
}

// Profile is a complete comparison profile as written in YAML or JSON
type Profile struct {
	Fields  ProfileFields  `json:"fields"`
	Options ProfileOptions `json:"options"`
}

// NewProfile creates an empty profile with default options
func NewProfile() *Profile {
	return &Profile{}
}

// Clone returns a deep copy so callers can extend a loaded template
func (p *Profile) Clone() *Profile {
	out := &Profile{Options: p.Options}
	if p.Options.Logging != nil {
		policy := *p.Options.Logging
		out.Options.Logging = &policy
	}
	for _, e := range p.Fields.entries {
		out.Fields.Set(e.Pattern, e.Settings)
	}
	return out
}

// Hash returns the sha256 of the profile's canonical JSON encoding. Equal
// profiles with fields in the same order hash the same.
func (p *Profile) Hash() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ProfileInfo describes a stored named profile
type ProfileInfo struct {
	Name       string    `json:"name"`
	FilePath   string    `json:"file_path,omitempty"`
	FieldCount int       `json:"field_count"`
	Hash       string    `json:"hash"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// ProfileDigest is what the log de-duplication cache remembers about a profile
type ProfileDigest struct {
	Hash       string    `json:"hash"`
	Name       string    `json:"name,omitempty"`
	FieldCount int       `json:"field_count"`
	FirstSeen  time.Time `json:"first_seen"`
}

// CacheStats represents cache performance metrics
type CacheStats struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	Size     int     `json:"size"`
	MaxSize  int     `json:"max_size"`
	HitRatio float64 `json:"hit_ratio"`
}

// HealthStatus represents the health status of a component
type HealthStatus struct {
	Status    string         `json:"status"` // "healthy", "unhealthy", "degraded"
	Message   string         `json:"message,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Health status constants
const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
	HealthStatusDegraded  = "degraded"
)

// SystemHealth represents overall system health
type SystemHealth struct {
	Status     string                  `json:"status"`
	Timestamp  time.Time               `json:"timestamp"`
	Components map[string]HealthStatus `json:"components"`
	Metrics    map[string]any          `json:"metrics,omitempty"`
	Uptime     time.Duration           `json:"uptime"`
}
