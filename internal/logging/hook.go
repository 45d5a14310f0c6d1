// Package logging writes comparison results to the log according to a
// profile's logging policy.
package logging

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freewebtopdf/objcompare/internal/domain"
	"github.com/freewebtopdf/objcompare/internal/report"
)

// Hook logs finished comparisons. It only reads the result it is given.
type Hook struct {
	policy domain.LoggingPolicy
	logger zerolog.Logger
	cache  domain.ProfileCache
}

// Option configures a Hook
type Option func(*Hook)

// WithLogger sets the logger events are written to
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Hook) {
		h.logger = logger
	}
}

// WithCache sets the cache used to announce each profile only once
func WithCache(cache domain.ProfileCache) Option {
	return func(h *Hook) {
		h.cache = cache
	}
}

// NewHook creates a hook for the given policy. Without WithLogger it writes
// to the global logger.
func NewHook(policy domain.LoggingPolicy, opts ...Option) *Hook {
	h := &Hook{
		policy: policy,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Policy returns the policy the hook applies
func (h *Hook) Policy() domain.LoggingPolicy {
	return h.policy
}

// Register announces a profile at debug level the first time its hash is
// seen. Without a cache every registration is announced.
func (h *Hook) Register(digest domain.ProfileDigest) {
	if digest.FirstSeen.IsZero() {
		digest.FirstSeen = time.Now()
	}
	if h.cache != nil && !h.cache.Add(digest.Hash, &digest) {
		return
	}

	event := h.logger.Debug().
		Str("logger", h.policy.LoggerName).
		Str("profile_hash", digest.Hash).
		Int("field_count", digest.FieldCount)
	if digest.Name != "" {
		event = event.Str("profile", digest.Name)
	}
	event.Msg("Comparison profile registered")
}

// ShouldLog reports whether the policy asks for this result to be logged
func (h *Hook) ShouldLog(result *report.FullComparisonResult) bool {
	if !h.policy.Enabled || result == nil {
		return false
	}
	if h.policy.When == domain.LogWhenOnFail && result.Matches() {
		return false
	}
	return true
}

// Log writes one event for the result when the policy asks for it
func (h *Hook) Log(result *report.FullComparisonResult, profileHash string) {
	if !h.ShouldLog(result) {
		return
	}

	body, header, err := h.render(result)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Str("logger", h.policy.LoggerName).
			Str("profile_hash", profileHash).
			Msg("Failed to render comparison result")
		return
	}

	h.logger.WithLevel(h.level()).
		Str("logger", h.policy.LoggerName).
		Str("correlation_id", uuid.New().String()).
		Str("profile_hash", profileHash).
		Bool("matches", result.Matches()).
		Str("summary", result.Summary()).
		Str("detail", string(h.policy.Detail)).
		Msg(header + "\n" + body)
}

func (h *Hook) render(result *report.FullComparisonResult) (string, string, error) {
	if h.policy.Format == domain.LogFormatJSON {
		filtered, err := result.ForDetail(h.policy.Detail)
		if err != nil {
			return "", "", err
		}
		data, err := report.NewFullComparisonResult(result.Matches(), result.Summary(), filtered.Fields()).ToJSON()
		if err != nil {
			return "", "", err
		}
		return string(data), "Comparison Result (JSON):", nil
	}

	table, err := result.FormatTable(h.policy.Detail)
	if err != nil {
		return "", "", err
	}
	return table, "Comparison Result:", nil
}

// level maps the policy level to zerolog, falling back to info
func (h *Hook) level() zerolog.Level {
	level, err := zerolog.ParseLevel(h.policy.Level)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
