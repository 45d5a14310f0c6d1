package matcher

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freewebtopdf/objcompare/internal/domain"
)

// compiledPattern is a wildcard pattern with its pre-compiled regex.
// regex is nil when the pattern failed to compile.
type compiledPattern struct {
	pattern string
	regex   *regexp.Regexp
	rule    domain.FieldRule
}

// PathMatcher resolves field paths against a rule set. It is immutable after
// construction and safe for concurrent use.
type PathMatcher struct {
	rules    *domain.RuleSet
	patterns []compiledPattern
	invalid  int
}

// Option configures a PathMatcher
type Option func(*matcherOptions)

type matcherOptions struct {
	logger zerolog.Logger
}

// WithLogger sets the logger used to report patterns that fail to compile
func WithLogger(logger zerolog.Logger) Option {
	return func(o *matcherOptions) {
		o.logger = logger
	}
}

// NewPathMatcher compiles every wildcard pattern of the rule set once. The rule
// set is cloned so later changes by the caller do not leak in.
func NewPathMatcher(rules *domain.RuleSet, opts ...Option) *PathMatcher {
	o := matcherOptions{logger: log.Logger}
	for _, opt := range opts {
		opt(&o)
	}

	m := &PathMatcher{rules: rules.Clone()}

	for _, pattern := range m.rules.Patterns() {
		if !strings.Contains(pattern, "*") {
			continue
		}
		rule, _ := m.rules.Get(pattern)
		// WildcardToRegex quotes every literal run, so this only fires if the
		// conversion emits bad syntax
		compiled, err := regexp.Compile(WildcardToRegex(pattern))
		if err != nil {
			o.logger.Warn().Err(err).Str("pattern", pattern).Msg("Wildcard pattern failed to compile, treating as non-matching")
			m.invalid++
		}
		m.patterns = append(m.patterns, compiledPattern{pattern: pattern, regex: compiled, rule: rule})
	}

	return m
}

// Resolve returns the rule for a field path. An exact key wins outright;
// otherwise the first wildcard pattern in insertion order that matches the
// whole path is used.
func (m *PathMatcher) Resolve(path string) (domain.FieldRule, bool) {
	if rule, ok := m.rules.Get(path); ok {
		return rule, true
	}

	for i := range m.patterns {
		p := &m.patterns[i]
		if p.regex == nil {
			continue
		}
		if p.regex.MatchString(path) {
			return p.rule, true
		}
	}

	return nil, false
}

// Rules returns a copy of the rule set the matcher was built from
func (m *PathMatcher) Rules() *domain.RuleSet {
	return m.rules.Clone()
}

// WildcardToRegex converts a field path pattern into an anchored regular
// expression. Literal characters are quoted and `*` matches any run of
// characters, separators and brackets included. A `.` directly before `*`
// accepts either descent form, so `items.*.name` matches both `items.a.name`
// and `items[0].name`.
func WildcardToRegex(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern) + 8)
	b.WriteByte('^')

	literal := strings.Builder{}
	flush := func() {
		if literal.Len() > 0 {
			b.WriteString(regexp.QuoteMeta(literal.String()))
			literal.Reset()
		}
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '*':
			flush()
			b.WriteString(".*")
		case c == '.' && i+1 < len(pattern) && pattern[i+1] == '*':
			flush()
			b.WriteString(`(?:\.|\[)`)
		default:
			literal.WriteByte(c)
		}
	}
	flush()

	b.WriteByte('$')
	return b.String()
}

// HealthCheck performs a health check on the matcher
func (m *PathMatcher) HealthCheck(ctx context.Context) domain.HealthStatus {
	status := domain.HealthStatusHealthy
	message := "Path matcher is operating normally"

	details := map[string]any{
		"pattern_count":  m.rules.Len(),
		"wildcard_count": len(m.patterns),
	}

	if m.invalid > 0 {
		status = domain.HealthStatusDegraded
		message = "Some wildcard patterns have compilation issues"
		details["invalid_patterns"] = m.invalid
	}

	return domain.HealthStatus{
		Status:    status,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// GetStats returns matcher statistics
func (m *PathMatcher) GetStats(ctx context.Context) map[string]any {
	return map[string]any{
		"pattern_count":    m.rules.Len(),
		"exact_count":      m.rules.Len() - len(m.patterns),
		"wildcard_count":   len(m.patterns),
		"invalid_patterns": m.invalid,
	}
}
