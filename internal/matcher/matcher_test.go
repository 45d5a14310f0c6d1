package matcher

import (
	"context"
	"reflect"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freewebtopdf/objcompare/internal/domain"
)

func TestResolve_ExactMatchWins(t *testing.T) {
	rules := domain.NewRuleSet().
		Set("items.*", domain.Ignored()).
		Set("items.count", domain.Percent(5))

	m := NewPathMatcher(rules)

	rule, ok := m.Resolve("items.count")
	require.True(t, ok)
	assert.Equal(t, domain.Percent(5), rule)
}

func TestResolve_WildcardInsertionOrder(t *testing.T) {
	rules := domain.NewRuleSet().
		Set("items.*.calories", domain.Absolute(2)).
		Set("items.*", domain.Ignored())

	m := NewPathMatcher(rules)

	rule, ok := m.Resolve("items[1].calories")
	require.True(t, ok)
	assert.Equal(t, domain.Absolute(2), rule)

	rule, ok = m.Resolve("items[1].name")
	require.True(t, ok)
	assert.Equal(t, domain.Ignored(), rule)
}

func TestResolve_WildcardSpansSeparators(t *testing.T) {
	m := NewPathMatcher(domain.NewRuleSet().Set("meta.*", domain.Optional()))

	tests := []struct {
		path    string
		matches bool
	}{
		{"meta.id", true},
		{"meta.tags[3].label", true},
		{"meta[0]", true},
		{"meta", false},
		{"metadata.id", false},
		{"other.meta.id", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, ok := m.Resolve(tt.path)
			assert.Equal(t, tt.matches, ok)
		})
	}
}

func TestResolve_LiteralCharactersAreQuoted(t *testing.T) {
	m := NewPathMatcher(domain.NewRuleSet().
		Set("price(usd).*", domain.Percent(1)).
		Set("a+b", domain.Ignored()))

	_, ok := m.Resolve("price(usd).net")
	assert.True(t, ok)

	_, ok = m.Resolve("priceusd.net")
	assert.False(t, ok)

	// exact key containing regex metacharacters is not treated as a regex
	_, ok = m.Resolve("aab")
	assert.False(t, ok)
}

func TestResolve_NoMatch(t *testing.T) {
	m := NewPathMatcher(domain.NewRuleSet().Set("a.b", domain.Ignored()))

	rule, ok := m.Resolve("a.c")
	assert.False(t, ok)
	assert.Nil(t, rule)
}

func TestResolve_EmptyRuleSet(t *testing.T) {
	m := NewPathMatcher(nil)

	_, ok := m.Resolve("")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Rules().Len())
}

func TestNewPathMatcher_IsolatedFromCaller(t *testing.T) {
	rules := domain.NewRuleSet().Set("a", domain.Ignored())
	m := NewPathMatcher(rules)

	rules.Set("b", domain.Ignored())
	rules.Remove("a")

	_, ok := m.Resolve("a")
	assert.True(t, ok)
	_, ok = m.Resolve("b")
	assert.False(t, ok)
}

func TestWildcardToRegex(t *testing.T) {
	tests := []struct {
		pattern  string
		expected string
	}{
		{"items.*.calories", `^items(?:\.|\[).*\.calories$`},
		{"*", `^.*$`},
		{"*.id", `^.*\.id$`},
		{"a.b", `^a\.b$`},
		{"list[0].*", `^list\[0\](?:\.|\[).*$`},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.expected, WildcardToRegex(tt.pattern))
		})
	}
}

func TestHealthCheck(t *testing.T) {
	m := NewPathMatcher(domain.NewRuleSet().
		Set("a", domain.Ignored()).
		Set("b.*", domain.Optional()))

	health := m.HealthCheck(context.Background())
	assert.Equal(t, domain.HealthStatusHealthy, health.Status)
	assert.Equal(t, 2, health.Details["pattern_count"])

	stats := m.GetStats(context.Background())
	assert.Equal(t, 1, stats["exact_count"])
	assert.Equal(t, 1, stats["wildcard_count"])
	assert.Equal(t, 0, stats["invalid_patterns"])
}

func TestUncompiledPatternIsSkipped(t *testing.T) {
	m := NewPathMatcher(domain.NewRuleSet().
		Set("items.*.name", domain.TextOnly()).
		Set("*.name", domain.Ignored()))
	require.Len(t, m.patterns, 2)

	m.patterns[0].regex = nil
	m.invalid = 1

	rule, ok := m.Resolve("items[0].name")
	require.True(t, ok)
	assert.Equal(t, domain.Ignored(), rule)

	health := m.HealthCheck(context.Background())
	assert.Equal(t, domain.HealthStatusDegraded, health.Status)
	assert.Equal(t, 1, health.Details["invalid_patterns"])
	assert.Equal(t, 1, m.GetStats(context.Background())["invalid_patterns"])
}

// Feature: github.com/freewebtopdf/objcompare, Property 1: Exact key lookup precedence
func TestProperty_ExactKeyPrecedence(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("For any path registered as an exact key, resolve returns that key's rule even when a catch-all wildcard was registered first", prop.ForAll(
		func(path string) bool {
			rules := domain.NewRuleSet().
				Set("*", domain.Ignored()).
				Set(path, domain.Percent(3))

			rule, ok := NewPathMatcher(rules).Resolve(path)
			return ok && reflect.DeepEqual(rule, domain.FieldRule(domain.Percent(3)))
		},
		gen.Identifier(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: github.com/freewebtopdf/objcompare, Property 2: Wildcard matches any item index
func TestProperty_WildcardMatchesAnyIndex(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("For any list name, index and leaf key, `name.*.leaf` resolves `name[i].leaf`", prop.ForAll(
		func(name string, index int, leaf string) bool {
			m := NewPathMatcher(domain.NewRuleSet().Set(name+".*."+leaf, domain.TextOnly()))

			_, ok := m.Resolve(name + "[" + strconv.Itoa(index) + "]." + leaf)
			return ok
		},
		gen.Identifier(),
		gen.IntRange(0, 1000),
		gen.Identifier(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
