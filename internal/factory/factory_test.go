package factory

import (
	"bufio"
	"bytes"
	"io/fs"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freewebtopdf/objcompare/internal/cache"
	"github.com/freewebtopdf/objcompare/internal/domain"
)

func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

func testdata(name string) string {
	return filepath.Join("testdata", name)
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	scanner := bufio.NewScanner(buf)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var ev map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		out = append(out, ev)
	}
	return out
}

func TestBuildRuleSet(t *testing.T) {
	p := domain.NewProfile()
	p.Fields.Set("calories", domain.FieldSettings{Percentage: floatPtr(5)})
	p.Fields.Set("protein", domain.FieldSettings{Absolute: floatPtr(2), Percentage: floatPtr(1)})
	p.Fields.Set("notes", domain.FieldSettings{Ignore: boolPtr(true)})
	p.Fields.Set("name", domain.FieldSettings{TextValidation: boolPtr(true)})
	p.Fields.Set("extra", domain.FieldSettings{Required: boolPtr(false)})
	p.Fields.Set("id", domain.FieldSettings{})

	rules, err := BuildRuleSet(p)
	require.NoError(t, err)

	assert.Equal(t, []string{"calories", "protein", "notes", "name", "extra", "id"}, rules.Patterns())

	expected := map[string]domain.FieldRule{
		"calories": domain.Percent(5),
		"protein":  domain.MustToleranceRule(floatPtr(1), floatPtr(2)),
		"notes":    domain.BehaviorRule{Ignore: true},
		"name":     domain.BehaviorRule{TextOnly: true},
		"extra":    domain.BehaviorRule{},
		"id":       domain.BehaviorRule{Required: true},
	}
	for pattern, want := range expected {
		got, ok := rules.Get(pattern)
		require.True(t, ok, pattern)
		assert.Equal(t, want, got, pattern)
	}
}

func TestBuildRuleSet_NilProfile(t *testing.T) {
	rules, err := BuildRuleSet(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, rules.Len())
}

func TestBuildRuleSet_InvalidSettings(t *testing.T) {
	p := domain.NewProfile()
	p.Fields.Set("a", domain.FieldSettings{Ignore: boolPtr(true), Required: boolPtr(true)})

	_, err := BuildRuleSet(p)
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestCreate_RejectsInvalidProfile(t *testing.T) {
	p := domain.NewProfile()
	p.Fields.Set("a", domain.FieldSettings{Percentage: floatPtr(1), Ignore: boolPtr(true)})

	_, err := Create(p)
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "Invalid profile configuration")
}

func TestCreate_NilProfileComparesExactly(t *testing.T) {
	c, err := Create(nil, WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	result := c.Compare(map[string]any{"a": 1}, map[string]any{"a": 1})
	assert.True(t, result.Matches())

	result = c.Compare(map[string]any{"a": 1}, map[string]any{"a": 2})
	assert.False(t, result.Matches())
}

func TestCreate_CopiesProfile(t *testing.T) {
	p := domain.NewProfile()
	p.Fields.Set("a", domain.FieldSettings{Percentage: floatPtr(10)})

	c, err := Create(p, WithLogger(zerolog.Nop()))
	require.NoError(t, err)

	p.Fields.Set("b", domain.FieldSettings{Ignore: boolPtr(true)})
	assert.Equal(t, 1, c.Rules().Len())
	assert.Equal(t, 1, c.Profile().Fields.Len())
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := LoadProfile(testdata("missing.profile.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = CreateFromFile(testdata("missing.profile.yaml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestCreateFromFile_Invalid(t *testing.T) {
	_, err := CreateFromFile(testdata("invalid.profile.yaml"))
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestCreateFromFile_JSONProfile(t *testing.T) {
	var buf bytes.Buffer
	c, err := CreateFromFile(testdata("nutrition.profile.json"), WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)

	assert.Equal(t, "nutrition", c.Name())
	assert.True(t, c.Options().NormalizeTypes)
	assert.Equal(t, domain.LogWhenAlways, c.LoggingPolicy().When)

	expected := map[string]any{
		"items": []any{
			map[string]any{"name": "apple", "calories": 100},
			map[string]any{"name": "pear", "calories": 80.0},
		},
		"notes": "fresh",
	}
	actual := map[string]any{
		"items": []any{
			map[string]any{"name": "Granny Smith", "calories": 104},
			map[string]any{"name": "Conference", "calories": 80},
		},
		"notes":    "stale",
		"metadata": nil,
	}

	result := c.Compare(expected, actual)
	assert.True(t, result.Matches(), result.Summary())

	calories, ok := result.Field("items[0].calories")
	require.True(t, ok)
	assert.Equal(t, domain.StatusInTolerance, calories.Status)

	name, ok := result.Field("items[1].name")
	require.True(t, ok)
	assert.Equal(t, domain.StatusInTolerance, name.Status)

	notes, ok := result.Field("notes")
	require.True(t, ok)
	assert.Equal(t, domain.StatusIgnored, notes.Status)

	// when: always logs the passing result at warn level
	var comparisonEvents []map[string]any
	for _, ev := range logLines(t, &buf) {
		if ev["summary"] != nil {
			comparisonEvents = append(comparisonEvents, ev)
		}
	}
	require.Len(t, comparisonEvents, 1)
	assert.Equal(t, "warn", comparisonEvents[0]["level"])
	assert.Equal(t, c.ProfileHash(), comparisonEvents[0]["profile_hash"])
}

func TestExtendTemplate(t *testing.T) {
	base, err := LoadProfile(testdata("base_config.profile.yaml"))
	require.NoError(t, err)

	expected := map[string]any{"calories": 200, "protein": 25.5, "carbs": 30, "fiber": 5.0}
	actual := map[string]any{"calories": 210, "protein": 27.0, "carbs": 30, "fiber": 6.0}

	baseComparer, err := Create(base, WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	first := baseComparer.Compare(expected, actual)
	assert.False(t, first.Matches())
	fiber, _ := first.Field("fiber")
	assert.Equal(t, domain.StatusValueMismatch, fiber.Status)

	extended := base.Clone()
	extended.Fields.Set("fiber", domain.FieldSettings{Percentage: floatPtr(20)})

	extendedComparer, err := Create(extended, WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	second := extendedComparer.Compare(expected, actual)
	assert.True(t, second.Matches(), second.Summary())
	assert.Equal(t, 4, second.Len())

	for _, name := range []string{"calories", "protein", "carbs", "fiber"} {
		f, ok := second.Field(name)
		require.True(t, ok, name)
		assert.True(t, f.Passed, name)
	}

	// The template itself is unchanged
	assert.Equal(t, 3, base.Fields.Len())
	assert.NotEqual(t, baseComparer.ProfileHash(), extendedComparer.ProfileHash())
}

func TestExtendTemplate_StricterTolerance(t *testing.T) {
	base, err := LoadProfile(testdata("base_config.profile.yaml"))
	require.NoError(t, err)

	expected := map[string]any{"calories": 200, "protein": 25.5, "carbs": 30}
	actual := map[string]any{"calories": 210, "protein": 25.5, "carbs": 30}

	strict := base.Clone()
	strict.Fields.Set("calories", domain.FieldSettings{Percentage: floatPtr(1)})

	c, err := Create(strict, WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	result := c.Compare(expected, actual)

	assert.False(t, result.Matches())
	calories, _ := result.Field("calories")
	assert.Equal(t, domain.StatusOutsideTolerance, calories.Status)
	assert.Equal(t, []string{"calories", "protein", "carbs"}, c.Rules().Patterns())
}

func TestComparer_LogsFailuresByDefault(t *testing.T) {
	var buf bytes.Buffer
	p := domain.NewProfile()
	p.Fields.Set("calories", domain.FieldSettings{Percentage: floatPtr(5)})

	c, err := Create(p, WithLogger(zerolog.New(&buf).Level(zerolog.InfoLevel)))
	require.NoError(t, err)

	c.Compare(map[string]any{"calories": 100}, map[string]any{"calories": 103})
	assert.Empty(t, logLines(t, &buf), "passing comparisons are not logged on_fail")

	c.Compare(map[string]any{"calories": 100}, map[string]any{"calories": 120})
	evs := logLines(t, &buf)
	require.Len(t, evs, 1)
	assert.Equal(t, "info", evs[0]["level"])
	assert.Contains(t, evs[0]["message"], "Comparison Result:")
	assert.Contains(t, evs[0]["message"], "calories")
}

func TestComparer_WithLoggingPolicyOverride(t *testing.T) {
	var buf bytes.Buffer
	policy := domain.DefaultLoggingPolicy()
	policy.Enabled = false

	c, err := Create(domain.NewProfile(), WithLogger(zerolog.New(&buf).Level(zerolog.InfoLevel)), WithLoggingPolicy(policy))
	require.NoError(t, err)
	c.Compare(1, 2)
	assert.Empty(t, buf.String())

	bad := domain.DefaultLoggingPolicy()
	bad.Format = "xml"
	_, err = Create(domain.NewProfile(), WithLoggingPolicy(bad))
	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
}

func TestComparer_ProfileAnnouncedOncePerCache(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	profiles := cache.NewLRUCache(8)

	p := domain.NewProfile()
	p.Fields.Set("a", domain.FieldSettings{})

	for i := 0; i < 3; i++ {
		_, err := Create(p, WithLogger(logger), WithProfileCache(profiles), WithProfileName("sample"))
		require.NoError(t, err)
	}

	var announcements int
	for _, ev := range logLines(t, &buf) {
		if ev["message"] == "Comparison profile registered" {
			announcements++
			assert.Equal(t, "sample", ev["profile"])
		}
	}
	assert.Equal(t, 1, announcements)
	assert.Equal(t, 1, profiles.Stats().Size)
}
