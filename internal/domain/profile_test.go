package domain

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestParseDetail(t *testing.T) {
	for _, s := range []string{"failures", "differences", "all"} {
		d, err := ParseDetail(s)
		require.NoError(t, err)
		assert.Equal(t, Detail(s), d)
	}

	_, err := ParseDetail("everything")
	require.Error(t, err)
	assert.True(t, IsInvalidDetail(err))

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
	details := appErr.Details.(map[string]any)
	assert.Equal(t, "everything", details["value"])
	assert.Equal(t, []string{"failures", "differences", "all"}, details["allowed_values"])
}

func TestFieldSettings_Rule(t *testing.T) {
	tests := []struct {
		name     string
		settings FieldSettings
		want     FieldRule
	}{
		{name: "empty means required", settings: FieldSettings{}, want: BehaviorRule{Required: true}},
		{name: "percentage", settings: FieldSettings{Percentage: floatPtr(5)}, want: Percent(5)},
		{name: "absolute", settings: FieldSettings{Absolute: floatPtr(2)}, want: Absolute(2)},
		{name: "ignore drops required", settings: FieldSettings{Ignore: boolPtr(true)}, want: BehaviorRule{Ignore: true}},
		{name: "text drops required", settings: FieldSettings{TextValidation: boolPtr(true)}, want: BehaviorRule{TextOnly: true}},
		{name: "explicit optional", settings: FieldSettings{Required: boolPtr(false)}, want: BehaviorRule{}},
		{name: "ignore false stays required", settings: FieldSettings{Ignore: boolPtr(false)}, want: BehaviorRule{Required: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := tt.settings.Rule()
			require.NoError(t, err)
			assert.Equal(t, tt.want, rule)
		})
	}
}

func TestFieldSettings_RuleError(t *testing.T) {
	rule, err := FieldSettings{Percentage: floatPtr(-5)}.Rule()
	require.Error(t, err)
	assert.Nil(t, rule)

	rule, err = FieldSettings{Ignore: boolPtr(true), Required: boolPtr(true)}.Rule()
	require.Error(t, err)
	assert.Nil(t, rule)
}

func TestFieldSettings_Counts(t *testing.T) {
	s := FieldSettings{Percentage: floatPtr(1), Ignore: boolPtr(false), Required: boolPtr(true)}
	assert.True(t, s.HasTolerance())
	assert.True(t, s.HasBehavior())
	assert.Equal(t, 2, s.BehaviorCount())
	assert.False(t, FieldSettings{}.HasBehavior())
}

func TestProfileFields_Order(t *testing.T) {
	var f ProfileFields
	f.Set("z", FieldSettings{Percentage: floatPtr(1)})
	f.Set("a", FieldSettings{Ignore: boolPtr(true)})
	f.Set("m", FieldSettings{})
	f.Set("z", FieldSettings{Absolute: floatPtr(3)})

	entries := f.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "z", entries[0].Pattern)
	assert.Equal(t, floatPtr(3), entries[0].Settings.Absolute)
	assert.Equal(t, "a", entries[1].Pattern)
	assert.Equal(t, "m", entries[2].Pattern)

	f.Delete("a")
	f.Delete("missing")
	assert.Equal(t, 2, f.Len())
	_, ok := f.Get("a")
	assert.False(t, ok)
	m, ok := f.Get("m")
	assert.True(t, ok)
	assert.Equal(t, FieldSettings{}, m)
}

func TestProfileFields_MarshalJSONKeepsOrder(t *testing.T) {
	var f ProfileFields
	f.Set("zeta", FieldSettings{Percentage: floatPtr(5)})
	f.Set("alpha", FieldSettings{TextValidation: boolPtr(true)})

	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":{"percentage":5},"alpha":{"text_validation":true}}`, string(data))

	var empty ProfileFields
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestProfile_CloneIsDeep(t *testing.T) {
	p := NewProfile()
	p.Fields.Set("a", FieldSettings{Percentage: floatPtr(1)})
	policy := DefaultLoggingPolicy()
	p.Options.Logging = &policy

	clone := p.Clone()
	clone.Fields.Set("b", FieldSettings{})
	clone.Options.Logging.Detail = DetailAll

	assert.Equal(t, 1, p.Fields.Len())
	assert.Equal(t, DetailFailures, p.Options.Logging.Detail)
	assert.Equal(t, 2, clone.Fields.Len())
}

func TestProfileOptions(t *testing.T) {
	opts := ProfileOptions{NormalizeTypes: true, Debug: true}
	assert.Equal(t, ComparisonOptions{NormalizeTypes: true, Debug: true}, opts.ComparisonOptions())
	assert.Equal(t, DefaultLoggingPolicy(), opts.LoggingPolicy())

	custom := LoggingPolicy{Enabled: false, When: LogWhenAlways, Detail: DetailAll, Format: LogFormatJSON, Level: "warn", LoggerName: "x"}
	opts.Logging = &custom
	assert.Equal(t, custom, opts.LoggingPolicy())
}

func TestProfile_Hash(t *testing.T) {
	a := NewProfile()
	a.Fields.Set("x", FieldSettings{Percentage: floatPtr(1)})
	b := a.Clone()

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)

	b.Options.NormalizeTypes = true
	hb, err = b.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}
