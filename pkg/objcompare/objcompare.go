// Package objcompare compares decoded JSON documents field by field, applying
// per-path tolerance and behavior rules.
//
// A comparison is usually driven by a profile file:
//
//	comparer, err := objcompare.CreateFromFile("testdata/nutrition.profile.yaml")
//	if err != nil {
//		return err
//	}
//	result := comparer.Compare(expected, actual)
//	if !result.Matches() {
//		table, _ := result.FormatTable(objcompare.DetailFailures)
//		t.Fatal(table)
//	}
//
// Rules can also be assembled in code with NewRuleSet and NewEngine.
package objcompare

import (
	"github.com/rs/zerolog"

	"github.com/freewebtopdf/objcompare/internal/compare"
	"github.com/freewebtopdf/objcompare/internal/domain"
	"github.com/freewebtopdf/objcompare/internal/factory"
	"github.com/freewebtopdf/objcompare/internal/loader"
	"github.com/freewebtopdf/objcompare/internal/report"
)

type (
	Profile           = domain.Profile
	FieldSettings     = domain.FieldSettings
	ProfileOptions    = domain.ProfileOptions
	ComparisonOptions = domain.ComparisonOptions
	LoggingPolicy     = domain.LoggingPolicy
	Detail            = domain.Detail
	FieldResult       = domain.FieldResult
	ComparisonStatus  = domain.ComparisonStatus
	AppError          = domain.AppError

	FieldRule     = domain.FieldRule
	ToleranceRule = domain.ToleranceRule
	BehaviorRule  = domain.BehaviorRule
	RuleSet       = domain.RuleSet

	ComparisonResult     = report.ComparisonResult
	FullComparisonResult = report.FullComparisonResult

	Engine   = compare.Engine
	Comparer = factory.Comparer
	Option   = factory.Option
)

const (
	DetailFailures    = domain.DetailFailures
	DetailDifferences = domain.DetailDifferences
	DetailAll         = domain.DetailAll

	StatusIdentical           = domain.StatusIdentical
	StatusInTolerance         = domain.StatusInTolerance
	StatusIgnored             = domain.StatusIgnored
	StatusOptionalMissing     = domain.StatusOptionalMissing
	StatusOutsideTolerance    = domain.StatusOutsideTolerance
	StatusMissingRequired     = domain.StatusMissingRequired
	StatusTypeMismatch        = domain.StatusTypeMismatch
	StatusValueMismatch       = domain.StatusValueMismatch
	StatusArrayLengthMismatch = domain.StatusArrayLengthMismatch
	StatusObjectMissing       = domain.StatusObjectMissing
)

var (
	WithLogger        = factory.WithLogger
	WithLoggingPolicy = factory.WithLoggingPolicy
	WithProfileCache  = factory.WithProfileCache
	WithProfileName   = factory.WithProfileName
)

// NewProfile returns an empty profile with default options
func NewProfile() *Profile {
	return domain.NewProfile()
}

// ParseDetail converts a string into a Detail
func ParseDetail(s string) (Detail, error) {
	return domain.ParseDetail(s)
}

// LoadProfile reads and validates a YAML or JSON profile file
func LoadProfile(path string) (*Profile, error) {
	return factory.LoadProfile(path)
}

// Create builds a Comparer for an in-memory profile
func Create(profile *Profile, opts ...Option) (*Comparer, error) {
	return factory.Create(profile, opts...)
}

// CreateFromFile loads a profile file and builds a Comparer for it
func CreateFromFile(path string, opts ...Option) (*Comparer, error) {
	return factory.CreateFromFile(path, opts...)
}

// NewToleranceRule builds a numeric tolerance rule; at least one bound is required
func NewToleranceRule(percentage, absolute *float64) (ToleranceRule, error) {
	return domain.NewToleranceRule(percentage, absolute)
}

// NewBehaviorRule builds a presence rule from mutually exclusive flags
func NewBehaviorRule(required, ignore, textOnly bool) (BehaviorRule, error) {
	return domain.NewBehaviorRule(required, ignore, textOnly)
}

// NewRuleSet returns an empty rule set
func NewRuleSet() *RuleSet {
	return domain.NewRuleSet()
}

// NewEngine builds a comparison engine without a profile or logging hook.
// Debug output goes to logger.
func NewEngine(rules *RuleSet, options ComparisonOptions, logger zerolog.Logger) *Engine {
	return compare.New(rules, options, compare.WithLogger(logger))
}

// DecodeDocument decodes JSON for comparison, keeping integers and floats apart
func DecodeDocument(data []byte) (any, error) {
	return loader.DecodeDocument(data)
}

// DecodeDocumentFile reads and decodes a JSON document file
func DecodeDocumentFile(path string) (any, error) {
	return loader.DecodeDocumentFile(path)
}
