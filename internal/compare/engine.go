package compare

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freewebtopdf/objcompare/internal/domain"
	"github.com/freewebtopdf/objcompare/internal/matcher"
	"github.com/freewebtopdf/objcompare/internal/report"
	"github.com/freewebtopdf/objcompare/internal/tolerance"
)

// Engine compares expected and actual values field by field. It holds no
// per-call state, so one engine may serve concurrent comparisons.
type Engine struct {
	matcher *matcher.PathMatcher
	options domain.ComparisonOptions
	logger  zerolog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for debug output and pattern warnings
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an engine for a rule set. The rule set is copied and treated as
// read-only from here on.
func New(rules *domain.RuleSet, options domain.ComparisonOptions, opts ...Option) *Engine {
	e := &Engine{
		options: options,
		logger:  log.Logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.matcher = matcher.NewPathMatcher(rules, matcher.WithLogger(e.logger))
	return e
}

// Options returns the comparison options of the engine
func (e *Engine) Options() domain.ComparisonOptions {
	return e.options
}

// Matcher returns the path matcher the engine resolves rules with
func (e *Engine) Matcher() *matcher.PathMatcher {
	return e.matcher
}

// Compare walks both values and returns the full result. A failed comparison
// is reported through the result, never as an error.
func (e *Engine) Compare(expected, actual any) *report.FullComparisonResult {
	var fields []domain.FieldResult
	matches := e.compareAt(&fields, "", expected, actual)

	differences := 0
	for _, f := range fields {
		if !f.Passed {
			differences++
		}
	}

	outcome := "passed"
	if !matches {
		outcome = "failed"
	}
	summary := fmt.Sprintf("Comparison %s with %d differences", outcome, differences)

	if e.options.Debug {
		e.logger.Debug().
			Bool("matches", matches).
			Int("fields", len(fields)).
			Int("differences", differences).
			Msg("Comparison finished")
	}

	return report.NewFullComparisonResult(matches, summary, fields)
}

// compareAt compares the values found at one path, appending results to acc,
// and reports whether everything under the path passed
func (e *Engine) compareAt(acc *[]domain.FieldResult, path string, expected, actual any) bool {
	rule, _ := e.matcher.Resolve(path)
	behavior, isBehavior := rule.(domain.BehaviorRule)

	expected = normalize(deref(expected))
	actual = normalize(deref(actual))

	if isBehavior && behavior.Ignore {
		return e.record(acc, domain.FieldResult{
			Path:     path,
			Passed:   true,
			Status:   domain.StatusIgnored,
			Expected: expected,
			Actual:   actual,
			Reason:   "Field configured to ignore",
		})
	}

	expectedShape := shapeOf(expected)
	actualShape := shapeOf(actual)

	if expectedShape == shapeAbsent && actualShape == shapeAbsent {
		return e.record(acc, domain.FieldResult{
			Path:     path,
			Passed:   true,
			Status:   domain.StatusIdentical,
			Expected: expected,
			Actual:   actual,
			Reason:   "Both values are absent",
		})
	}

	if expectedShape == shapeAbsent || actualShape == shapeAbsent {
		side := "actual"
		if expectedShape == shapeAbsent {
			side = "expected"
		}
		return e.recordMissing(acc, path, expected, actual, isBehavior && !behavior.Required, "field missing in "+side)
	}

	expectedKind := kindOf(expected)
	actualKind := kindOf(actual)
	if !typesCompatible(expectedKind, actualKind, e.options.NormalizeTypes) {
		return e.record(acc, domain.FieldResult{
			Path:         path,
			Passed:       false,
			Status:       domain.StatusTypeMismatch,
			Expected:     expected,
			Actual:       actual,
			Reason:       fmt.Sprintf("Type mismatch: expected %s, got %s", expectedKind, actualKind),
			ExpectedType: expectedKind,
			ActualType:   actualKind,
		})
	}

	switch {
	case expectedShape == shapeMap && actualShape == shapeMap:
		return e.compareMaps(acc, path, asMap(expected), asMap(actual))
	case expectedShape == shapeSequence && actualShape == shapeSequence:
		return e.compareSequences(acc, path, asSequence(expected), asSequence(actual))
	default:
		return e.compareScalars(acc, path, rule, expected, actual)
	}
}

func (e *Engine) compareMaps(acc *[]domain.FieldResult, path string, expected, actual map[string]any) bool {
	matches := true
	for _, key := range unionKeys(expected, actual) {
		if !e.compareAt(acc, childPath(path, key), expected[key], actual[key]) {
			matches = false
		}
	}
	return matches
}

func (e *Engine) compareSequences(acc *[]domain.FieldResult, path string, expected, actual []any) bool {
	matches := true

	if len(expected) != len(actual) {
		e.record(acc, domain.FieldResult{
			Path:     lengthPath(path),
			Passed:   false,
			Status:   domain.StatusArrayLengthMismatch,
			Expected: len(expected),
			Actual:   len(actual),
			Reason:   fmt.Sprintf("Array length mismatch: expected %d, got %d", len(expected), len(actual)),
		})
		matches = false
	}

	overlap := min(len(expected), len(actual))
	for i := 0; i < overlap; i++ {
		if !e.compareAt(acc, itemPath(path, i), expected[i], actual[i]) {
			matches = false
		}
	}

	// Extra trailing items in actual are not reported
	for i := overlap; i < len(expected); i++ {
		item := itemPath(path, i)
		rule, _ := e.matcher.Resolve(item)
		behavior, isBehavior := rule.(domain.BehaviorRule)
		if !e.recordMissing(acc, item, normalize(deref(expected[i])), nil, isBehavior && !behavior.Required, "field missing") {
			matches = false
		}
	}

	return matches
}

func (e *Engine) compareScalars(acc *[]domain.FieldResult, path string, rule domain.FieldRule, expected, actual any) bool {
	if scalarsEqual(expected, actual) {
		return e.record(acc, domain.FieldResult{
			Path:     path,
			Passed:   true,
			Status:   domain.StatusIdentical,
			Expected: expected,
			Actual:   actual,
			Reason:   "Values match exactly",
		})
	}

	if isNumeric(kindOf(expected)) && isNumeric(kindOf(actual)) {
		return e.compareNumbers(acc, path, rule, expected, actual)
	}

	if behavior, ok := rule.(domain.BehaviorRule); ok && behavior.TextOnly {
		if hasText(actual) {
			return e.record(acc, domain.FieldResult{
				Path:     path,
				Passed:   true,
				Status:   domain.StatusInTolerance,
				Expected: expected,
				Actual:   actual,
				Reason:   "Text validation passed (non-empty)",
			})
		}
		return e.record(acc, domain.FieldResult{
			Path:     path,
			Passed:   false,
			Status:   domain.StatusOutsideTolerance,
			Expected: expected,
			Actual:   actual,
			Reason:   "Text validation failed (empty or absent)",
		})
	}

	return e.record(acc, domain.FieldResult{
		Path:     path,
		Passed:   false,
		Status:   domain.StatusValueMismatch,
		Expected: expected,
		Actual:   actual,
		Reason:   fmt.Sprintf("Value mismatch: expected %s, got %s", report.FormatValue(expected), report.FormatValue(actual)),
	})
}

func (e *Engine) compareNumbers(acc *[]domain.FieldResult, path string, rule domain.FieldRule, expected, actual any) bool {
	noTolerance := domain.FieldResult{
		Path:     path,
		Passed:   false,
		Status:   domain.StatusValueMismatch,
		Expected: expected,
		Actual:   actual,
		Reason: fmt.Sprintf("Value mismatch: expected %s, got %s (no tolerance configured)",
			report.FormatValue(expected), report.FormatValue(actual)),
	}

	toleranceRule, ok := rule.(domain.ToleranceRule)
	if !ok {
		return e.record(acc, noTolerance)
	}

	expectedValue, _ := toFloat(expected)
	actualValue, _ := toFloat(actual)

	band, ok := tolerance.Resolve(expectedValue, toleranceRule)
	if !ok {
		return e.record(acc, noTolerance)
	}

	if band.Within(expectedValue, actualValue) {
		return e.record(acc, domain.FieldResult{
			Path:             path,
			Passed:           true,
			Status:           domain.StatusInTolerance,
			Expected:         expected,
			Actual:           actual,
			Reason:           fmt.Sprintf("Within tolerance (%s)", band.Label),
			ToleranceApplied: band.Label,
		})
	}

	return e.record(acc, domain.FieldResult{
		Path:     path,
		Passed:   false,
		Status:   domain.StatusOutsideTolerance,
		Expected: expected,
		Actual:   actual,
		Reason: fmt.Sprintf("Outside tolerance (%s): difference %.2f > tolerance %.2f",
			band.Label, math.Abs(expectedValue-actualValue), band.Value),
		ToleranceApplied: band.Label,
	})
}

// recordMissing records a value present on only one side
func (e *Engine) recordMissing(acc *[]domain.FieldResult, path string, expected, actual any, optional bool, what string) bool {
	if optional {
		return e.record(acc, domain.FieldResult{
			Path:     path,
			Passed:   true,
			Status:   domain.StatusOptionalMissing,
			Expected: expected,
			Actual:   actual,
			Reason:   "Optional " + what,
		})
	}
	return e.record(acc, domain.FieldResult{
		Path:     path,
		Passed:   false,
		Status:   domain.StatusMissingRequired,
		Expected: expected,
		Actual:   actual,
		Reason:   "Required " + what,
	})
}

// record appends one result and returns whether it passed
func (e *Engine) record(acc *[]domain.FieldResult, result domain.FieldResult) bool {
	result.Path = domain.DisplayPath(result.Path)
	*acc = append(*acc, result)

	if e.options.Debug {
		e.logger.Debug().
			Str("path", result.Path).
			Str("status", result.Status.String()).
			Bool("passed", result.Passed).
			Str("reason", result.Reason).
			Msg("Field compared")
	}

	return result.Passed
}

func childPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func itemPath(path string, index int) string {
	return path + "[" + strconv.Itoa(index) + "]"
}

func lengthPath(path string) string {
	return childPath(path, "length")
}
