package tolerance

import (
	"math"

	"github.com/freewebtopdf/objcompare/internal/domain"
)

// Tolerance is the effective band for one numeric comparison
type Tolerance struct {
	Value float64
	// Label is only used for reporting, e.g. "10.0%" or "2.0 absolute"
	Label string
}

// Resolve computes the tolerance band for an expected value. The percentage
// band is |expected| * percentage / 100; when both bands are configured the
// larger one wins, ties going to the percentage. It returns false when the
// rule configures neither.
func Resolve(expected float64, rule domain.ToleranceRule) (Tolerance, bool) {
	var pct, abs *Tolerance

	if rule.Percentage != nil {
		pct = &Tolerance{
			Value: math.Abs(expected) * *rule.Percentage / 100,
			Label: domain.FormatDecimal(*rule.Percentage) + "%",
		}
	}
	if rule.Absolute != nil {
		abs = &Tolerance{
			Value: *rule.Absolute,
			Label: domain.FormatDecimal(*rule.Absolute) + " absolute",
		}
	}

	switch {
	case pct != nil && abs != nil:
		if abs.Value > pct.Value {
			return *abs, true
		}
		return *pct, true
	case pct != nil:
		return *pct, true
	case abs != nil:
		return *abs, true
	default:
		return Tolerance{}, false
	}
}

// Within reports whether the difference between expected and actual fits the
// band. The boundary is inclusive.
func (t Tolerance) Within(expected, actual float64) bool {
	return math.Abs(expected-actual) <= t.Value
}
