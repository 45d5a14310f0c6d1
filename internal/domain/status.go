package domain

// ComparisonStatus is the outcome recorded for a single field
type ComparisonStatus string

const (
	// Passing statuses
	StatusIdentical       ComparisonStatus = "identical"
	StatusInTolerance     ComparisonStatus = "in_tolerance"
	StatusIgnored         ComparisonStatus = "ignored"
	StatusOptionalMissing ComparisonStatus = "optional_missing"

	// Failing statuses
	StatusOutsideTolerance    ComparisonStatus = "outside_tolerance"
	StatusMissingRequired     ComparisonStatus = "missing_required"
	StatusTypeMismatch        ComparisonStatus = "type_mismatch"
	StatusValueMismatch       ComparisonStatus = "value_mismatch"
	StatusArrayLengthMismatch ComparisonStatus = "array_length_mismatch"

	// StatusObjectMissing is reserved and never produced by the engine; missing
	// nested objects are reported as StatusMissingRequired at the object path.
	StatusObjectMissing ComparisonStatus = "object_missing"
)

// AllStatuses lists every status in declaration order
var AllStatuses = []ComparisonStatus{
	StatusIdentical,
	StatusInTolerance,
	StatusIgnored,
	StatusOptionalMissing,
	StatusOutsideTolerance,
	StatusMissingRequired,
	StatusTypeMismatch,
	StatusValueMismatch,
	StatusArrayLengthMismatch,
	StatusObjectMissing,
}

// String returns the wire value of the status
func (s ComparisonStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the declared statuses
func (s ComparisonStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Passing reports whether the status counts as a pass
func (s ComparisonStatus) Passing() bool {
	switch s {
	case StatusIdentical, StatusInTolerance, StatusIgnored, StatusOptionalMissing:
		return true
	default:
		return false
	}
}

// Word maps the status to the short word shown in rendered tables
func (s ComparisonStatus) Word() string {
	switch s {
	case StatusIdentical:
		return "match"
	case StatusInTolerance:
		return "tolerated"
	case StatusIgnored:
		return "ignored"
	case StatusOptionalMissing:
		return "optional"
	case StatusMissingRequired, StatusObjectMissing:
		return "missing"
	case StatusArrayLengthMismatch:
		return "length"
	case StatusTypeMismatch:
		return "type"
	default:
		return "fail"
	}
}
