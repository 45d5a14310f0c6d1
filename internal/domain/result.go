package domain

// RootName is how the root path is reported in field results
const RootName = "root"

// ComparisonOptions holds global switches for a comparison
type ComparisonOptions struct {
	// NormalizeTypes treats int and float values as compatible (9 vs 9.0)
	NormalizeTypes bool `json:"normalize_types" yaml:"normalize_types"`
	// Debug logs every field decision at debug level
	Debug bool `json:"debug" yaml:"debug"`
}

// FieldResult records the outcome for one path
type FieldResult struct {
	Path             string           `json:"name"`
	Passed           bool             `json:"passed"`
	Status           ComparisonStatus `json:"status"`
	Expected         any              `json:"expected"`
	Actual           any              `json:"actual"`
	Reason           string           `json:"reason"`
	ToleranceApplied string           `json:"tolerance_applied,omitempty"`
	ExpectedType     string           `json:"expected_type,omitempty"`
	ActualType       string           `json:"actual_type,omitempty"`
}

// DisplayPath returns the path with the root rendered as RootName
func DisplayPath(path string) string {
	if path == "" {
		return RootName
	}
	return path
}
