package report

import (
	json "github.com/goccy/go-json"

	"github.com/freewebtopdf/objcompare/internal/domain"
)

// ComparisonResult is an immutable, ordered set of field results
type ComparisonResult struct {
	fields []domain.FieldResult
}

// NewComparisonResult copies the given fields into a new result
func NewComparisonResult(fields []domain.FieldResult) ComparisonResult {
	out := make([]domain.FieldResult, len(fields))
	copy(out, fields)
	return ComparisonResult{fields: out}
}

// Fields returns a copy of the field results in order
func (r ComparisonResult) Fields() []domain.FieldResult {
	out := make([]domain.FieldResult, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of field results
func (r ComparisonResult) Len() int {
	return len(r.fields)
}

// Field returns the first result recorded for a path
func (r ComparisonResult) Field(path string) (domain.FieldResult, bool) {
	for _, f := range r.fields {
		if f.Path == path {
			return f, true
		}
	}
	return domain.FieldResult{}, false
}

// Failures returns the number of results that did not pass
func (r ComparisonResult) Failures() int {
	n := 0
	for _, f := range r.fields {
		if !f.Passed {
			n++
		}
	}
	return n
}

// Filter returns a new result with only the fields in the given statuses,
// preserving order
func (r ComparisonResult) Filter(statuses ...domain.ComparisonStatus) ComparisonResult {
	return r.filterFunc(func(f domain.FieldResult) bool {
		for _, s := range statuses {
			if f.Status == s {
				return true
			}
		}
		return false
	})
}

// Concat returns a new result with the fields of r followed by those of others
func (r ComparisonResult) Concat(others ...ComparisonResult) ComparisonResult {
	total := len(r.fields)
	for _, o := range others {
		total += len(o.fields)
	}
	out := make([]domain.FieldResult, 0, total)
	out = append(out, r.fields...)
	for _, o := range others {
		out = append(out, o.fields...)
	}
	return ComparisonResult{fields: out}
}

// Union is Concat without duplicates: a field already present with the same
// path and status is not added twice
func (r ComparisonResult) Union(others ...ComparisonResult) ComparisonResult {
	type key struct {
		path   string
		status domain.ComparisonStatus
	}
	seen := make(map[key]struct{}, len(r.fields))
	out := make([]domain.FieldResult, 0, len(r.fields))

	add := func(fields []domain.FieldResult) {
		for _, f := range fields {
			k := key{f.Path, f.Status}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, f)
		}
	}

	add(r.fields)
	for _, o := range others {
		add(o.fields)
	}
	return ComparisonResult{fields: out}
}

// ForDetail returns the fields shown at the given detail level
func (r ComparisonResult) ForDetail(detail domain.Detail) (ComparisonResult, error) {
	if _, err := domain.ParseDetail(string(detail)); err != nil {
		return ComparisonResult{}, err
	}
	return r.filterFunc(func(f domain.FieldResult) bool {
		return visible(detail, f.Status)
	}), nil
}

func (r ComparisonResult) filterFunc(keep func(domain.FieldResult) bool) ComparisonResult {
	out := make([]domain.FieldResult, 0, len(r.fields))
	for _, f := range r.fields {
		if keep(f) {
			out = append(out, f)
		}
	}
	return ComparisonResult{fields: out}
}

// visible reports whether a status is shown at a detail level
func visible(detail domain.Detail, status domain.ComparisonStatus) bool {
	switch detail {
	case domain.DetailFailures:
		switch status {
		case domain.StatusIdentical, domain.StatusInTolerance, domain.StatusIgnored, domain.StatusOptionalMissing:
			return false
		}
		return true
	case domain.DetailDifferences:
		return status != domain.StatusIdentical && status != domain.StatusIgnored
	default:
		return true
	}
}

type resultJSON struct {
	Fields []domain.FieldResult `json:"fields"`
}

// MarshalJSON implements json.Marshaler
func (r ComparisonResult) MarshalJSON() ([]byte, error) {
	fields := r.fields
	if fields == nil {
		fields = []domain.FieldResult{}
	}
	return json.Marshal(resultJSON{Fields: fields})
}

// ToJSON serializes the field list with every attribute
func (r ComparisonResult) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FullComparisonResult is the outcome of one top-level comparison
type FullComparisonResult struct {
	ComparisonResult
	matches bool
	summary string
}

// NewFullComparisonResult builds the overall result of a comparison
func NewFullComparisonResult(matches bool, summary string, fields []domain.FieldResult) *FullComparisonResult {
	return &FullComparisonResult{
		ComparisonResult: NewComparisonResult(fields),
		matches:          matches,
		summary:          summary,
	}
}

// Matches reports whether every field passed
func (r *FullComparisonResult) Matches() bool {
	return r.matches
}

// Summary returns the human readable summary line
func (r *FullComparisonResult) Summary() string {
	return r.summary
}

type fullResultJSON struct {
	Matches bool                 `json:"matches"`
	Summary string               `json:"summary"`
	Fields  []domain.FieldResult `json:"fields"`
}

// MarshalJSON implements json.Marshaler
func (r *FullComparisonResult) MarshalJSON() ([]byte, error) {
	fields := r.fields
	if fields == nil {
		fields = []domain.FieldResult{}
	}
	return json.Marshal(fullResultJSON{Matches: r.matches, Summary: r.summary, Fields: fields})
}

// ToJSON serializes matches, summary and the field list
func (r *FullComparisonResult) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
