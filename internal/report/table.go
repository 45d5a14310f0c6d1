package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/freewebtopdf/objcompare/internal/domain"
)

// NoFieldsMessage is returned instead of an empty table
const NoFieldsMessage = "No fields to display"

const (
	fieldColumnWidth = 30
	valueColumnWidth = 20
	ellipsis         = "..."
)

// TableHeader lists the rendered columns in order
var TableHeader = []string{"Field Name", "Status", "Expected", "Actual", "Reason"}

// FormatTable renders the fields visible at the given detail level. An unknown
// detail level is an error.
func (r ComparisonResult) FormatTable(detail domain.Detail) (string, error) {
	visibleFields, err := r.ForDetail(detail)
	if err != nil {
		return "", err
	}
	if visibleFields.Len() == 0 {
		return NoFieldsMessage, nil
	}

	buf := &bytes.Buffer{}
	table := tablewriter.NewTable(buf,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
	table.Header(TableHeader)

	for _, f := range visibleFields.fields {
		if err := table.Append(Row(f)); err != nil {
			return "", fmt.Errorf("failed to render row %s: %w", f.Path, err)
		}
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("failed to render table: %w", err)
	}

	return buf.String(), nil
}

// Row converts a field result into its table cells
func Row(f domain.FieldResult) []string {
	return []string{
		truncateLeft(f.Path, fieldColumnWidth),
		f.Status.Word(),
		truncateRight(FormatValue(f.Expected), valueColumnWidth),
		truncateRight(FormatValue(f.Actual), valueColumnWidth),
		ShortReason(f),
	}
}

// ShortReason derives the reason column from the status
func ShortReason(f domain.FieldResult) string {
	switch f.Status {
	case domain.StatusIdentical:
		return "exact"
	case domain.StatusInTolerance:
		if f.ToleranceApplied == "" {
			return "text"
		}
		return "< " + f.ToleranceApplied
	case domain.StatusOutsideTolerance:
		if f.ToleranceApplied == "" {
			return "text"
		}
		return "> " + f.ToleranceApplied
	case domain.StatusTypeMismatch:
		return "type"
	case domain.StatusMissingRequired, domain.StatusObjectMissing:
		return "missing"
	case domain.StatusOptionalMissing:
		return "optional"
	case domain.StatusArrayLengthMismatch:
		return "length"
	case domain.StatusIgnored:
		return "ignored"
	default:
		return "value"
	}
}

// FormatValue renders a value for display. Nested values are shown as
// compact JSON.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return domain.FormatDecimal(t)
	case float32:
		return domain.FormatDecimal(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return "<unprintable>"
		}
		return string(data)
	}
}

// truncateLeft keeps the tail of s, which is the most specific part of a path
func truncateLeft(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return ellipsis + string(r[len(r)-(width-len(ellipsis)):])
}

func truncateRight(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-len(ellipsis)]) + ellipsis
}
