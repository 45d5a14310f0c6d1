package compare

import (
	"math"
	"reflect"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/freewebtopdf/objcompare/internal/report"
)

// shape is the closed set of structural forms a value can take
type shape int

const (
	shapeAbsent shape = iota
	shapeMap
	shapeSequence
	shapeScalar
)

// Kind names used for type compatibility and reported in type mismatches
const (
	KindNull   = "null"
	KindBool   = "bool"
	KindInt    = "int"
	KindFloat  = "float"
	KindString = "string"
	KindMap    = "map"
	KindList   = "list"
)

var byteSliceType = reflect.TypeOf([]byte(nil))

// normalize converts json.Number into int64 or float64 so decoded documents
// keep integer and float kinds apart
func normalize(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func shapeOf(v any) shape {
	switch v.(type) {
	case nil:
		return shapeAbsent
	case map[string]any:
		return shapeMap
	case []any:
		return shapeSequence
	case string, bool, int, int64, float64:
		return shapeScalar
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return shapeAbsent
		}
		return shapeOf(rv.Elem().Interface())
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return shapeMap
		}
	case reflect.Slice, reflect.Array:
		if rv.Type() != byteSliceType {
			return shapeSequence
		}
	}
	return shapeScalar
}

// deref unwraps non-nil pointers so typed inputs compare by value
func deref(v any) any {
	for {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		v = rv.Elem().Interface()
	}
}

// asMap returns a string-keyed view of a map-shaped value
func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	rv := reflect.ValueOf(v)
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out
}

// asSequence returns an []any view of a sequence-shaped value
func asSequence(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// unionKeys returns the sorted union of keys from both maps
func unionKeys(expected, actual map[string]any) []string {
	keys := make([]string, 0, len(expected)+len(actual))
	for k := range expected {
		keys = append(keys, k)
	}
	for k := range actual {
		if _, ok := expected[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// kindOf names the runtime kind of a value
func kindOf(v any) string {
	switch shapeOf(v) {
	case shapeAbsent:
		return KindNull
	case shapeMap:
		return KindMap
	case shapeSequence:
		return KindList
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindString
	default:
		return rv.Type().String()
	}
}

func isNumeric(kind string) bool {
	return kind == KindInt || kind == KindFloat
}

// typesCompatible reports whether two present values may be compared
func typesCompatible(expectedKind, actualKind string, normalizeTypes bool) bool {
	if expectedKind == actualKind {
		return true
	}
	return normalizeTypes && isNumeric(expectedKind) && isNumeric(actualKind)
}

// toFloat converts any numeric value to float64
func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

// toInt64 converts integer values that fit into int64
func toInt64(v any) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	default:
		return 0, false
	}
}

// scalarsEqual compares two scalars. Numbers compare by value across kinds
// so 9 equals 9.0.
func scalarsEqual(expected, actual any) bool {
	if isNumeric(kindOf(expected)) && isNumeric(kindOf(actual)) {
		if ei, ok := toInt64(expected); ok {
			if ai, ok := toInt64(actual); ok {
				return ei == ai
			}
		}
		ef, _ := toFloat(expected)
		af, _ := toFloat(actual)
		return ef == af
	}
	return reflect.DeepEqual(expected, actual)
}

// hasText reports whether a value renders to something other than whitespace
func hasText(v any) bool {
	if v == nil {
		return false
	}
	return strings.TrimSpace(report.FormatValue(v)) != ""
}
