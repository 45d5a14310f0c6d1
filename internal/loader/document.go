package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
)

// DecodeDocument decodes one JSON document for comparison. Numbers become
// int64 when they are integral literals and float64 otherwise, so 9 and 9.0
// keep distinct kinds.
func DecodeDocument(data []byte) (any, error) {
	return DecodeDocumentReader(bytes.NewReader(data))
}

// DecodeDocumentReader decodes one JSON document from r
func DecodeDocumentReader(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode JSON document: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("failed to decode JSON document: trailing data after document")
	}
	return ConvertNumbers(doc), nil
}

// DecodeDocumentFile reads and decodes a JSON document file
func DecodeDocumentFile(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", path, err)
	}
	defer f.Close()

	doc, err := DecodeDocumentReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ConvertNumbers replaces json.Number values in a decoded tree in place
func ConvertNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = ConvertNumbers(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = ConvertNumbers(item)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}
