package loader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDocument_NumberKinds(t *testing.T) {
	doc, err := DecodeDocument([]byte(`{"a": 9, "b": 9.0, "c": [1, 2.5, "x"], "d": {"e": -3}, "f": null, "g": 1e3}`))
	require.NoError(t, err)

	m := doc.(map[string]any)
	assert.Equal(t, int64(9), m["a"])
	assert.Equal(t, 9.0, m["b"])
	assert.Equal(t, []any{int64(1), 2.5, "x"}, m["c"])
	assert.Equal(t, map[string]any{"e": int64(-3)}, m["d"])
	assert.Nil(t, m["f"])
	assert.Equal(t, 1000.0, m["g"])
}

func TestDecodeDocument_Scalars(t *testing.T) {
	doc, err := DecodeDocument([]byte(`42`))
	require.NoError(t, err)
	assert.Equal(t, int64(42), doc)

	doc, err = DecodeDocument([]byte(`"text"`))
	require.NoError(t, err)
	assert.Equal(t, "text", doc)
}

func TestDecodeDocument_Errors(t *testing.T) {
	_, err := DecodeDocument([]byte(`{"a":`))
	assert.Error(t, err)

	_, err = DecodeDocument([]byte(`{"a": 1} {"b": 2}`))
	assert.Error(t, err)

	_, err = DecodeDocument(nil)
	assert.Error(t, err)
}

func TestDecodeDocumentFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "expected.json", `{"calories": 250}`)

	doc, err := DecodeDocumentFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"calories": int64(250)}, doc)

	_, err = DecodeDocumentFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
