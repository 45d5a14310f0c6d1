package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freewebtopdf/objcompare/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestScanner_IsProfileFile(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"valid yaml extension", "test.profile.yaml", true},
		{"valid yml extension", "test.profile.yml", true},
		{"valid json extension", "test.profile.json", true},
		{"uppercase yaml", "TEST.PROFILE.YAML", true},
		{"mixed case", "Test.Profile.Json", true},
		{"plain yaml", "test.yaml", false},
		{"plain json", "test.json", false},
		{"no extension", "test", false},
		{"partial match", "test.profile", false},
		{"nested path", "dir/subdir/test.profile.yaml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsProfileFile(tt.path))
		})
	}
}

func TestProfileNameAndFormat(t *testing.T) {
	assert.Equal(t, "nutrition", ProfileName("/tmp/x/nutrition.profile.yaml"))
	assert.Equal(t, "Api", ProfileName("Api.PROFILE.JSON"))
	assert.Equal(t, "plain", ProfileName("plain.yaml"))

	assert.Equal(t, domain.FormatJSON, FormatOf("a.profile.JSON"))
	assert.Equal(t, domain.FormatYAML, FormatOf("a.profile.yml"))
	assert.Equal(t, domain.FormatYAML, FormatOf("a"))
}

func TestScanner_Scan(t *testing.T) {
	tempDir := t.TempDir()

	for _, f := range []string{
		"b.profile.yaml",
		"a.profile.json",
		"nested/c.profile.yml",
		"ignored.yaml",
		"readme.md",
	} {
		writeFile(t, tempDir, f, "{}")
	}

	files, err := NewScanner(tempDir).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, "a", files[0].Name)
	assert.Equal(t, domain.FormatJSON, files[0].Format)
	assert.Equal(t, "b", files[1].Name)
	assert.Equal(t, "c", files[2].Name)
	assert.Equal(t, filepath.Join(tempDir, "nested", "c.profile.yml"), files[2].FilePath)
}

func TestScanner_MissingDirectory(t *testing.T) {
	files, err := NewScanner(filepath.Join(t.TempDir(), "absent")).Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanner_CancelledContext(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "a.profile.yaml", "{}")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(tempDir).Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileProfileLoader_LoadAll(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "nutrition.profile.yaml", `
fields:
  calories: {percentage: 5}
  notes: {ignore: true}
`)
	writeFile(t, tempDir, "api.profile.json", `{"fields": {"id": {"required": true}}}`)

	l := NewFileProfileLoader(tempDir)
	profiles, loadErrors, err := l.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loadErrors)
	require.Len(t, profiles, 2)

	assert.Equal(t, "api", profiles[0].File.Name)
	assert.Equal(t, 1, profiles[0].Profile.Fields.Len())
	assert.Equal(t, "nutrition", profiles[1].File.Name)
	assert.Equal(t, 2, profiles[1].Profile.Fields.Len())

	assert.Equal(t, 2, l.ProfileCount())
	assert.Equal(t, 0, l.ErrorCount())
	assert.Len(t, l.GetProfiles(), 2)
}

func TestFileProfileLoader_InvalidFilesSkipped(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "good.profile.yaml", "fields:\n  a: {absolute: 1}\n")
	writeFile(t, tempDir, "bad.profile.yaml", "fields:\n  a: {percentage: \"10%\"}\n")
	writeFile(t, tempDir, "broken.profile.json", `{"fields": `)

	l := NewFileProfileLoader(tempDir)
	profiles, loadErrors, err := l.LoadAll(context.Background())
	require.NoError(t, err)

	require.Len(t, profiles, 1)
	assert.Equal(t, "good", profiles[0].File.Name)
	require.Len(t, loadErrors, 2)
	for _, le := range loadErrors {
		assert.Contains(t, le.Error, "Invalid profile configuration")
	}
	assert.Equal(t, 2, l.ErrorCount())
	assert.Len(t, l.GetLoadErrors(), 2)

	require.NoError(t, os.Remove(filepath.Join(tempDir, "bad.profile.yaml")))
	require.NoError(t, l.Reload(context.Background()))
	assert.Equal(t, 1, l.ErrorCount())
}
