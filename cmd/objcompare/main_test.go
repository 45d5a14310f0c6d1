package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

const nutritionProfile = `
fields:
  calories:
    percentage: 10
  notes:
    ignore: true
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

type fixture struct {
	profile  string
	expected string
	matching string
	failing  string
}

func newFixture(t *testing.T) fixture {
	dir := t.TempDir()
	return fixture{
		profile:  writeFile(t, dir, "nutrition.profile.yaml", nutritionProfile),
		expected: writeFile(t, dir, "expected.json", `{"calories": 200, "name": "Oats", "notes": "a"}`),
		matching: writeFile(t, dir, "matching.json", `{"calories": 210, "name": "Oats", "notes": "b"}`),
		failing:  writeFile(t, dir, "failing.json", `{"calories": 250, "name": "Oats", "notes": "a"}`),
	}
}

func execute(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCompareCommand_Match(t *testing.T) {
	f := newFixture(t)

	code, stdout, _ := execute("compare", "--profile", f.profile, f.expected, f.matching)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "== Comparison Passed ==")
	assert.Contains(t, stdout, "No fields to display")
}

func TestCompareCommand_Mismatch(t *testing.T) {
	f := newFixture(t)

	code, stdout, stderr := execute("compare", "-p", f.profile, f.expected, f.failing)

	assert.Equal(t, exitMismatch, code)
	assert.Contains(t, stdout, "== Comparison Failed ==")
	assert.Contains(t, stdout, "calories")
	assert.NotContains(t, stderr, "Error:")
}

func TestCompareCommand_JSONFormat(t *testing.T) {
	f := newFixture(t)

	code, stdout, _ := execute("compare", "--profile", f.profile, "--format", "json", "--detail", "all", f.expected, f.failing)
	require.Equal(t, exitMismatch, code)

	var out compareOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.False(t, out.Matches)
	assert.Equal(t, "all", string(out.Detail))
	assert.Len(t, out.ProfileHash, 64)

	paths := make(map[string]bool)
	for _, field := range out.Fields {
		paths[field.Path] = field.Passed
	}
	assert.Equal(t, map[string]bool{"calories": false, "name": true, "notes": true}, paths)
}

func TestCompareCommand_WithoutProfile(t *testing.T) {
	f := newFixture(t)

	code, stdout, _ := execute("compare", f.expected, f.expected)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "Comparison Passed")
}

func TestCompareCommand_Errors(t *testing.T) {
	f := newFixture(t)
	broken := writeFile(t, t.TempDir(), "broken.json", `{"calories": `)

	tests := []struct {
		name   string
		args   []string
		stderr string
	}{
		{"unknown detail", []string{"compare", "--detail", "everything", f.expected, f.matching}, "must be one of failures, differences, all"},
		{"unknown format", []string{"compare", "--format", "xml", f.expected, f.matching}, "must be one of table, json"},
		{"missing argument", []string{"compare", f.expected}, "accepts 2 arg(s)"},
		{"missing profile", []string{"compare", "--profile", "does-not-exist.yaml", f.expected, f.matching}, "does-not-exist.yaml"},
		{"broken document", []string{"compare", f.expected, broken}, "broken.json"},
		{"bad log level", []string{"compare", "--log-level", "loud", f.expected, f.matching}, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := execute(tt.args...)
			assert.Equal(t, exitError, code)
			assert.Contains(t, stderr, tt.stderr)
		})
	}
}

func TestValidateCommand(t *testing.T) {
	f := newFixture(t)

	code, stdout, _ := execute("validate", f.profile)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "== Profile Valid ==")
	assert.Contains(t, stdout, "Name:   nutrition")
	assert.Contains(t, stdout, "Fields: 2")
}

func TestValidateCommand_InvalidProfile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.profile.yaml", `
fields:
  calories:
    percentage: 10
    ignore: true
`)

	code, stdout, stderr := execute("validate", path)

	assert.Equal(t, exitError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error:")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	printBanner(&buf, "comparison failed", false)
	assert.Equal(t, "== Comparison Failed ==\n", buf.String())
}
