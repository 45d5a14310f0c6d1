// Package loader reads comparison profiles from YAML and JSON files and
// decodes the JSON documents being compared.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/freewebtopdf/objcompare/internal/domain"
)

// ValidProfileExtensions defines the file suffixes recognized as profile files
var ValidProfileExtensions = []string{".profile.yaml", ".profile.yml", ".profile.json"}

// Scanner discovers profile files in a directory tree
type Scanner struct {
	dir string
}

// NewScanner creates a new Scanner rooted at dir
func NewScanner(dir string) *Scanner {
	return &Scanner{dir: dir}
}

// Scan recursively scans the directory for profile files, sorted by name. A
// missing directory yields no files.
func (s *Scanner) Scan(ctx context.Context) ([]domain.ProfileFile, error) {
	var files []domain.ProfileFile

	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if path == s.dir {
				return err
			}
			// Skip inaccessible entries but continue scanning
			return nil
		}

		if d.IsDir() || !IsProfileFile(path) {
			return nil
		}

		files = append(files, domain.ProfileFile{
			Name:     ProfileName(path),
			FilePath: path,
			Format:   FormatOf(path),
		})
		return nil
	})

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// IsProfileFile checks if a file path has a valid profile file suffix
func IsProfileFile(path string) bool {
	lowerPath := strings.ToLower(path)
	for _, ext := range ValidProfileExtensions {
		if strings.HasSuffix(lowerPath, ext) {
			return true
		}
	}
	return false
}

// ProfileName returns the file name without its profile suffix
func ProfileName(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	for _, ext := range ValidProfileExtensions {
		if strings.HasSuffix(lower, ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FormatOf infers the document format from the file extension, defaulting to YAML
func FormatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return domain.FormatJSON
	}
	return domain.FormatYAML
}
