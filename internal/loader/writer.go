package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/freewebtopdf/objcompare/internal/domain"
)

// Writer handles writing profiles to disk in YAML format
type Writer struct {
	baseDir string // Base directory for writing profile files
}

// NewWriter creates a new Writer with the specified base directory
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// PathFor returns the file a named profile is written to
func (w *Writer) PathFor(name string) string {
	return filepath.Join(w.baseDir, name+".profile.yaml")
}

// WriteProfile writes a named profile and returns the file path
func (w *Writer) WriteProfile(name string, profile *domain.Profile) (string, error) {
	path := w.PathFor(name)
	return path, w.WriteProfileToPath(profile, path)
}

// WriteProfileToPath writes a profile to a specific file path.
// Uses atomic write pattern: temp file → sync → rename
func (w *Writer) WriteProfileToPath(profile *domain.Profile, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := MarshalProfile(profile)
	if err != nil {
		return err
	}

	return atomicWrite(filePath, data)
}

// MarshalProfile renders a profile as YAML with fields in insertion order
func MarshalProfile(profile *domain.Profile) ([]byte, error) {
	fields := &yaml.Node{Kind: yaml.MappingNode}
	for _, entry := range profile.Fields.Entries() {
		var value yaml.Node
		if err := value.Encode(entry.Settings); err != nil {
			return nil, fmt.Errorf("failed to encode field %q: %w", entry.Pattern, err)
		}
		fields.Content = append(fields.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Pattern},
			&value,
		)
	}

	var options yaml.Node
	if err := options.Encode(profile.Options); err != nil {
		return nil, fmt.Errorf("failed to encode options: %w", err)
	}

	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "fields"}, fields,
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "options"}, &options,
		},
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile to YAML: %w", err)
	}
	return data, nil
}

// atomicWrite performs an atomic file write using temp file → sync → rename pattern
func atomicWrite(targetPath string, data []byte) error {
	// Create temp file in the same directory to ensure same filesystem
	dir := filepath.Dir(targetPath)
	tempFile, err := os.CreateTemp(dir, ".profile-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		return fmt.Errorf("failed to rename temp file to target: %w", err)
	}

	success = true
	return nil
}

// DeleteProfile removes a named profile file. Deleting a missing file is not an error.
func (w *Writer) DeleteProfile(name string) error {
	return w.DeleteProfileFile(w.PathFor(name))
}

// DeleteProfileFile removes a profile file at the specified path
func (w *Writer) DeleteProfileFile(filePath string) error {
	if err := os.Remove(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete profile file %s: %w", filePath, err)
	}
	return nil
}
