package domain

// LoadError represents an error loading a specific profile file
type LoadError struct {
	FilePath string `json:"file_path"`      // Path to the file that failed to load
	Error    string `json:"error"`          // Error message describing the failure
	Line     int    `json:"line,omitempty"` // Line number where the error occurred (if applicable)
}

// ProfileFile is a profile file discovered on disk
type ProfileFile struct {
	Name     string `json:"name"`      // Profile name, the file name without its suffix
	FilePath string `json:"file_path"` // Path to the profile file
	Format   string `json:"format"`    // "yaml" or "json"
}

// Document formats accepted by the profile loader
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)
