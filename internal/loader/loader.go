package loader

import (
	"context"
	"sync"

	"github.com/freewebtopdf/objcompare/internal/domain"
)

// LoadedProfile is a profile read from disk together with its origin
type LoadedProfile struct {
	File    domain.ProfileFile
	Profile *domain.Profile
}

// ProfileLoader loads named profiles from the file system
type ProfileLoader interface {
	// LoadAll scans the directory and returns all valid profiles
	LoadAll(ctx context.Context) ([]LoadedProfile, []domain.LoadError, error)
	// Reload triggers a full reload of all profiles
	Reload(ctx context.Context) error
	// GetProfiles returns the currently loaded profiles
	GetProfiles() []LoadedProfile
	// GetLoadErrors returns errors from the last load operation
	GetLoadErrors() []domain.LoadError
}

// FileProfileLoader implements ProfileLoader over a profile directory
type FileProfileLoader struct {
	scanner    *Scanner
	parser     *Parser
	mu         sync.RWMutex
	profiles   []LoadedProfile
	loadErrors []domain.LoadError
}

// NewFileProfileLoader creates a loader for the profiles under dir
func NewFileProfileLoader(dir string) *FileProfileLoader {
	return &FileProfileLoader{
		scanner:    NewScanner(dir),
		parser:     NewParser(),
		profiles:   make([]LoadedProfile, 0),
		loadErrors: make([]domain.LoadError, 0),
	}
}

// LoadAll scans the directory and parses every discovered profile file.
// Files that fail to parse are reported as load errors and skipped.
func (l *FileProfileLoader) LoadAll(ctx context.Context) ([]LoadedProfile, []domain.LoadError, error) {
	files, err := l.scanner.Scan(ctx)
	if err != nil {
		return nil, nil, err
	}

	var profiles []LoadedProfile
	var loadErrors []domain.LoadError

	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		profile, err := l.parser.ParseFile(file.FilePath)
		if err != nil {
			loadErrors = append(loadErrors, LoadErrorFor(file.FilePath, err))
			continue
		}

		profiles = append(profiles, LoadedProfile{File: file, Profile: profile})
	}

	l.mu.Lock()
	l.profiles = profiles
	l.loadErrors = loadErrors
	l.mu.Unlock()

	return profiles, loadErrors, nil
}

// Reload triggers a full reload of all profiles from disk
func (l *FileProfileLoader) Reload(ctx context.Context) error {
	_, _, err := l.LoadAll(ctx)
	return err
}

// GetProfiles returns the currently loaded profiles
func (l *FileProfileLoader) GetProfiles() []LoadedProfile {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]LoadedProfile, len(l.profiles))
	copy(result, l.profiles)
	return result
}

// GetLoadErrors returns errors from the last load operation
func (l *FileProfileLoader) GetLoadErrors() []domain.LoadError {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]domain.LoadError, len(l.loadErrors))
	copy(result, l.loadErrors)
	return result
}

// ProfileCount returns the number of currently loaded profiles
func (l *FileProfileLoader) ProfileCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.profiles)
}

// ErrorCount returns the number of load errors from the last operation
func (l *FileProfileLoader) ErrorCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.loadErrors)
}

// Parser returns the parser used for profile files
func (l *FileProfileLoader) Parser() *Parser {
	return l.parser
}
