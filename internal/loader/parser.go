package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/freewebtopdf/objcompare/internal/domain"
	"github.com/freewebtopdf/objcompare/internal/schema"
)

const invalidProfile = "Invalid profile configuration"

// maxExtendsDepth bounds chains of profiles extending other profiles
const maxExtendsDepth = 8

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// Parser reads comparison profiles from YAML or JSON documents. Field order is
// kept as written so wildcard fallback follows the document.
type Parser struct {
	validator *domain.ProfileValidator
}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{validator: domain.NewProfileValidator()}
}

// ParseFile reads and parses a profile file. A missing file yields an error
// wrapping fs.ErrNotExist.
func (p *Parser) ParseFile(path string) (*domain.Profile, error) {
	return p.parseFile(path, nil)
}

// ParseContent parses profile content from bytes without file context.
// Relative extends paths resolve against the working directory.
func (p *Parser) ParseContent(data []byte, format string) (*domain.Profile, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return p.parse(data, domain.FormatYAML, "", nil)
	case "json":
		return p.parse(data, domain.FormatJSON, "", nil)
	default:
		return nil, domain.NewConfigurationError(
			fmt.Sprintf("%s: unsupported format %q", invalidProfile, format),
			map[string]any{"allowed_values": []string{domain.FormatYAML, domain.FormatJSON}},
		)
	}
}

// LoadErrorFor converts a parse failure into the LoadError reported for a file
func LoadErrorFor(filePath string, err error) domain.LoadError {
	loadErr := domain.LoadError{FilePath: filePath, Error: err.Error()}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		loadErr.Error = appErr.Message
		if details, ok := appErr.Details.(map[string]any); ok {
			if line, ok := details["line"].(int); ok {
				loadErr.Line = line
			}
		}
	}
	return loadErr
}

func (p *Parser) parseFile(path string, chain []string) (*domain.Profile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for _, seen := range chain {
		if seen == abs {
			return nil, domain.NewConfigurationError(
				fmt.Sprintf("%s: extends cycle through %s", invalidProfile, path),
				map[string]any{"chain": append(chain, abs)},
			)
		}
	}
	if len(chain) >= maxExtendsDepth {
		return nil, domain.NewConfigurationError(
			fmt.Sprintf("%s: extends chain deeper than %d", invalidProfile, maxExtendsDepth),
			map[string]any{"chain": chain},
		)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("profile file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}

	return p.parse(data, FormatOf(path), path, append(chain, abs))
}

// parse runs the validation pipeline: syntax, JSON Schema, ordered decode,
// semantic validation
func (p *Parser) parse(data []byte, format, filePath string, chain []string) (*domain.Profile, error) {
	if format == domain.FormatJSON && len(strings.TrimSpace(string(data))) > 0 && !json.Valid(data) {
		return nil, domain.NewConfigurationError(
			fmt.Sprintf("%s: malformed JSON", invalidProfile),
			map[string]any{"file": filePath},
		)
	}

	// JSON documents are valid YAML, so one decoder serves both formats
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, yamlError(err, filePath)
	}

	if len(root.Content) == 0 {
		return domain.NewProfile(), nil
	}

	var tree any
	if err := root.Decode(&tree); err != nil {
		return nil, yamlError(err, filePath)
	}
	if err := schema.ValidateProfile(tree); err != nil {
		return nil, domain.NewAppErrorWithCause(
			domain.ErrConfiguration,
			fmt.Sprintf("%s: %s", invalidProfile, schemaMessage(err)),
			422,
			err,
			map[string]any{"file": filePath},
		)
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return domain.NewProfile(), nil
	}

	profile, err := p.decodeProfile(doc, filePath, chain)
	if err != nil {
		return nil, err
	}

	if err := p.validator.ValidateProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (p *Parser) decodeProfile(doc *yaml.Node, filePath string, chain []string) (*domain.Profile, error) {
	profile := domain.NewProfile()

	if base := mappingValue(doc, "extends"); base != nil {
		basePath := base.Value
		if !filepath.IsAbs(basePath) && filePath != "" {
			basePath = filepath.Join(filepath.Dir(filePath), basePath)
		}
		parent, err := p.parseFile(basePath, chain)
		if err != nil {
			return nil, err
		}
		profile = parent.Clone()
	}

	if fields := mappingValue(doc, "fields"); fields != nil && fields.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(fields.Content); i += 2 {
			pattern := fields.Content[i].Value
			settings, err := decodeSettings(pattern, fields.Content[i+1])
			if err != nil {
				return nil, err
			}
			profile.Fields.Set(pattern, settings)
		}
	}

	if options := mappingValue(doc, "options"); options != nil && options.Kind == yaml.MappingNode {
		// Decoding into the existing options only overwrites keys that are present
		if logging := mappingValue(options, "logging"); logging != nil {
			policy := profile.Options.LoggingPolicy()
			profile.Options.Logging = &policy
		}
		if err := options.Decode(&profile.Options); err != nil {
			return nil, yamlError(err, filePath)
		}
	}

	return profile, nil
}

func decodeSettings(pattern string, node *yaml.Node) (domain.FieldSettings, error) {
	var settings domain.FieldSettings
	if node.Kind != yaml.MappingNode {
		return settings, nil
	}

	tolerancePresent := mappingValue(node, "percentage") != nil || mappingValue(node, "absolute") != nil
	if err := node.Decode(&settings); err != nil {
		return settings, yamlError(err, "")
	}
	if tolerancePresent && !settings.HasTolerance() {
		return settings, domain.NewConfigurationError(
			fmt.Sprintf("%s: field %q: At least one tolerance (percentage or absolute) must be specified", invalidProfile, pattern),
			map[string]any{"field": pattern, "line": node.Line},
		)
	}
	return settings, nil
}

// mappingValue returns the value node stored under key, or nil
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func yamlError(err error, filePath string) error {
	details := map[string]any{}
	if filePath != "" {
		details["file"] = filePath
	}
	if line := extractYAMLErrorLine(err); line > 0 {
		details["line"] = line
	}
	return domain.NewAppErrorWithCause(
		domain.ErrConfiguration,
		fmt.Sprintf("%s: %v", invalidProfile, err),
		422,
		err,
		details,
	)
}

// extractYAMLErrorLine pulls the line number out of a yaml.v3 error message
func extractYAMLErrorLine(err error) int {
	if err == nil {
		return 0
	}
	m := yamlLinePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	line, _ := strconv.Atoi(m[1])
	return line
}

// schemaMessage flattens a multi-line schema validation error into one line
func schemaMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), "profile validation failed: ")
	var lines []string
	for _, line := range strings.Split(msg, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "; ")
}
