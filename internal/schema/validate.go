// Package schema validates the shape of comparison profile documents.
package schema

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed profile.schema.json
var profileSchemaData []byte

const profileSchemaURL = "profile.schema.json"

var (
	profileSchema *jsonschema.Schema
	compileOnce   sync.Once
	compileErr    error
)

// compileSchema compiles the embedded schema once.
func compileSchema() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(profileSchemaData))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal profile schema: %w", err)
			return
		}

		if err := compiler.AddResource(profileSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add profile schema resource: %w", err)
			return
		}

		profileSchema, err = compiler.Compile(profileSchemaURL)
		if err != nil {
			compileErr = fmt.Errorf("compile profile schema: %w", err)
			return
		}
	})

	return compileErr
}

// ValidateProfileJSON validates raw JSON against the profile schema.
func ValidateProfileJSON(data []byte) error {
	if err := compileSchema(); err != nil {
		return err
	}

	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := profileSchema.Validate(v); err != nil {
		return fmt.Errorf("profile validation failed: %w", err)
	}

	return nil
}

// ValidateProfile validates an already decoded document, such as a parsed
// YAML tree. The value is round-tripped through JSON so numbers reach the
// validator in the form it expects.
func ValidateProfile(doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode profile document: %w", err)
	}
	return ValidateProfileJSON(data)
}
