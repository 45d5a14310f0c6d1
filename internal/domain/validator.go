package domain

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// invalidProfilePrefix starts every profile validation message
const invalidProfilePrefix = "Invalid profile configuration"

// ProfileValidator checks profiles with struct tags plus the semantic rules
// tags cannot express
type ProfileValidator struct {
	validate    *validator.Validate
	profileName *regexp.Regexp
	maxPatterns int
}

// NewProfileValidator creates a validator with default limits
func NewProfileValidator() *ProfileValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &ProfileValidator{
		validate:    validate,
		profileName: regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`),
		maxPatterns: 10000,
	}
}

// NewValidator creates a new profile validator instance
func NewValidator() Validator {
	return NewProfileValidator()
}

// ValidateProfile validates every field entry and the logging policy
func (v *ProfileValidator) ValidateProfile(profile *Profile) error {
	if profile == nil {
		return NewConfigurationError(invalidProfilePrefix+": profile cannot be nil", nil)
	}

	if profile.Fields.Len() > v.maxPatterns {
		return NewConfigurationError(
			fmt.Sprintf("%s: too many field patterns (max %d)", invalidProfilePrefix, v.maxPatterns),
			map[string]any{"count": profile.Fields.Len(), "max": v.maxPatterns},
		)
	}

	for _, entry := range profile.Fields.Entries() {
		if err := v.ValidateSettings(entry.Pattern, entry.Settings); err != nil {
			return err
		}
	}

	if profile.Options.Logging != nil {
		if err := v.ValidateLoggingPolicy(profile.Options.Logging); err != nil {
			return err
		}
	}

	return nil
}

// ValidateSettings validates the settings of one field pattern
func (v *ProfileValidator) ValidateSettings(pattern string, settings FieldSettings) error {
	details := map[string]any{"field": pattern}

	if strings.TrimSpace(pattern) == "" {
		return NewConfigurationError(invalidProfilePrefix+": field pattern cannot be empty", details)
	}

	if err := v.validate.Struct(settings); err != nil {
		return NewAppErrorWithCause(
			ErrConfiguration,
			fmt.Sprintf("%s: field %q: %s", invalidProfilePrefix, pattern, formatValidationError(err)),
			422,
			err,
			details,
		)
	}

	if settings.HasTolerance() && settings.HasBehavior() {
		return NewConfigurationError(
			fmt.Sprintf("%s: field %q mixes tolerance and behavior settings", invalidProfilePrefix, pattern),
			details,
		)
	}

	if settings.BehaviorCount() > 1 {
		return NewConfigurationError(
			fmt.Sprintf("%s: field %q sets more than one of required, ignore and text_validation", invalidProfilePrefix, pattern),
			details,
		)
	}

	if _, err := settings.Rule(); err != nil {
		return NewAppErrorWithCause(
			ErrConfiguration,
			fmt.Sprintf("%s: field %q: %s", invalidProfilePrefix, pattern, errorMessage(err)),
			422,
			err,
			details,
		)
	}

	return nil
}

// ValidateLoggingPolicy validates the logging block of a profile
func (v *ProfileValidator) ValidateLoggingPolicy(policy *LoggingPolicy) error {
	if policy == nil {
		return nil
	}
	if err := v.validate.Struct(policy); err != nil {
		return NewAppErrorWithCause(
			ErrConfiguration,
			fmt.Sprintf("%s: logging: %s", invalidProfilePrefix, formatValidationError(err)),
			422,
			err,
			map[string]any{"field": "options.logging"},
		)
	}
	return nil
}

// ValidateProfileName validates names used for stored profiles
func (v *ProfileValidator) ValidateProfileName(name string) error {
	if name == "" {
		return NewAppError(ErrValidationFailed, "Profile name is required", 422, map[string]any{"field": "name"})
	}
	if !v.profileName.MatchString(name) || strings.Contains(name, "..") {
		return NewAppError(ErrValidationFailed, "Invalid profile name", 422, map[string]any{
			"field": "name",
			"value": name,
		})
	}
	return nil
}

// formatValidationError turns validator errors into one readable sentence
func formatValidationError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "gte":
			messages = append(messages, fmt.Sprintf("%s must be non-negative", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed validation: %s", field, e.Tag()))
		}
	}
	return strings.Join(messages, "; ")
}

func errorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
