package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators registers listgate-specific validation rules.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("go_duration", validateGoDuration); err != nil {
		return fmt.Errorf("failed to register go_duration validator: %w", err)
	}
	return nil
}

// validateGoDuration checks a field parses with time.ParseDuration.
func validateGoDuration(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.ParseDuration(s)
	return err == nil
}

// Validate validates the Config using struct tags and cross-field rules.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := RegisterCustomValidators(v); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		return formatValidationErrors(err)
	}

	if _, err := time.ParseDuration(c.HookTimeout); err != nil {
		return fmt.Errorf("hook_timeout: invalid duration %q: %w", c.HookTimeout, err)
	}

	if !c.DevMode && len(c.AdminCredentialHashes) == 0 {
		return errors.New("admin_credential_hashes: at least one argon2id hash is required outside dev_mode")
	}

	return nil
}

func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, formatSingleValidationError(e))
		}
		return errors.New(strings.Join(messages, "; "))
	}
	return err
}

func formatSingleValidationError(e validator.FieldError) string {
	field := e.Namespace()
	tag := e.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "hostname_port":
		return fmt.Sprintf("%s must be a valid host:port", field)
	case "go_duration":
		return fmt.Sprintf("%s must be a valid Go duration (e.g. \"30s\")", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, tag)
	}
}
