package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured matches every ConfigError of CategoryNotConfigured via errors.Is.
var ErrNotConfigured = errors.New("not configured")

// Error categories.
const (
	CategoryMissing       = "missing"
	CategoryInvalid       = "invalid"
	CategoryNotConfigured = "not_configured"
)

// ConfigError reports a configuration problem together with how to fix it.
// Messages are lowercase.
//
//nolint:revive // exported as config.ConfigError on purpose
type ConfigError struct {
	Category string
	Field    string // configuration key, e.g. "openapi.title"
	Message  string
	Action   string
	Options  []string // accepted values, when the set is closed
}

func (e *ConfigError) Error() string {
	parts := make([]string, 0, 5)
	if e.Category != "" {
		parts = append(parts, "config_"+e.Category+":")
	}
	for _, p := range []string{e.Field, e.Message, e.Action} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(e.Options) > 0 {
		parts = append(parts, "(one of: "+strings.Join(e.Options, ", ")+")")
	}
	return strings.Join(parts, " ")
}

// Is reports not-configured errors as ErrNotConfigured.
func (e *ConfigError) Is(target error) bool {
	return target == ErrNotConfigured && e.Category == CategoryNotConfigured
}

// NewMissingFieldError reports a required key that no source sets.
func NewMissingFieldError(key string) *ConfigError {
	return &ConfigError{
		Category: CategoryMissing,
		Field:    key,
		Message:  "required",
		Action:   fmt.Sprintf("set %s or add %s to %s", envVarName(key), key, DefaultFile),
	}
}

// NewInvalidFieldError reports a key whose value is unusable. options lists the
// accepted values when they form a closed set.
func NewInvalidFieldError(key, message string, options ...string) *ConfigError {
	return &ConfigError{
		Category: CategoryInvalid,
		Field:    key,
		Message:  message,
		Options:  options,
	}
}

// NewNotConfiguredError reports an optional feature that is switched off by key.
func NewNotConfiguredError(feature, key string) *ConfigError {
	return &ConfigError{
		Category: CategoryNotConfigured,
		Field:    feature,
		Message:  "(optional)",
		Action:   fmt.Sprintf("to enable: set %s=true or add %s to %s", envVarName(key), key, DefaultFile),
	}
}

// IsNotConfigured reports whether err marks a disabled optional feature.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}
