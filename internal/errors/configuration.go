package errors

import (
	"fmt"
	"strings"
)

// FieldError describes one invalid configuration field.
type FieldError struct {
	Field      string
	Message    string
	Suggestion string
}

// ConfigurationError aggregates every invalid field found while loading config.
type ConfigurationError struct {
	Fields []FieldError
}

func (e *ConfigurationError) Add(field, message, suggestion string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message, Suggestion: suggestion})
}

func (e *ConfigurationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// ErrorOrNil returns nil when no field failed, so callers can return it directly.
func (e *ConfigurationError) ErrorOrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ConfigurationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return fmt.Sprintf("%s: invalid configuration (%s)", TypeConfiguration, strings.Join(parts, "; "))
}

// Format renders a multi-line message suitable for a failed workflow step.
func (e *ConfigurationError) Format() string {
	var b strings.Builder
	b.WriteString("Configuration validation failed:\n")
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "  - %s: %s\n", f.Field, f.Message)
		if f.Suggestion != "" {
			fmt.Fprintf(&b, "    Suggestion: %s\n", f.Suggestion)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
