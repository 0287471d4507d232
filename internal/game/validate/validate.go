// Package validate provides the ConfigError type shared by every content
// definition package, plus small field checks used by their Validate methods.
package validate

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError reports a malformed or incomplete content definition.
// It is fatal to loading that definition and must surface to the content author.
type ConfigError struct {
	// Kind is the definition family, e.g. "ability", "status", "environment".
	Kind string
	// ID identifies the offending definition; may be empty when the ID itself is missing.
	ID string
	// Field is the offending field path, e.g. "effects.damage.intensity_ranges[2]".
	Field string
	// Reason describes the violation.
	Reason string
}

// Error implements error.
func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind)
	if e.ID != "" {
		fmt.Fprintf(&b, " %q", e.ID)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	return b.String()
}

// Errorf builds a ConfigError with a formatted reason.
func Errorf(kind, id, field, format string, args ...any) *ConfigError {
	return &ConfigError{Kind: kind, ID: id, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err (or anything it wraps) is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Collector accumulates ConfigErrors for one definition so that Validate can
// report every violation at once.
type Collector struct {
	Kind string
	ID   string
	errs []error
}

// NewCollector creates a Collector for the definition kind/id.
func NewCollector(kind, id string) *Collector {
	return &Collector{Kind: kind, ID: id}
}

// Addf records a violation on field.
func (c *Collector) Addf(field, format string, args ...any) {
	c.errs = append(c.errs, Errorf(c.Kind, c.ID, field, format, args...))
}

// Required records a violation when value is empty.
func (c *Collector) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.Addf(field, "must not be empty")
	}
}

// IntRange records a violation when v is outside [lo, hi].
func (c *Collector) IntRange(field string, v, lo, hi int) {
	if v < lo || v > hi {
		c.Addf(field, "must be in [%d, %d], got %d", lo, hi, v)
	}
}

// FloatRange records a violation when v is outside [lo, hi].
func (c *Collector) FloatRange(field string, v, lo, hi float64) {
	if v < lo || v > hi {
		c.Addf(field, "must be in [%g, %g], got %g", lo, hi, v)
	}
}

// OneOf records a violation when v is not one of allowed.
func (c *Collector) OneOf(field, v string, allowed ...string) {
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	c.Addf(field, "must be one of [%s], got %q", strings.Join(allowed, ", "), v)
}

// Err returns nil when no violations were recorded, otherwise all violations joined.
// Each joined element is a *ConfigError, so errors.As finds the first one.
func (c *Collector) Err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return errors.Join(c.errs...)
}
