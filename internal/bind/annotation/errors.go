package annotation

import (
	"fmt"

	"github.com/funvibe/delegator/internal/typesystem"
)

// ConfigurationError indicates that the binder was assembled incorrectly.
type ConfigurationError struct {
	Marker typesystem.MarkerType
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("binder configuration: %s: %s", e.Marker, e.Reason)
}

func NewConfigurationError(marker typesystem.MarkerType, reason string) *ConfigurationError {
	return &ConfigurationError{Marker: marker, Reason: reason}
}

// AmbiguousBindingError indicates a parameter carrying two markers that
// both have a registered binder.
type AmbiguousBindingError struct {
	Target *typesystem.Method
	Index  int
	First  typesystem.MarkerType
	Second typesystem.MarkerType
}

func (e *AmbiguousBindingError) Error() string {
	return fmt.Sprintf("ambiguous binding for parameter %d of %s: both %s and %s apply",
		e.Index, e.Target, e.First, e.Second)
}

func NewAmbiguousBindingError(target *typesystem.Method, index int, first, second typesystem.MarkerType) *AmbiguousBindingError {
	return &AmbiguousBindingError{Target: target, Index: index, First: first, Second: second}
}
