package annotation

import (
	"fmt"

	"github.com/funvibe/delegator/internal/config"
	"github.com/funvibe/delegator/internal/typesystem"
)

// Marker types understood by the built-in binders.
const (
	RuntimeTypeMarker      typesystem.MarkerType = config.RuntimeTypeMarker
	IgnoreForBindingMarker typesystem.MarkerType = config.IgnoreForBindingMarker
	ArgumentMarker         typesystem.MarkerType = config.ArgumentMarker
	ThisMarker             typesystem.MarkerType = config.ThisMarker
	AllArgumentsMarker     typesystem.MarkerType = config.AllArgumentsMarker
)

var (
	// RuntimeType on a target method permits conversions that are only
	// checked when the generated code runs.
	RuntimeType = typesystem.Flag(RuntimeTypeMarker)

	// IgnoreForBinding excludes a target method from delegation.
	IgnoreForBinding = typesystem.Flag(IgnoreForBindingMarker)

	// This binds a parameter to the receiver of the intercepted call.
	This = typesystem.Flag(ThisMarker)

	// AllArguments binds an array parameter to every argument of the
	// intercepted call.
	AllArguments = typesystem.Flag(AllArgumentsMarker)
)

// Argument binds a parameter to the source argument at Index.
type Argument struct {
	Index int
}

func (Argument) MarkerType() typesystem.MarkerType {
	return ArgumentMarker
}

func (a Argument) String() string {
	return fmt.Sprintf("Argument(%d)", a.Index)
}
