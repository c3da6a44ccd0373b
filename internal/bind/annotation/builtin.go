package annotation

import (
	"github.com/funvibe/delegator/internal/bytecode"
	"github.com/funvibe/delegator/internal/bytecode/assign"
	"github.com/funvibe/delegator/internal/bytecode/collection"
	"github.com/funvibe/delegator/internal/typesystem"
)

// ArgumentToken identifies the source argument at its index. Two targets
// that bind the same source argument share the token.
type ArgumentToken int

// Builtins returns the binders for Argument, This and AllArguments.
func Builtins() []ArgumentBinder {
	return []ArgumentBinder{ArgumentBinding{}, ThisBinding{}, AllArgumentsBinding{}}
}

// ArgumentBinding handles the Argument marker.
type ArgumentBinding struct{}

func (ArgumentBinding) HandledType() typesystem.MarkerType { return ArgumentMarker }

func (ArgumentBinding) Bind(marker typesystem.Marker, index int, source, target *typesystem.Method,
	_ *typesystem.Type, assigner assign.Assigner) IdentifiedBinding {
	arg, ok := marker.(Argument)
	if !ok || arg.Index < 0 || arg.Index >= len(source.Parameters) {
		return Illegal()
	}
	op := bytecode.Compound(
		bytecode.LoadArgument(source, arg.Index),
		assigner.Assign(source.Parameters[arg.Index], target.Parameters[index], target.HasMarker(RuntimeTypeMarker)),
	)
	return Identified(op, ArgumentToken(arg.Index))
}

// ThisBinding handles the This marker. Static sources have no receiver.
type ThisBinding struct{}

func (ThisBinding) HandledType() typesystem.MarkerType { return ThisMarker }

func (ThisBinding) Bind(_ typesystem.Marker, index int, source, target *typesystem.Method,
	instrumented *typesystem.Type, assigner assign.Assigner) IdentifiedBinding {
	if source.Static {
		return Illegal()
	}
	op := bytecode.Compound(
		bytecode.LoadThis(),
		assigner.Assign(instrumented, target.Parameters[index], target.HasMarker(RuntimeTypeMarker)),
	)
	return Anonymous(op)
}

// AllArgumentsBinding handles the AllArguments marker. The parameter must be
// an array whose component every source argument can be assigned to.
type AllArgumentsBinding struct{}

func (AllArgumentsBinding) HandledType() typesystem.MarkerType { return AllArgumentsMarker }

func (AllArgumentsBinding) Bind(_ typesystem.Marker, index int, source, target *typesystem.Method,
	_ *typesystem.Type, assigner assign.Assigner) IdentifiedBinding {
	factory, err := collection.Of(target.Parameters[index])
	if err != nil {
		return Illegal()
	}
	dynamic := target.HasMarker(RuntimeTypeMarker)
	elements := make([]bytecode.Operation, len(source.Parameters))
	for i, p := range source.Parameters {
		elements[i] = bytecode.Compound(
			bytecode.LoadArgument(source, i),
			assigner.Assign(p, factory.ComponentType(), dynamic),
		)
	}
	return Anonymous(factory.WithValues(elements))
}
