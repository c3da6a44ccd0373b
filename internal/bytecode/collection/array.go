// Package collection builds composite values such as array literals.
package collection

import (
	"fmt"
	"strings"
	"sync"

	"github.com/funvibe/delegator/internal/bytecode"
	"github.com/funvibe/delegator/internal/typesystem"
	"github.com/funvibe/delegator/internal/vm"
)

// InvalidArgumentError is returned for types that no array can be built for.
type InvalidArgumentError struct {
	Type   *typesystem.Type
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid array type %s: %s", e.Type, e.Reason)
}

func NewInvalidArgumentError(t *typesystem.Type, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{Type: t, Reason: reason}
}

// arrayCreator creates the array and knows how to store one element.
// It is a closed set of variants: one per primitive kind, plus the
// reference variant which carries the component's internal name.
type arrayCreator struct {
	kind         typesystem.Kind
	internalName string
}

// creators memoizes creators by component descriptor.
var creators sync.Map

func creatorFor(component *typesystem.Type) (arrayCreator, error) {
	key := component.Descriptor()
	if cached, ok := creators.Load(key); ok {
		return cached.(arrayCreator), nil
	}
	var creator arrayCreator
	switch component.Kind {
	case typesystem.KindBoolean, typesystem.KindByte, typesystem.KindShort, typesystem.KindChar,
		typesystem.KindInt, typesystem.KindLong, typesystem.KindFloat, typesystem.KindDouble:
		creator = arrayCreator{kind: component.Kind}
	case typesystem.KindReference, typesystem.KindArray:
		creator = arrayCreator{kind: typesystem.KindReference, internalName: component.InternalName()}
	default:
		return arrayCreator{}, NewInvalidArgumentError(typesystem.ArrayOf(component), "cannot create array of "+component.Kind.String())
	}
	actual, _ := creators.LoadOrStore(key, creator)
	return actual.(arrayCreator), nil
}

func (c arrayCreator) IsValid() bool {
	return true
}

// Apply emits the creation instruction. It consumes the count and produces
// the array reference, which leaves the stack size unchanged.
func (c arrayCreator) Apply(e vm.Emitter) bytecode.Size {
	switch c.kind {
	case typesystem.KindBoolean:
		e.VisitIntInsn(vm.OP_NEWARRAY, vm.T_BOOLEAN)
	case typesystem.KindByte:
		e.VisitIntInsn(vm.OP_NEWARRAY, vm.T_BYTE)
	case typesystem.KindShort:
		e.VisitIntInsn(vm.OP_NEWARRAY, vm.T_SHORT)
	case typesystem.KindChar:
		e.VisitIntInsn(vm.OP_NEWARRAY, vm.T_CHAR)
	case typesystem.KindInt:
		e.VisitIntInsn(vm.OP_NEWARRAY, vm.T_INT)
	case typesystem.KindLong:
		e.VisitIntInsn(vm.OP_NEWARRAY, vm.T_LONG)
	case typesystem.KindFloat:
		e.VisitIntInsn(vm.OP_NEWARRAY, vm.T_FLOAT)
	case typesystem.KindDouble:
		e.VisitIntInsn(vm.OP_NEWARRAY, vm.T_DOUBLE)
	default:
		e.VisitTypeInsn(vm.OP_ANEWARRAY, c.internalName)
	}
	return bytecode.Zero.ToDecreasingSize()
}

func (c arrayCreator) storeOpcode() vm.Opcode {
	switch c.kind {
	case typesystem.KindBoolean, typesystem.KindByte:
		return vm.OP_BASTORE
	case typesystem.KindShort:
		return vm.OP_SASTORE
	case typesystem.KindChar:
		return vm.OP_CASTORE
	case typesystem.KindInt:
		return vm.OP_IASTORE
	case typesystem.KindLong:
		return vm.OP_LASTORE
	case typesystem.KindFloat:
		return vm.OP_FASTORE
	case typesystem.KindDouble:
		return vm.OP_DASTORE
	default:
		return vm.OP_AASTORE
	}
}

func (c arrayCreator) String() string {
	if c.kind == typesystem.KindReference {
		return "ANEWARRAY " + c.internalName
	}
	return "NEWARRAY " + c.kind.String()
}

// ArrayFactory emits array literals of one array type.
type ArrayFactory struct {
	component *typesystem.Type
	creator   arrayCreator

	// sizeDecrease corrects the stack after each element store: the
	// duplicated array reference and the index (two single slots) plus
	// one element of the component's width are gone.
	sizeDecrease bytecode.Size
}

// Of returns the factory for arrayType.
func Of(arrayType *typesystem.Type) (*ArrayFactory, error) {
	if !arrayType.IsArray() {
		return nil, NewInvalidArgumentError(arrayType, "expected array type")
	}
	creator, err := creatorFor(arrayType.Component)
	if err != nil {
		return nil, err
	}
	return &ArrayFactory{
		component: arrayType.Component,
		creator:   creator,
		sizeDecrease: bytecode.Single.Add(bytecode.Single).
			Add(bytecode.StackSizeOf(arrayType.Component)).ToDecreasingSize(),
	}, nil
}

// ComponentType returns the element type.
func (f *ArrayFactory) ComponentType() *typesystem.Type {
	return f.component
}

// WithValues returns the operation that builds an array holding the values
// of elements, in order. Each element must push one value of the component
// type.
func (f *ArrayFactory) WithValues(elements []bytecode.Operation) bytecode.Operation {
	return arrayOperation{
		factory:  f,
		elements: append([]bytecode.Operation(nil), elements...),
	}
}

type arrayOperation struct {
	factory  *ArrayFactory
	elements []bytecode.Operation
}

func (a arrayOperation) IsValid() bool {
	for _, element := range a.elements {
		if !element.IsValid() {
			return false
		}
	}
	return a.factory.creator.IsValid()
}

func (a arrayOperation) Apply(e vm.Emitter) bytecode.Size {
	size := bytecode.IntegerConstant(len(a.elements)).Apply(e)
	size = size.Aggregate(a.factory.creator.Apply(e))
	store := a.factory.creator.storeOpcode()
	for index, element := range a.elements {
		size = size.Aggregate(bytecode.Duplicate.Apply(e))
		size = size.Aggregate(bytecode.IntegerConstant(index).Apply(e))
		size = size.Aggregate(element.Apply(e))
		e.VisitInsn(store)
		size = size.Aggregate(a.factory.sizeDecrease)
	}
	return size
}

func (a arrayOperation) String() string {
	parts := make([]string, len(a.elements))
	for i, element := range a.elements {
		parts[i] = fmt.Sprint(element)
	}
	return fmt.Sprintf("%s{%s}", a.factory.creator, strings.Join(parts, ", "))
}
