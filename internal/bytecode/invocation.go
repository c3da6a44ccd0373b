package bytecode

import (
	"github.com/funvibe/delegator/internal/typesystem"
	"github.com/funvibe/delegator/internal/vm"
)

type invocation struct {
	method *typesystem.Method
}

// Invoke calls method. The receiver (unless static) and all arguments must
// already be on the stack; they are replaced by the return value.
func Invoke(method *typesystem.Method) Operation {
	return invocation{method: method}
}

func (i invocation) opcode() vm.Opcode {
	switch {
	case i.method.Static:
		return vm.OP_INVOKESTATIC
	case i.method.IsInterface():
		return vm.OP_INVOKEINTERFACE
	default:
		return vm.OP_INVOKEVIRTUAL
	}
}

func (i invocation) IsValid() bool {
	return i.method.Declaring != nil
}

func (i invocation) Apply(e vm.Emitter) Size {
	m := i.method
	e.VisitMethodInsn(i.opcode(), m.Declaring.InternalName(), m.InternalName(), m.Descriptor(), m.IsInterface())
	impact := m.ReturnType().StackSlots() - m.StackSize()
	return Size{Impact: impact, Maximum: max(0, impact)}
}

func (i invocation) String() string {
	return i.opcode().String() + " " + i.method.String()
}

// Return returns a value of type t from the current method.
func Return(t *typesystem.Type) Operation {
	var op vm.Opcode
	switch t.Kind {
	case typesystem.KindVoid:
		op = vm.OP_RETURN
	case typesystem.KindLong:
		op = vm.OP_LRETURN
	case typesystem.KindFloat:
		op = vm.OP_FRETURN
	case typesystem.KindDouble:
		op = vm.OP_DRETURN
	case typesystem.KindReference, typesystem.KindArray:
		op = vm.OP_ARETURN
	default:
		op = vm.OP_IRETURN
	}
	return simple{op: op, size: StackSizeOf(t).ToDecreasingSize()}
}

// Pop discards a value of type t. Popping void is a no-op.
func Pop(t *typesystem.Type) Operation {
	switch StackSizeOf(t) {
	case Zero:
		return Trivial
	case Double:
		return simple{op: vm.OP_POP2, size: Double.ToDecreasingSize()}
	default:
		return simple{op: vm.OP_POP, size: Single.ToDecreasingSize()}
	}
}
