package bytecode

import (
	"fmt"

	"github.com/funvibe/delegator/internal/typesystem"
	"github.com/funvibe/delegator/internal/vm"
)

type variableLoad struct {
	op   vm.Opcode
	slot int
	size StackSize
}

// LoadVariable loads the local variable at slot, typed as t.
// Void cannot be loaded and yields Illegal.
func LoadVariable(t *typesystem.Type, slot int) Operation {
	var op vm.Opcode
	switch t.Kind {
	case typesystem.KindVoid:
		return Illegal
	case typesystem.KindLong:
		op = vm.OP_LLOAD
	case typesystem.KindFloat:
		op = vm.OP_FLOAD
	case typesystem.KindDouble:
		op = vm.OP_DLOAD
	case typesystem.KindReference, typesystem.KindArray:
		op = vm.OP_ALOAD
	default:
		op = vm.OP_ILOAD
	}
	return variableLoad{op: op, slot: slot, size: StackSizeOf(t)}
}

// LoadArgument loads parameter index of method.
func LoadArgument(method *typesystem.Method, index int) Operation {
	if index < 0 || index >= len(method.Parameters) {
		return Illegal
	}
	return LoadVariable(method.Parameters[index], method.ParameterOffset(index))
}

// LoadThis loads the receiver of an instance method.
func LoadThis() Operation {
	return variableLoad{op: vm.OP_ALOAD, slot: 0, size: Single}
}

func (v variableLoad) IsValid() bool { return true }

func (v variableLoad) Apply(e vm.Emitter) Size {
	e.VisitVarInsn(v.op, v.slot)
	return v.size.ToIncreasingSize()
}

func (v variableLoad) String() string {
	return fmt.Sprintf("%s %d", v.op, v.slot)
}
