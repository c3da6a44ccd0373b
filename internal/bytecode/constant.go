package bytecode

import (
	"fmt"
	"math"

	"github.com/funvibe/delegator/internal/vm"
)

type integerConstant int

// IntegerConstant pushes an int using the shortest instruction form.
func IntegerConstant(value int) Operation {
	return integerConstant(value)
}

func (c integerConstant) IsValid() bool { return true }

func (c integerConstant) Apply(e vm.Emitter) Size {
	v := int(c)
	switch {
	case v >= -1 && v <= 5:
		e.VisitInsn(vm.Opcode(int(vm.OP_ICONST_0) + v))
	case v >= math.MinInt8 && v <= math.MaxInt8:
		e.VisitIntInsn(vm.OP_BIPUSH, v)
	case v >= math.MinInt16 && v <= math.MaxInt16:
		e.VisitIntInsn(vm.OP_SIPUSH, v)
	default:
		e.VisitLdcInsn(int32(v))
	}
	return Single.ToIncreasingSize()
}

func (c integerConstant) String() string {
	return fmt.Sprintf("IntegerConstant(%d)", int(c))
}

// Duplicate copies a single-slot value on top of the stack.
var Duplicate Operation = simple{op: vm.OP_DUP, size: Single.ToIncreasingSize()}
