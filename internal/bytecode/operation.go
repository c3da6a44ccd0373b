package bytecode

import (
	"github.com/funvibe/delegator/internal/typesystem"
	"github.com/funvibe/delegator/internal/vm"
)

// Operation is a unit of code generation. Apply emits the operation's
// instructions and returns the size of exactly what it emitted.
//
// An operation is stateless: it may be applied once per code generation
// pass and reused across passes. IsValid is advisory; applying an invalid
// operation is legal but produces code that will not verify.
type Operation interface {
	IsValid() bool
	Apply(e vm.Emitter) Size
}

type illegal struct{}

// Illegal is the invalid operation. It emits nothing.
var Illegal Operation = illegal{}

func (illegal) IsValid() bool         { return false }
func (illegal) Apply(vm.Emitter) Size { return Size{} }
func (illegal) String() string        { return "Illegal" }

type trivial struct{}

// Trivial is the valid operation that emits nothing.
var Trivial Operation = trivial{}

func (trivial) IsValid() bool         { return true }
func (trivial) Apply(vm.Emitter) Size { return Size{} }
func (trivial) String() string        { return "Trivial" }

// compound applies its parts in order.
type compound []Operation

// Compound chains operations. It is valid iff every part is valid.
func Compound(ops ...Operation) Operation {
	flat := make(compound, 0, len(ops))
	for _, op := range ops {
		if c, ok := op.(compound); ok {
			flat = append(flat, c...)
			continue
		}
		flat = append(flat, op)
	}
	return flat
}

func (c compound) IsValid() bool {
	for _, op := range c {
		if !op.IsValid() {
			return false
		}
	}
	return true
}

func (c compound) Apply(e vm.Emitter) Size {
	var size Size
	for _, op := range c {
		size = size.Aggregate(op.Apply(e))
	}
	return size
}

// simple emits one instruction without operands and reports a fixed size.
type simple struct {
	op   vm.Opcode
	size Size
}

func (s simple) IsValid() bool { return true }

func (s simple) Apply(e vm.Emitter) Size {
	e.VisitInsn(s.op)
	return s.size
}

func (s simple) String() string {
	return s.op.String()
}

// Simple emits op, which takes no operands, and reports size.
func Simple(op vm.Opcode, size Size) Operation {
	return simple{op: op, size: size}
}

type typeInstruction struct {
	op       vm.Opcode
	typeName string
}

// CheckCast verifies that the reference on top of the stack is a t.
func CheckCast(t *typesystem.Type) Operation {
	if t.IsPrimitive() {
		return Illegal
	}
	return typeInstruction{op: vm.OP_CHECKCAST, typeName: t.InternalName()}
}

func (ti typeInstruction) IsValid() bool { return true }

func (ti typeInstruction) Apply(e vm.Emitter) Size {
	e.VisitTypeInsn(ti.op, ti.typeName)
	return Size{}
}

func (ti typeInstruction) String() string {
	return ti.op.String() + " " + ti.typeName
}
