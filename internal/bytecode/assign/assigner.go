// Package assign converts values on the operand stack from one type to
// another.
package assign

import (
	"github.com/funvibe/delegator/internal/bytecode"
	"github.com/funvibe/delegator/internal/typesystem"
	"github.com/funvibe/delegator/internal/vm"
)

// Assigner produces the operation that turns a value of type from, already
// on the stack, into a value of type to. The result is bytecode.Illegal when
// no such conversion exists. dynamic permits conversions that are checked
// only at run time, such as down casts.
type Assigner interface {
	Assign(from, to *typesystem.Type, dynamic bool) bytecode.Operation
}

// AssignerFunc adapts a function to Assigner.
type AssignerFunc func(from, to *typesystem.Type, dynamic bool) bytecode.Operation

func (f AssignerFunc) Assign(from, to *typesystem.Type, dynamic bool) bytecode.Operation {
	return f(from, to, dynamic)
}

// Default returns the standard chain: void handling, then primitive
// widening, then reference assignability.
func Default() Assigner {
	return VoidAware{Next: PrimitiveAware{Next: ReferenceAware{}}}
}

// VoidAware handles assignments where either side is void.
// A value assigned to void is discarded; void cannot produce a value.
type VoidAware struct {
	Next Assigner
}

func (a VoidAware) Assign(from, to *typesystem.Type, dynamic bool) bytecode.Operation {
	switch {
	case from.IsVoid() && to.IsVoid():
		return bytecode.Trivial
	case to.IsVoid():
		return bytecode.Pop(from)
	case from.IsVoid():
		return bytecode.Illegal
	}
	return a.Next.Assign(from, to, dynamic)
}

// PrimitiveAware handles primitive assignments by widening. Narrowing and
// conversions between primitives and references are illegal.
type PrimitiveAware struct {
	Next Assigner
}

func (a PrimitiveAware) Assign(from, to *typesystem.Type, dynamic bool) bytecode.Operation {
	switch {
	case from.IsPrimitive() && to.IsPrimitive():
		return widen(from.Kind, to.Kind)
	case from.IsPrimitive() || to.IsPrimitive():
		return bytecode.Illegal
	}
	return a.Next.Assign(from, to, dynamic)
}

// intLike kinds share the int stack representation.
func intLike(k typesystem.Kind) bool {
	switch k {
	case typesystem.KindByte, typesystem.KindShort, typesystem.KindChar, typesystem.KindInt:
		return true
	}
	return false
}

func widen(from, to typesystem.Kind) bytecode.Operation {
	if from == to {
		return bytecode.Trivial
	}
	switch {
	case intLike(from) && intLike(to):
		switch {
		case to == typesystem.KindInt:
			return bytecode.Trivial
		case from == typesystem.KindByte && to == typesystem.KindShort:
			return bytecode.Trivial
		}
		return bytecode.Illegal
	case intLike(from):
		switch to {
		case typesystem.KindLong:
			return bytecode.Simple(vm.OP_I2L, bytecode.Single.ToIncreasingSize())
		case typesystem.KindFloat:
			return bytecode.Simple(vm.OP_I2F, bytecode.Size{})
		case typesystem.KindDouble:
			return bytecode.Simple(vm.OP_I2D, bytecode.Single.ToIncreasingSize())
		}
	case from == typesystem.KindLong:
		switch to {
		case typesystem.KindFloat:
			return bytecode.Simple(vm.OP_L2F, bytecode.Single.ToDecreasingSize())
		case typesystem.KindDouble:
			return bytecode.Simple(vm.OP_L2D, bytecode.Size{})
		}
	case from == typesystem.KindFloat && to == typesystem.KindDouble:
		return bytecode.Simple(vm.OP_F2D, bytecode.Single.ToIncreasingSize())
	}
	return bytecode.Illegal
}

// ReferenceAware handles reference assignments. Up casts are free; down
// casts require dynamic typing and emit a CHECKCAST.
type ReferenceAware struct{}

func (ReferenceAware) Assign(from, to *typesystem.Type, dynamic bool) bytecode.Operation {
	if to.IsAssignableFrom(from) {
		return bytecode.Trivial
	}
	if dynamic {
		return bytecode.CheckCast(to)
	}
	return bytecode.Illegal
}
