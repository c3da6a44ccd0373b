// Package bytecode holds the operations that generated method bodies are
// composed of, and the model used to account for their effect on the
// operand stack.
package bytecode

import (
	"fmt"

	"github.com/funvibe/delegator/internal/typesystem"
)

// Size describes what applying an operation did to the operand stack.
// Impact is the net change in slots, Maximum the highest point the stack
// reached above its starting depth while the operation ran.
type Size struct {
	Impact  int
	Maximum int
}

// Aggregate returns the size of applying s and then other. The peak of
// other is measured from where s left the stack, so a shrinking step
// followed by a growing one is not simply the larger of both peaks.
func (s Size) Aggregate(other Size) Size {
	return Size{
		Impact:  s.Impact + other.Impact,
		Maximum: max(s.Maximum, s.Impact+other.Maximum),
	}
}

func (s Size) String() string {
	return fmt.Sprintf("Size{impact=%d, maximum=%d}", s.Impact, s.Maximum)
}

// StackSize is the number of slots one value occupies.
type StackSize int

const (
	Zero   StackSize = 0
	Single StackSize = 1
	Double StackSize = 2
)

// StackSizeOf returns the slot width of a value of type t.
func StackSizeOf(t *typesystem.Type) StackSize {
	return StackSize(t.StackSlots())
}

// Slots returns the width as an int.
func (s StackSize) Slots() int {
	return int(s)
}

// ToIncreasingSize is the size of pushing one value of this width.
func (s StackSize) ToIncreasingSize() Size {
	return Size{Impact: int(s), Maximum: int(s)}
}

// ToDecreasingSize is the size of popping one value of this width.
func (s StackSize) ToDecreasingSize() Size {
	return Size{Impact: -int(s), Maximum: 0}
}

// Add combines two widths, e.g. an index and an array reference.
func (s StackSize) Add(other StackSize) StackSize {
	return s + other
}
