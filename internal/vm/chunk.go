package vm

import (
	"fmt"
	"math"
)

// Instruction is one recorded instruction with its decoded operands.
type Instruction struct {
	Op Opcode

	// Operand holds the int operand of BIPUSH, SIPUSH, NEWARRAY and the
	// slot of local variable loads.
	Operand int

	// Type is the internal name operand of ANEWARRAY and CHECKCAST.
	Type string

	// Method is the operand of invocations.
	Method *MethodRef

	// Value is the operand of LDC.
	Value any

	// Offset is the byte offset of the instruction in Code.
	Offset int
}

// MethodRef is a pooled method reference.
type MethodRef struct {
	Owner      string
	Name       string
	Descriptor string
	Interface  bool
}

// Chunk represents a sequence of instructions for one method body.
// It implements Emitter.
type Chunk struct {
	// Code is the encoded instruction stream
	Code []byte

	// Constants pool - type names, method references and LDC values
	Constants []any

	// Instructions mirrors Code in decoded form
	Instructions []Instruction
}

// NewChunk creates a new empty chunk
func NewChunk() *Chunk {
	return &Chunk{
		Code:      make([]byte, 0, 64),
		Constants: make([]any, 0, 8),
	}
}

// Len returns the number of bytes in the chunk
func (c *Chunk) Len() int {
	return len(c.Code)
}

// AddConstant adds a constant to the pool and returns its index.
// Equal comparable constants share one entry.
func (c *Chunk) AddConstant(value any) int {
	for i, existing := range c.Constants {
		if constantEqual(existing, value) {
			return i
		}
	}
	c.Constants = append(c.Constants, value)
	return len(c.Constants) - 1
}

func constantEqual(a, b any) bool {
	switch av := a.(type) {
	case MethodRef:
		bv, ok := b.(MethodRef)
		return ok && av == bv
	case string, int32, int64, float32, float64:
		return a == b
	}
	return false
}

func (c *Chunk) record(ins Instruction) {
	ins.Offset = len(c.Code)
	c.Instructions = append(c.Instructions, ins)
	c.Code = append(c.Code, byte(ins.Op))
}

func (c *Chunk) writeIndex(idx int) {
	// 2 bytes allow up to 65535 constants
	c.Code = append(c.Code, byte(idx>>8), byte(idx))
}

func (c *Chunk) VisitInsn(op Opcode) {
	c.record(Instruction{Op: op})
}

// VisitIntInsn panics when operand does not fit the instruction's
// encoding: a signed byte for BIPUSH, a signed short for SIPUSH and an
// unsigned byte otherwise.
func (c *Chunk) VisitIntInsn(op Opcode, operand int) {
	lo, hi := 0, math.MaxUint8
	switch op {
	case OP_BIPUSH:
		lo, hi = math.MinInt8, math.MaxInt8
	case OP_SIPUSH:
		lo, hi = math.MinInt16, math.MaxInt16
	}
	if operand < lo || operand > hi {
		panic(fmt.Sprintf("vm: %s operand %d out of range [%d, %d]", op, operand, lo, hi))
	}
	c.record(Instruction{Op: op, Operand: operand})
	if op == OP_SIPUSH {
		c.Code = append(c.Code, byte(operand>>8), byte(operand))
		return
	}
	c.Code = append(c.Code, byte(operand))
}

// VisitVarInsn encodes slots above 255 in the WIDE form. Slots outside
// [0, 65535] panic.
func (c *Chunk) VisitVarInsn(op Opcode, slot int) {
	if slot < 0 || slot > math.MaxUint16 {
		panic(fmt.Sprintf("vm: %s slot %d out of range", op, slot))
	}
	if slot <= math.MaxUint8 {
		c.record(Instruction{Op: op, Operand: slot})
		c.Code = append(c.Code, byte(slot))
		return
	}
	offset := len(c.Code)
	c.Code = append(c.Code, byte(OP_WIDE))
	c.record(Instruction{Op: op, Operand: slot})
	c.Instructions[len(c.Instructions)-1].Offset = offset
	c.writeIndex(slot)
}

func (c *Chunk) VisitTypeInsn(op Opcode, typeName string) {
	c.record(Instruction{Op: op, Type: typeName})
	c.writeIndex(c.AddConstant(typeName))
}

func (c *Chunk) VisitMethodInsn(op Opcode, owner, name, descriptor string, isInterface bool) {
	ref := MethodRef{Owner: owner, Name: name, Descriptor: descriptor, Interface: isInterface}
	c.record(Instruction{Op: op, Method: &ref})
	c.writeIndex(c.AddConstant(ref))
}

func (c *Chunk) VisitLdcInsn(value any) {
	c.record(Instruction{Op: OP_LDC, Value: value})
	c.writeIndex(c.AddConstant(value))
}

// Opcodes returns the opcode sequence, which is what most tests compare.
func (c *Chunk) Opcodes() []Opcode {
	ops := make([]Opcode, len(c.Instructions))
	for i, ins := range c.Instructions {
		ops[i] = ins.Op
	}
	return ops
}
