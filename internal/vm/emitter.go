package vm

// Emitter is the write-only sink that operations emit instructions into.
// Operations hold the vocabulary; the emitter only records or serializes.
type Emitter interface {
	// VisitInsn emits an instruction without operands.
	VisitInsn(op Opcode)

	// VisitIntInsn emits BIPUSH, SIPUSH or NEWARRAY with an int operand.
	VisitIntInsn(op Opcode, operand int)

	// VisitVarInsn emits a local variable load.
	VisitVarInsn(op Opcode, slot int)

	// VisitTypeInsn emits ANEWARRAY or CHECKCAST with an internal type name.
	VisitTypeInsn(op Opcode, typeName string)

	// VisitMethodInsn emits an invocation.
	VisitMethodInsn(op Opcode, owner, name, descriptor string, isInterface bool)

	// VisitLdcInsn pushes a pooled constant (int32, int64, float32, float64 or string).
	VisitLdcInsn(value any)
}
