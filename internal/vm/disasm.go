package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable representation of the chunk
func Disassemble(chunk *Chunk, name string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s ==\n", name))

	for _, ins := range chunk.Instructions {
		disassembleInstruction(&sb, ins)
	}

	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, ins Instruction) {
	sb.WriteString(fmt.Sprintf("%04d ", ins.Offset))

	switch ins.Op {
	case OP_BIPUSH, OP_SIPUSH:
		sb.WriteString(fmt.Sprintf("%-16s %d\n", ins.Op, ins.Operand))
	case OP_ILOAD, OP_LLOAD, OP_FLOAD, OP_DLOAD, OP_ALOAD:
		sb.WriteString(fmt.Sprintf("%-16s %d\n", ins.Op, ins.Operand))
	case OP_NEWARRAY:
		sb.WriteString(fmt.Sprintf("%-16s %s\n", ins.Op, arrayTypeName(ins.Operand)))
	case OP_ANEWARRAY, OP_CHECKCAST:
		sb.WriteString(fmt.Sprintf("%-16s %s\n", ins.Op, ins.Type))
	case OP_INVOKEVIRTUAL, OP_INVOKESTATIC, OP_INVOKEINTERFACE:
		m := ins.Method
		sb.WriteString(fmt.Sprintf("%-16s %s.%s%s\n", ins.Op, m.Owner, m.Name, m.Descriptor))
	case OP_LDC:
		sb.WriteString(fmt.Sprintf("%-16s %v\n", ins.Op, ins.Value))
	default:
		sb.WriteString(ins.Op.String())
		sb.WriteString("\n")
	}
}

func arrayTypeName(code int) string {
	switch code {
	case T_BOOLEAN:
		return "boolean"
	case T_CHAR:
		return "char"
	case T_FLOAT:
		return "float"
	case T_DOUBLE:
		return "double"
	case T_BYTE:
		return "byte"
	case T_SHORT:
		return "short"
	case T_INT:
		return "int"
	case T_LONG:
		return "long"
	default:
		return fmt.Sprintf("?%d", code)
	}
}
