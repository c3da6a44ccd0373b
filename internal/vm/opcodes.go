// Package vm defines the instruction set of the abstract stack machine that
// delegation code is generated for, together with a recording emitter and a
// stack simulator.
package vm

// Opcode represents a single instruction
type Opcode byte

const (
	OP_NOP Opcode = iota

	// Constants
	OP_ACONST_NULL // Push null reference
	OP_ICONST_M1   // Push int -1
	OP_ICONST_0    // Push int 0
	OP_ICONST_1
	OP_ICONST_2
	OP_ICONST_3
	OP_ICONST_4
	OP_ICONST_5
	OP_BIPUSH // Push signed byte operand as int
	OP_SIPUSH // Push signed short operand as int
	OP_LDC    // Push constant from pool

	// Local variables
	OP_ILOAD // Load int (also boolean, byte, short, char)
	OP_LLOAD // Load long
	OP_FLOAD // Load float
	OP_DLOAD // Load double
	OP_ALOAD // Load reference

	// Array stores: [..., arrayref, index, value] -> [...]
	OP_IASTORE
	OP_LASTORE
	OP_FASTORE
	OP_DASTORE
	OP_AASTORE
	OP_BASTORE // byte and boolean
	OP_CASTORE
	OP_SASTORE

	// Stack manipulation
	OP_POP  // Discard single-slot value
	OP_POP2 // Discard double-slot value (or two single-slot values)
	OP_DUP  // Duplicate single-slot top of stack

	// Primitive widening
	OP_I2L
	OP_I2F
	OP_I2D
	OP_L2F
	OP_L2D
	OP_F2D

	// Returns
	OP_IRETURN
	OP_LRETURN
	OP_FRETURN
	OP_DRETURN
	OP_ARETURN
	OP_RETURN // Return void

	// Invocation
	OP_INVOKEVIRTUAL
	OP_INVOKESTATIC
	OP_INVOKEINTERFACE

	// Objects and arrays
	OP_NEWARRAY  // Create primitive array; operand is an array type code
	OP_ANEWARRAY // Create reference array; operand is the component's internal name
	OP_CHECKCAST // Verify reference type; operand is an internal name

	// Encoding prefix: the following local variable instruction carries a
	// two-byte slot. Never recorded as an instruction of its own.
	OP_WIDE
)

// Primitive array type codes used as the NEWARRAY operand
const (
	T_BOOLEAN = 4
	T_CHAR    = 5
	T_FLOAT   = 6
	T_DOUBLE  = 7
	T_BYTE    = 8
	T_SHORT   = 9
	T_INT     = 10
	T_LONG    = 11
)

var opcodeNames = map[Opcode]string{
	OP_NOP:             "NOP",
	OP_ACONST_NULL:     "ACONST_NULL",
	OP_ICONST_M1:       "ICONST_M1",
	OP_ICONST_0:        "ICONST_0",
	OP_ICONST_1:        "ICONST_1",
	OP_ICONST_2:        "ICONST_2",
	OP_ICONST_3:        "ICONST_3",
	OP_ICONST_4:        "ICONST_4",
	OP_ICONST_5:        "ICONST_5",
	OP_BIPUSH:          "BIPUSH",
	OP_SIPUSH:          "SIPUSH",
	OP_LDC:             "LDC",
	OP_ILOAD:           "ILOAD",
	OP_LLOAD:           "LLOAD",
	OP_FLOAD:           "FLOAD",
	OP_DLOAD:           "DLOAD",
	OP_ALOAD:           "ALOAD",
	OP_IASTORE:         "IASTORE",
	OP_LASTORE:         "LASTORE",
	OP_FASTORE:         "FASTORE",
	OP_DASTORE:         "DASTORE",
	OP_AASTORE:         "AASTORE",
	OP_BASTORE:         "BASTORE",
	OP_CASTORE:         "CASTORE",
	OP_SASTORE:         "SASTORE",
	OP_POP:             "POP",
	OP_POP2:            "POP2",
	OP_DUP:             "DUP",
	OP_I2L:             "I2L",
	OP_I2F:             "I2F",
	OP_I2D:             "I2D",
	OP_L2F:             "L2F",
	OP_L2D:             "L2D",
	OP_F2D:             "F2D",
	OP_IRETURN:         "IRETURN",
	OP_LRETURN:         "LRETURN",
	OP_FRETURN:         "FRETURN",
	OP_DRETURN:         "DRETURN",
	OP_ARETURN:         "ARETURN",
	OP_RETURN:          "RETURN",
	OP_INVOKEVIRTUAL:   "INVOKEVIRTUAL",
	OP_INVOKESTATIC:    "INVOKESTATIC",
	OP_INVOKEINTERFACE: "INVOKEINTERFACE",
	OP_NEWARRAY:        "NEWARRAY",
	OP_ANEWARRAY:       "ANEWARRAY",
	OP_CHECKCAST:       "CHECKCAST",
	OP_WIDE:            "WIDE",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}
