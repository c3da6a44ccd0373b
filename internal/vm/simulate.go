package vm

import "fmt"

// Trace is the result of replaying a chunk against an abstract stack.
type Trace struct {
	// Final is the stack depth after the last instruction, in slots.
	Final int
	// Max is the deepest the stack got, in slots.
	Max int
}

// StackUnderflowError reports an instruction that pops more than the stack holds.
type StackUnderflowError struct {
	Offset int
	Op     Opcode
	Depth  int
	Need   int
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("stack underflow at %04d %s: depth %d, needs %d", e.Offset, e.Op, e.Depth, e.Need)
}

// Simulate replays the recorded instructions starting from an empty stack.
func Simulate(chunk *Chunk) (Trace, error) {
	var tr Trace
	depth := 0
	for _, ins := range chunk.Instructions {
		pop, push, err := stackEffect(ins)
		if err != nil {
			return tr, fmt.Errorf("at %04d: %w", ins.Offset, err)
		}
		if pop > depth {
			return tr, &StackUnderflowError{Offset: ins.Offset, Op: ins.Op, Depth: depth, Need: pop}
		}
		depth = depth - pop + push
		if depth > tr.Max {
			tr.Max = depth
		}
	}
	tr.Final = depth
	return tr, nil
}

// stackEffect returns how many slots an instruction pops and then pushes.
func stackEffect(ins Instruction) (pop, push int, err error) {
	switch ins.Op {
	case OP_NOP, OP_RETURN:
		return 0, 0, nil
	case OP_ACONST_NULL, OP_ICONST_M1, OP_ICONST_0, OP_ICONST_1, OP_ICONST_2,
		OP_ICONST_3, OP_ICONST_4, OP_ICONST_5, OP_BIPUSH, OP_SIPUSH:
		return 0, 1, nil
	case OP_LDC:
		switch ins.Value.(type) {
		case int64, float64:
			return 0, 2, nil
		default:
			return 0, 1, nil
		}
	case OP_ILOAD, OP_FLOAD, OP_ALOAD:
		return 0, 1, nil
	case OP_LLOAD, OP_DLOAD:
		return 0, 2, nil
	case OP_IASTORE, OP_FASTORE, OP_AASTORE, OP_BASTORE, OP_CASTORE, OP_SASTORE:
		return 3, 0, nil
	case OP_LASTORE, OP_DASTORE:
		return 4, 0, nil
	case OP_POP:
		return 1, 0, nil
	case OP_POP2:
		return 2, 0, nil
	case OP_DUP:
		return 1, 2, nil
	case OP_I2L, OP_I2D:
		return 1, 2, nil
	case OP_I2F:
		return 1, 1, nil
	case OP_L2F:
		return 2, 1, nil
	case OP_L2D:
		return 2, 2, nil
	case OP_F2D:
		return 1, 2, nil
	case OP_IRETURN, OP_FRETURN, OP_ARETURN:
		return 1, 0, nil
	case OP_LRETURN, OP_DRETURN:
		return 2, 0, nil
	case OP_NEWARRAY, OP_ANEWARRAY, OP_CHECKCAST:
		return 1, 1, nil
	case OP_INVOKEVIRTUAL, OP_INVOKESTATIC, OP_INVOKEINTERFACE:
		if ins.Method == nil {
			return 0, 0, fmt.Errorf("%s without method reference", ins.Op)
		}
		args, ret, err := DescriptorSlots(ins.Method.Descriptor)
		if err != nil {
			return 0, 0, err
		}
		if ins.Op != OP_INVOKESTATIC {
			args++
		}
		return args, ret, nil
	}
	return 0, 0, fmt.Errorf("unknown opcode %d", ins.Op)
}

// DescriptorSlots parses a method descriptor and returns the slot width of
// its parameters and of its return value.
func DescriptorSlots(desc string) (params, ret int, err error) {
	if len(desc) == 0 || desc[0] != '(' {
		return 0, 0, fmt.Errorf("malformed method descriptor %q", desc)
	}
	i := 1
	for i < len(desc) && desc[i] != ')' {
		width, next, err := fieldSlots(desc, i)
		if err != nil {
			return 0, 0, err
		}
		params += width
		i = next
	}
	if i >= len(desc) {
		return 0, 0, fmt.Errorf("malformed method descriptor %q", desc)
	}
	i++
	if i < len(desc) && desc[i] == 'V' && i == len(desc)-1 {
		return params, 0, nil
	}
	ret, next, err := fieldSlots(desc, i)
	if err != nil {
		return 0, 0, err
	}
	if next != len(desc) {
		return 0, 0, fmt.Errorf("malformed method descriptor %q", desc)
	}
	return params, ret, nil
}

// fieldSlots reads one field descriptor at desc[i:].
func fieldSlots(desc string, i int) (width, next int, err error) {
	if i >= len(desc) {
		return 0, 0, fmt.Errorf("malformed descriptor %q", desc)
	}
	switch desc[i] {
	case 'Z', 'B', 'S', 'C', 'I', 'F':
		return 1, i + 1, nil
	case 'J', 'D':
		return 2, i + 1, nil
	case 'L':
		for j := i + 1; j < len(desc); j++ {
			if desc[j] == ';' {
				return 1, j + 1, nil
			}
		}
	case '[':
		j := i
		for j < len(desc) && desc[j] == '[' {
			j++
		}
		_, next, err := fieldSlots(desc, j)
		if err != nil {
			return 0, 0, err
		}
		return 1, next, nil
	}
	return 0, 0, fmt.Errorf("malformed descriptor %q at %d", desc, i)
}
