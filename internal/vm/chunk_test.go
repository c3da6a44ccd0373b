package vm

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChunkEncoding(t *testing.T) {
	c := NewChunk()
	c.VisitInsn(OP_ICONST_2)
	c.VisitIntInsn(OP_NEWARRAY, T_INT)
	c.VisitIntInsn(OP_SIPUSH, 300)
	c.VisitVarInsn(OP_ALOAD, 0)
	c.VisitTypeInsn(OP_CHECKCAST, "demo/Dog")
	c.VisitTypeInsn(OP_ANEWARRAY, "demo/Dog")
	c.VisitMethodInsn(OP_INVOKESTATIC, "demo/Util", "run", "()V", false)
	c.VisitLdcInsn(int32(70000))

	want := []byte{
		byte(OP_ICONST_2),
		byte(OP_NEWARRAY), T_INT,
		byte(OP_SIPUSH), 0x01, 0x2c,
		byte(OP_ALOAD), 0,
		byte(OP_CHECKCAST), 0, 0,
		byte(OP_ANEWARRAY), 0, 0,
		byte(OP_INVOKESTATIC), 0, 1,
		byte(OP_LDC), 0, 2,
	}
	if diff := cmp.Diff(want, c.Code); diff != "" {
		t.Errorf("Code mismatch (-want +got):\n%s", diff)
	}
	if len(c.Constants) != 3 {
		t.Errorf("expected 3 pooled constants, got %d: %v", len(c.Constants), c.Constants)
	}

	offsets := make([]int, len(c.Instructions))
	for i, ins := range c.Instructions {
		offsets[i] = ins.Offset
	}
	if diff := cmp.Diff([]int{0, 1, 3, 6, 8, 11, 14, 17}, offsets); diff != "" {
		t.Errorf("offset mismatch (-want +got):\n%s", diff)
	}
}

func TestWideVarInsn(t *testing.T) {
	c := NewChunk()
	c.VisitVarInsn(OP_ILOAD, 255)
	c.VisitVarInsn(OP_LLOAD, 300)
	c.VisitInsn(OP_POP2)

	want := []byte{
		byte(OP_ILOAD), 0xff,
		byte(OP_WIDE), byte(OP_LLOAD), 0x01, 0x2c,
		byte(OP_POP2),
	}
	if diff := cmp.Diff(want, c.Code); diff != "" {
		t.Errorf("Code mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Opcode{OP_ILOAD, OP_LLOAD, OP_POP2}, c.Opcodes()); diff != "" {
		t.Errorf("opcodes mismatch (-want +got):\n%s", diff)
	}
	if got := c.Instructions[1]; got.Offset != 2 || got.Operand != 300 {
		t.Errorf("wide load recorded as %+v", got)
	}
	if got := c.Instructions[2].Offset; got != 6 {
		t.Errorf("POP2 offset = %d, want 6", got)
	}
}

func TestOperandOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		emit func(c *Chunk)
	}{
		{"negative slot", func(c *Chunk) { c.VisitVarInsn(OP_ALOAD, -1) }},
		{"slot beyond wide", func(c *Chunk) { c.VisitVarInsn(OP_ALOAD, 1<<16) }},
		{"bipush", func(c *Chunk) { c.VisitIntInsn(OP_BIPUSH, 128) }},
		{"sipush", func(c *Chunk) { c.VisitIntInsn(OP_SIPUSH, -32769) }},
		{"newarray", func(c *Chunk) { c.VisitIntInsn(OP_NEWARRAY, 256) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected a panic")
				}
			}()
			tt.emit(NewChunk())
		})
	}
}

func TestDisassemble(t *testing.T) {
	c := NewChunk()
	c.VisitInsn(OP_ICONST_1)
	c.VisitIntInsn(OP_NEWARRAY, T_LONG)
	c.VisitMethodInsn(OP_INVOKEVIRTUAL, "demo/Dog", "bark", "(J)V", false)
	c.VisitInsn(OP_RETURN)

	out := Disassemble(c, "intercept")
	for _, want := range []string{"== intercept ==", "NEWARRAY", "long", "demo/Dog.bark(J)V", "RETURN"} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly missing %q:\n%s", want, out)
		}
	}
}

func TestSimulate(t *testing.T) {
	c := NewChunk()
	c.VisitVarInsn(OP_ALOAD, 0) // 1
	c.VisitVarInsn(OP_LLOAD, 1) // 3
	c.VisitInsn(OP_ICONST_1)    // 4
	c.VisitInsn(OP_I2L)         // 5
	c.VisitMethodInsn(OP_INVOKEVIRTUAL, "demo/Dog", "mix", "(JJ)D", false)
	c.VisitInsn(OP_DRETURN)

	tr, err := Simulate(c)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if tr.Max != 5 {
		t.Errorf("Max = %d, want 5", tr.Max)
	}
	if tr.Final != 0 {
		t.Errorf("Final = %d, want 0", tr.Final)
	}
}

func TestSimulateUnderflow(t *testing.T) {
	c := NewChunk()
	c.VisitInsn(OP_ICONST_0)
	c.VisitInsn(OP_POP2)

	_, err := Simulate(c)
	var underflow *StackUnderflowError
	if !errors.As(err, &underflow) {
		t.Fatalf("expected StackUnderflowError, got %v", err)
	}
	if underflow.Op != OP_POP2 || underflow.Depth != 1 || underflow.Need != 2 {
		t.Errorf("unexpected underflow details: %+v", underflow)
	}
}

func TestDescriptorSlots(t *testing.T) {
	tests := []struct {
		desc       string
		params     int
		ret        int
		shouldFail bool
	}{
		{"()V", 0, 0, false},
		{"(I)I", 1, 1, false},
		{"(JD)J", 4, 2, false},
		{"(Ldemo/Dog;[J[[Ldemo/Cat;)[I", 3, 1, false},
		{"(Z)Ldemo/Dog;", 1, 1, false},
		{"I", 0, 0, true},
		{"(I", 0, 0, true},
		{"(Ldemo/Dog)V", 0, 0, true},
		{"()VV", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			params, ret, err := DescriptorSlots(tt.desc)
			if tt.shouldFail {
				if err == nil {
					t.Fatalf("expected error for %q", tt.desc)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if params != tt.params || ret != tt.ret {
				t.Errorf("DescriptorSlots(%q) = (%d, %d), want (%d, %d)", tt.desc, params, ret, tt.params, tt.ret)
			}
		})
	}
}
