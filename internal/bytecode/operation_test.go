package bytecode

import (
	"testing"

	"github.com/funvibe/delegator/internal/typesystem"
	"github.com/funvibe/delegator/internal/vm"
)

// simulated applies op to a fresh chunk and checks the reported size
// against a replay of the emitted instructions. prefix is applied first
// and excluded from the size under test.
func simulated(t *testing.T, prefix, op Operation) Size {
	t.Helper()
	c := vm.NewChunk()
	base := prefix.Apply(c)
	size := op.Apply(c)
	tr, err := vm.Simulate(c)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	total := base.Aggregate(size)
	if total.Impact != tr.Final {
		t.Errorf("impact %d disagrees with simulated depth %d", total.Impact, tr.Final)
	}
	if total.Maximum != tr.Max {
		t.Errorf("maximum %d disagrees with simulated peak %d", total.Maximum, tr.Max)
	}
	return size
}

func TestLoadArgument(t *testing.T) {
	owner := typesystem.NewReference("demo.Owner")
	m := &typesystem.Method{
		Name:       "run",
		Declaring:  owner,
		Parameters: []*typesystem.Type{typesystem.Int, typesystem.Double, owner, typesystem.Float},
		Return:     typesystem.Void,
	}
	tests := []struct {
		index int
		op    vm.Opcode
		slot  int
		size  Size
	}{
		{0, vm.OP_ILOAD, 1, Size{1, 1}},
		{1, vm.OP_DLOAD, 2, Size{2, 2}},
		{2, vm.OP_ALOAD, 4, Size{1, 1}},
		{3, vm.OP_FLOAD, 5, Size{1, 1}},
	}
	for _, tt := range tests {
		c := vm.NewChunk()
		size := LoadArgument(m, tt.index).Apply(c)
		if size != tt.size {
			t.Errorf("LoadArgument(%d) size = %v, want %v", tt.index, size, tt.size)
		}
		ins := c.Instructions[0]
		if ins.Op != tt.op || ins.Operand != tt.slot {
			t.Errorf("LoadArgument(%d) = %s %d, want %s %d", tt.index, ins.Op, ins.Operand, tt.op, tt.slot)
		}
	}
	if LoadArgument(m, 4).IsValid() {
		t.Error("out of range argument must be illegal")
	}
	if LoadVariable(typesystem.Void, 0).IsValid() {
		t.Error("loading void must be illegal")
	}
}

func TestInvokeSize(t *testing.T) {
	owner := typesystem.NewReference("demo.Owner")
	iface := typesystem.NewInterface("demo.Service")

	tests := []struct {
		name   string
		method *typesystem.Method
		args   Operation
		op     vm.Opcode
		want   Size
	}{
		{
			name:   "static long to int",
			method: &typesystem.Method{Name: "f", Declaring: owner, Static: true, Parameters: []*typesystem.Type{typesystem.Long}, Return: typesystem.Int},
			args:   LoadVariable(typesystem.Long, 0),
			op:     vm.OP_INVOKESTATIC,
			want:   Size{-1, 0},
		},
		{
			name:   "virtual void",
			method: &typesystem.Method{Name: "g", Declaring: owner, Parameters: []*typesystem.Type{typesystem.Int}},
			args:   Compound(LoadThis(), IntegerConstant(3)),
			op:     vm.OP_INVOKEVIRTUAL,
			want:   Size{-2, 0},
		},
		{
			name:   "interface returning double",
			method: &typesystem.Method{Name: "h", Declaring: iface, Return: typesystem.Double},
			args:   LoadThis(),
			op:     vm.OP_INVOKEINTERFACE,
			want:   Size{1, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := simulated(t, tt.args, Invoke(tt.method))
			if size != tt.want {
				t.Errorf("size = %v, want %v", size, tt.want)
			}
		})
	}
}

func TestReturnAndPop(t *testing.T) {
	tests := []struct {
		typ *typesystem.Type
		ret vm.Opcode
		pop vm.Opcode
	}{
		{typesystem.Int, vm.OP_IRETURN, vm.OP_POP},
		{typesystem.Long, vm.OP_LRETURN, vm.OP_POP2},
		{typesystem.Float, vm.OP_FRETURN, vm.OP_POP},
		{typesystem.Double, vm.OP_DRETURN, vm.OP_POP2},
		{typesystem.Object, vm.OP_ARETURN, vm.OP_POP},
	}
	for _, tt := range tests {
		load := LoadVariable(tt.typ, 0)
		ret := vm.NewChunk()
		load.Apply(ret)
		if size := Return(tt.typ).Apply(ret); size != StackSizeOf(tt.typ).ToDecreasingSize() {
			t.Errorf("Return(%s) size = %v", tt.typ, size)
		}
		if got := ret.Instructions[1].Op; got != tt.ret {
			t.Errorf("Return(%s) = %s, want %s", tt.typ, got, tt.ret)
		}
		simulated(t, load, Pop(tt.typ))
	}
	if Pop(typesystem.Void) != Trivial {
		t.Error("Pop(void) should be trivial")
	}
}

func TestCheckCast(t *testing.T) {
	c := vm.NewChunk()
	dog := typesystem.NewReference("zoo.Dog")
	size := CheckCast(dog).Apply(c)
	if size != (Size{}) {
		t.Errorf("size = %v", size)
	}
	if c.Instructions[0].Type != "zoo/Dog" {
		t.Errorf("operand = %q", c.Instructions[0].Type)
	}
	if CheckCast(typesystem.Int).IsValid() {
		t.Error("casting to a primitive must be illegal")
	}
}
