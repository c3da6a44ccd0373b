// Package bind decides which target method an intercepted call is
// delegated to and holds the result of binding one target.
package bind

import (
	"github.com/funvibe/delegator/internal/bytecode"
	"github.com/funvibe/delegator/internal/typesystem"
	"github.com/funvibe/delegator/internal/vm"
)

// MethodDelegationBinder binds a source method to one candidate target.
// An inapplicable target yields an invalid Binding and a nil error; the
// error is reserved for malformed targets and aborts class generation.
type MethodDelegationBinder interface {
	Bind(instrumented *typesystem.Type, source, target *typesystem.Method) (Binding, error)
}

// Binding is the resolved delegation to one target. Applying it loads every
// target argument, invokes the target and converts the returned value.
//
// Only IsValid may be trusted on an invalid binding.
type Binding interface {
	bytecode.Operation

	// Target is the method delegated to.
	Target() *typesystem.Method

	// TargetParameterIndex returns the first parameter bound under token.
	TargetParameterIndex(token any) (int, bool)

	// TargetParameterIndices returns every parameter bound under token,
	// in ascending order.
	TargetParameterIndices(token any) []int

	// Tokens returns the distinct identification tokens in order of first use.
	Tokens() []any

	// Parameters returns the argument loading operations, by parameter index.
	Parameters() []bytecode.Operation
}

type illegalBinding struct{}

// Illegal is the binding of a target that does not apply to the call site.
var Illegal Binding = illegalBinding{}

func (illegalBinding) IsValid() bool                        { return false }
func (illegalBinding) Apply(vm.Emitter) bytecode.Size       { return bytecode.Size{} }
func (illegalBinding) Target() *typesystem.Method           { return nil }
func (illegalBinding) TargetParameterIndex(any) (int, bool) { return 0, false }
func (illegalBinding) TargetParameterIndices(any) []int     { return nil }
func (illegalBinding) Tokens() []any                        { return nil }
func (illegalBinding) Parameters() []bytecode.Operation     { return nil }
func (illegalBinding) String() string                       { return "IllegalBinding" }

// MethodInvoker emits the call of a target method once its arguments are
// on the stack.
type MethodInvoker interface {
	Invoke(target *typesystem.Method) bytecode.Operation
}

// MethodInvokerFunc adapts a function to MethodInvoker.
type MethodInvokerFunc func(target *typesystem.Method) bytecode.Operation

func (f MethodInvokerFunc) Invoke(target *typesystem.Method) bytecode.Operation {
	return f(target)
}

// DefaultInvoker invokes the target with the instruction matching its
// declaration: static, interface or virtual.
var DefaultInvoker MethodInvoker = MethodInvokerFunc(bytecode.Invoke)

// Builder accumulates the parameter bindings of one target.
type Builder struct {
	invoker    MethodInvoker
	target     *typesystem.Method
	parameters []bytecode.Operation
	indices    map[any][]int
	tokens     []any
}

func NewBuilder(invoker MethodInvoker, target *typesystem.Method) *Builder {
	return &Builder{
		invoker:    invoker,
		target:     target,
		parameters: make([]bytecode.Operation, 0, len(target.Parameters)),
		indices:    make(map[any][]int),
	}
}

// Append records the binding of parameter index. It returns false when op
// is invalid or parameters are not appended in order. Tokens must be
// comparable; equal tokens on several parameters are allowed.
func (b *Builder) Append(op bytecode.Operation, index int, token any) bool {
	if !op.IsValid() || index != len(b.parameters) {
		return false
	}
	b.parameters = append(b.parameters, op)
	if _, seen := b.indices[token]; !seen {
		b.tokens = append(b.tokens, token)
	}
	b.indices[token] = append(b.indices[token], index)
	return true
}

// Build completes the binding. The invoker is consulted here and only here.
// Unless every parameter was appended, the result is Illegal.
func (b *Builder) Build(returning bytecode.Operation) Binding {
	if len(b.parameters) != len(b.target.Parameters) {
		return Illegal
	}
	return &binding{
		target:     b.target,
		parameters: b.parameters,
		indices:    b.indices,
		tokens:     b.tokens,
		invocation: b.invoker.Invoke(b.target),
		returning:  returning,
	}
}

type binding struct {
	target     *typesystem.Method
	parameters []bytecode.Operation
	indices    map[any][]int
	tokens     []any
	invocation bytecode.Operation
	returning  bytecode.Operation
}

func (b *binding) IsValid() bool {
	return b.invocation.IsValid() && b.returning.IsValid()
}

func (b *binding) Apply(e vm.Emitter) bytecode.Size {
	var size bytecode.Size
	for _, p := range b.parameters {
		size = size.Aggregate(p.Apply(e))
	}
	size = size.Aggregate(b.invocation.Apply(e))
	return size.Aggregate(b.returning.Apply(e))
}

func (b *binding) Target() *typesystem.Method {
	return b.target
}

func (b *binding) TargetParameterIndex(token any) (int, bool) {
	indices := b.indices[token]
	if len(indices) == 0 {
		return 0, false
	}
	return indices[0], true
}

func (b *binding) TargetParameterIndices(token any) []int {
	return append([]int(nil), b.indices[token]...)
}

func (b *binding) Tokens() []any {
	return append([]any(nil), b.tokens...)
}

func (b *binding) Parameters() []bytecode.Operation {
	return append([]bytecode.Operation(nil), b.parameters...)
}

func (b *binding) String() string {
	return "Binding{" + b.target.String() + "}"
}
