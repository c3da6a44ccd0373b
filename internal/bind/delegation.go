package bind

import (
	"github.com/funvibe/delegator/internal/bytecode"
	"github.com/funvibe/delegator/internal/typesystem"
)

// Callable reports whether the body of source, a method of instrumented,
// can invoke target: static targets always, instance targets only from an
// instance source whose receiver is assignable to the target's declaring
// type.
func Callable(instrumented *typesystem.Type, source, target *typesystem.Method) bool {
	if target.Static {
		return true
	}
	return !source.Static && target.Declaring.IsAssignableFrom(instrumented)
}

// Delegate is the complete body of source when it delegates to the target
// of binding: the receiver when the target is an instance method, the
// binding itself, then the return of the source's value. The receiver is
// the instance of instrumented the body runs on.
func Delegate(binding Binding, instrumented *typesystem.Type, source *typesystem.Method) bytecode.Operation {
	if !binding.IsValid() || !Callable(instrumented, source, binding.Target()) {
		return bytecode.Illegal
	}
	receiver := bytecode.Trivial
	if !binding.Target().Static {
		receiver = bytecode.LoadThis()
	}
	return bytecode.Compound(receiver, binding, bytecode.Return(source.ReturnType()))
}
