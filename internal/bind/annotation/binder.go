// Package annotation binds target parameters by the markers attached to
// them. Each marker type is handled by one registered ArgumentBinder;
// unmarked parameters fall back to markers supplied by a DefaultProvider.
package annotation

import (
	"github.com/google/uuid"

	"github.com/funvibe/delegator/internal/bind"
	"github.com/funvibe/delegator/internal/bytecode"
	"github.com/funvibe/delegator/internal/bytecode/assign"
	"github.com/funvibe/delegator/internal/typesystem"
)

// IdentifiedBinding is the operation that loads one target parameter and
// the token naming the source value it loads. Bindings of two targets that
// share a token load the same value.
type IdentifiedBinding struct {
	Operation bytecode.Operation
	Token     any
}

func (b IdentifiedBinding) IsValid() bool {
	return b.Operation.IsValid()
}

// Illegal is the outcome of a parameter that cannot be bound.
func Illegal() IdentifiedBinding {
	return IdentifiedBinding{Operation: bytecode.Illegal, Token: uuid.New()}
}

// Anonymous identifies op by a token no other binding shares.
func Anonymous(op bytecode.Operation) IdentifiedBinding {
	return IdentifiedBinding{Operation: op, Token: uuid.New()}
}

// Identified identifies op by token, which must be comparable.
func Identified(op bytecode.Operation, token any) IdentifiedBinding {
	return IdentifiedBinding{Operation: op, Token: token}
}

// ArgumentBinder binds a target parameter that carries a marker of its
// HandledType.
type ArgumentBinder interface {
	HandledType() typesystem.MarkerType
	Bind(marker typesystem.Marker, index int, source, target *typesystem.Method,
		instrumented *typesystem.Type, assigner assign.Assigner) IdentifiedBinding
}

// DefaultIterator yields the markers assumed for unmarked parameters.
// Next may only be called after HasNext reported true.
type DefaultIterator interface {
	HasNext() bool
	Next() typesystem.Marker
}

// DefaultProvider creates a fresh DefaultIterator for every binding attempt.
type DefaultProvider interface {
	MakeIterator(instrumented *typesystem.Type, source, target *typesystem.Method) DefaultIterator
}

type handler interface {
	handle(index int, source, target *typesystem.Method, instrumented *typesystem.Type, assigner assign.Assigner) IdentifiedBinding
}

type boundHandler struct {
	binder ArgumentBinder
	marker typesystem.Marker
}

func (h boundHandler) handle(index int, source, target *typesystem.Method, instrumented *typesystem.Type, assigner assign.Assigner) IdentifiedBinding {
	return h.binder.Bind(h.marker, index, source, target, instrumented, assigner)
}

type unboundHandler struct{}

func (unboundHandler) handle(int, *typesystem.Method, *typesystem.Method, *typesystem.Type, assign.Assigner) IdentifiedBinding {
	return Illegal()
}

// delegationProcessor selects the handler of each parameter. It is
// immutable once built.
type delegationProcessor struct {
	binders map[typesystem.MarkerType]ArgumentBinder
}

func newDelegationProcessor(binders []ArgumentBinder) (*delegationProcessor, error) {
	registry := make(map[typesystem.MarkerType]ArgumentBinder, len(binders))
	for _, b := range binders {
		mt := b.HandledType()
		if _, exists := registry[mt]; exists {
			return nil, NewConfigurationError(mt, "two binders handle this marker")
		}
		registry[mt] = b
	}
	return &delegationProcessor{binders: registry}, nil
}

func (p *delegationProcessor) handler(target *typesystem.Method, index int, defaults DefaultIterator) (handler, error) {
	var found handler
	var foundType typesystem.MarkerType
	for _, marker := range target.ParameterMarkersAt(index) {
		b, ok := p.binders[marker.MarkerType()]
		if !ok {
			continue
		}
		if found != nil {
			return nil, NewAmbiguousBindingError(target, index, foundType, marker.MarkerType())
		}
		found, foundType = boundHandler{binder: b, marker: marker}, marker.MarkerType()
	}
	if found != nil {
		return found, nil
	}
	if !defaults.HasNext() {
		return unboundHandler{}, nil
	}
	marker := defaults.Next()
	b, ok := p.binders[marker.MarkerType()]
	if !ok {
		return unboundHandler{}, nil
	}
	return boundHandler{binder: b, marker: marker}, nil
}

// Binder is a bind.MethodDelegationBinder driven by parameter markers.
type Binder struct {
	processor *delegationProcessor
	defaults  DefaultProvider
	assigner  assign.Assigner
	invoker   bind.MethodInvoker
}

var _ bind.MethodDelegationBinder = (*Binder)(nil)

// NewBinder registers binders by their handled marker type. Registering two
// binders for one marker type is a *ConfigurationError.
func NewBinder(binders []ArgumentBinder, defaults DefaultProvider, assigner assign.Assigner, invoker bind.MethodInvoker) (*Binder, error) {
	processor, err := newDelegationProcessor(binders)
	if err != nil {
		return nil, err
	}
	return &Binder{
		processor: processor,
		defaults:  defaults,
		assigner:  assigner,
		invoker:   invoker,
	}, nil
}

// Bind resolves every parameter of target against the source call. A target
// that does not apply yields bind.Illegal; only ambiguous markers on a
// parameter are reported as an error.
func (b *Binder) Bind(instrumented *typesystem.Type, source, target *typesystem.Method) (bind.Binding, error) {
	if target.HasMarker(IgnoreForBindingMarker) {
		return bind.Illegal, nil
	}
	returning := b.assigner.Assign(target.ReturnType(), source.ReturnType(), target.HasMarker(RuntimeTypeMarker))
	if !returning.IsValid() {
		return bind.Illegal, nil
	}
	builder := bind.NewBuilder(b.invoker, target)
	defaults := b.defaults.MakeIterator(instrumented, source, target)
	for i := range target.Parameters {
		h, err := b.processor.handler(target, i, defaults)
		if err != nil {
			return nil, err
		}
		identified := h.handle(i, source, target, instrumented, b.assigner)
		if !identified.IsValid() || !builder.Append(identified.Operation, i, identified.Token) {
			return bind.Illegal, nil
		}
	}
	return builder.Build(returning), nil
}
