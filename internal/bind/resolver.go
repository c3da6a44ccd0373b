package bind

import (
	"github.com/funvibe/delegator/internal/bytecode/assign"
	"github.com/funvibe/delegator/internal/typesystem"
)

// Resolution is the verdict of comparing two valid bindings.
type Resolution int

const (
	Unknown   Resolution = iota // the resolver has no opinion
	Left                        // the left binding is preferred
	Right                       // the right binding is preferred
	Ambiguous                   // neither binding is preferred
)

func (r Resolution) String() string {
	switch r {
	case Left:
		return "left"
	case Right:
		return "right"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// IsUnresolved reports whether r picks neither side.
func (r Resolution) IsUnresolved() bool {
	return r == Unknown || r == Ambiguous
}

// merge combines two partial verdicts of one resolver.
func (r Resolution) merge(other Resolution) Resolution {
	switch {
	case r == Unknown:
		return other
	case other == Unknown || r == other:
		return r
	default:
		return Ambiguous
	}
}

// AmbiguityResolver chooses between two valid bindings of the same source.
type AmbiguityResolver interface {
	Resolve(source *typesystem.Method, left, right Binding) Resolution
}

// AmbiguityResolverFunc adapts a function to AmbiguityResolver.
type AmbiguityResolverFunc func(source *typesystem.Method, left, right Binding) Resolution

func (f AmbiguityResolverFunc) Resolve(source *typesystem.Method, left, right Binding) Resolution {
	return f(source, left, right)
}

// MostSpecificTypeResolver prefers the binding whose parameters take the
// more specific type for the same source value. Values are matched by
// identification token; tokens bound by only one side are ignored.
type MostSpecificTypeResolver struct {
	// Assigner decides specificity: a type is more specific than another
	// when it converts to it but not back. Nil means assign.Default().
	Assigner assign.Assigner
}

func (r MostSpecificTypeResolver) Resolve(source *typesystem.Method, left, right Binding) Resolution {
	assigner := r.Assigner
	if assigner == nil {
		assigner = assign.Default()
	}
	resolution := Unknown
	for _, token := range left.Tokens() {
		leftIndex, _ := left.TargetParameterIndex(token)
		rightIndex, ok := right.TargetParameterIndex(token)
		if !ok {
			continue
		}
		leftType := left.Target().Parameters[leftIndex]
		rightType := right.Target().Parameters[rightIndex]
		if leftType.Equal(rightType) {
			continue
		}
		leftToRight := assigner.Assign(leftType, rightType, false).IsValid()
		rightToLeft := assigner.Assign(rightType, leftType, false).IsValid()
		switch {
		case leftToRight && !rightToLeft:
			resolution = resolution.merge(Left)
		case rightToLeft && !leftToRight:
			resolution = resolution.merge(Right)
		default:
			resolution = resolution.merge(Ambiguous)
		}
		if resolution == Ambiguous {
			return Ambiguous
		}
	}
	return resolution
}

// ParameterLengthResolver prefers the target that takes more parameters.
type ParameterLengthResolver struct{}

func (ParameterLengthResolver) Resolve(source *typesystem.Method, left, right Binding) Resolution {
	l, r := len(left.Target().Parameters), len(right.Target().Parameters)
	switch {
	case l > r:
		return Left
	case l < r:
		return Right
	default:
		return Unknown
	}
}

// ResolverChain asks each resolver in turn; the first to pick a side wins.
type ResolverChain []AmbiguityResolver

func (c ResolverChain) Resolve(source *typesystem.Method, left, right Binding) Resolution {
	result := Unknown
	for _, resolver := range c {
		resolution := resolver.Resolve(source, left, right)
		if !resolution.IsUnresolved() {
			return resolution
		}
		if resolution == Ambiguous {
			result = Ambiguous
		}
	}
	return result
}
