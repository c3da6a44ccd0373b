package typesystem

import (
	"strings"

	"github.com/funvibe/delegator/internal/config"
)

// Kind classifies a type by how the stack machine stores it.
type Kind int

const (
	KindVoid Kind = iota
	KindBoolean
	KindByte
	KindShort
	KindChar
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindReference
	KindArray
)

var kindNames = [...]string{
	KindVoid:      "void",
	KindBoolean:   "boolean",
	KindByte:      "byte",
	KindShort:     "short",
	KindChar:      "char",
	KindInt:       "int",
	KindLong:      "long",
	KindFloat:     "float",
	KindDouble:    "double",
	KindReference: "reference",
	KindArray:     "array",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether values of this kind are not references.
// Void counts as primitive.
func (k Kind) IsPrimitive() bool {
	return k < KindReference
}

// Type describes a type of the generated code.
type Type struct {
	// Name is the fully-qualified, dot-separated name (e.g. "demo.Greeter").
	// Primitive types use their keyword; arrays use "<component>[]".
	Name string

	Kind Kind

	// Component is the element type of an array type.
	Component *Type

	// Supertypes lists the direct supertypes of a reference type.
	// Every reference type implicitly extends Object.
	Supertypes []*Type

	// Interface is true for interface reference types.
	Interface bool
}

// Primitive types and the root reference type.
var (
	Void    = &Type{Name: "void", Kind: KindVoid}
	Boolean = &Type{Name: "boolean", Kind: KindBoolean}
	Byte    = &Type{Name: "byte", Kind: KindByte}
	Short   = &Type{Name: "short", Kind: KindShort}
	Char    = &Type{Name: "char", Kind: KindChar}
	Int     = &Type{Name: "int", Kind: KindInt}
	Long    = &Type{Name: "long", Kind: KindLong}
	Float   = &Type{Name: "float", Kind: KindFloat}
	Double  = &Type{Name: "double", Kind: KindDouble}
	Object  = &Type{Name: config.RootTypeName, Kind: KindReference}
)

// Primitives lists every primitive type, void included.
var Primitives = []*Type{Void, Boolean, Byte, Short, Char, Int, Long, Float, Double}

// NewReference creates a class type.
func NewReference(name string, supertypes ...*Type) *Type {
	return &Type{Name: name, Kind: KindReference, Supertypes: supertypes}
}

// NewInterface creates an interface type.
func NewInterface(name string, supertypes ...*Type) *Type {
	return &Type{Name: name, Kind: KindReference, Supertypes: supertypes, Interface: true}
}

// ArrayOf creates the array type with the given component.
func ArrayOf(component *Type) *Type {
	return &Type{Name: component.Name + "[]", Kind: KindArray, Component: component}
}

func (t *Type) String() string {
	return t.Name
}

func (t *Type) IsPrimitive() bool {
	return t.Kind.IsPrimitive()
}

func (t *Type) IsArray() bool {
	return t.Kind == KindArray
}

func (t *Type) IsVoid() bool {
	return t.Kind == KindVoid
}

// StackSlots is the number of stack slots one value of t occupies.
func (t *Type) StackSlots() int {
	switch t.Kind {
	case KindVoid:
		return 0
	case KindLong, KindDouble:
		return 2
	default:
		return 1
	}
}

// InternalName is the slash-separated name used in instruction operands.
// Arrays are named by their descriptor.
func (t *Type) InternalName() string {
	switch t.Kind {
	case KindReference:
		return strings.ReplaceAll(t.Name, ".", "/")
	case KindArray:
		return t.Descriptor()
	default:
		return t.Name
	}
}

// Descriptor returns the field descriptor of t.
func (t *Type) Descriptor() string {
	switch t.Kind {
	case KindVoid:
		return "V"
	case KindBoolean:
		return "Z"
	case KindByte:
		return "B"
	case KindShort:
		return "S"
	case KindChar:
		return "C"
	case KindInt:
		return "I"
	case KindLong:
		return "J"
	case KindFloat:
		return "F"
	case KindDouble:
		return "D"
	case KindArray:
		return "[" + t.Component.Descriptor()
	default:
		return "L" + t.InternalName() + ";"
	}
}

// Equal compares types structurally by descriptor.
func (t *Type) Equal(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	return t.Descriptor() == other.Descriptor()
}

// IsAssignableFrom reports whether a value of type other can be stored in
// a variable of type t without a conversion instruction.
func (t *Type) IsAssignableFrom(other *Type) bool {
	if t.Equal(other) {
		return true
	}
	if t.IsPrimitive() || other.IsPrimitive() {
		return false
	}
	if t.Equal(Object) {
		return true
	}
	if t.IsArray() {
		if !other.IsArray() {
			return false
		}
		if t.Component.IsPrimitive() || other.Component.IsPrimitive() {
			return false
		}
		return t.Component.IsAssignableFrom(other.Component)
	}
	if other.IsArray() {
		return false
	}
	for _, super := range other.Supertypes {
		if t.IsAssignableFrom(super) {
			return true
		}
	}
	return false
}
