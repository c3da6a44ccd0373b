package typesystem

import "strings"

// MarkerType discriminates markers. Binding strategies are registered by it.
type MarkerType string

// Marker is a declarative hint attached to a method or a parameter.
type Marker interface {
	MarkerType() MarkerType
}

// Flag is a marker without attributes.
type Flag MarkerType

func (f Flag) MarkerType() MarkerType {
	return MarkerType(f)
}

// Method describes a method of the generated code or of a delegation target.
type Method struct {
	Name      string
	Declaring *Type

	Parameters []*Type
	Return     *Type
	Static     bool

	// Markers attached to the method itself.
	Markers []Marker

	// ParameterMarkers holds the markers of each parameter, by index.
	// It may be shorter than Parameters.
	ParameterMarkers [][]Marker
}

func (m *Method) String() string {
	owner := "?"
	if m.Declaring != nil {
		owner = m.Declaring.Name
	}
	return owner + "." + m.Name + m.Descriptor()
}

// Descriptor returns the method descriptor, e.g. "(IJ)Llang/Object;".
func (m *Method) Descriptor() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range m.Parameters {
		sb.WriteString(p.Descriptor())
	}
	sb.WriteByte(')')
	ret := m.Return
	if ret == nil {
		ret = Void
	}
	sb.WriteString(ret.Descriptor())
	return sb.String()
}

// InternalName is the method name as used by invocation instructions.
func (m *Method) InternalName() string {
	return m.Name
}

// ReturnType never returns nil: a missing return type means void.
func (m *Method) ReturnType() *Type {
	if m.Return == nil {
		return Void
	}
	return m.Return
}

// IsInterface reports whether the method is declared by an interface.
func (m *Method) IsInterface() bool {
	return m.Declaring != nil && m.Declaring.Interface
}

// StackSize is the number of slots taken by the receiver and all parameters.
func (m *Method) StackSize() int {
	return m.ParameterOffset(len(m.Parameters))
}

// ParameterOffset returns the local variable slot of parameter i.
// Slot 0 holds the receiver of non-static methods.
func (m *Method) ParameterOffset(i int) int {
	offset := 0
	if !m.Static {
		offset = 1
	}
	for _, p := range m.Parameters[:i] {
		offset += p.StackSlots()
	}
	return offset
}

// HasMarker reports whether the method itself carries a marker of type mt.
func (m *Method) HasMarker(mt MarkerType) bool {
	_, ok := m.Marker(mt)
	return ok
}

// Marker returns the first method marker of type mt.
func (m *Method) Marker(mt MarkerType) (Marker, bool) {
	for _, marker := range m.Markers {
		if marker.MarkerType() == mt {
			return marker, true
		}
	}
	return nil, false
}

// ParameterMarkersAt returns the markers attached to parameter i.
func (m *Method) ParameterMarkersAt(i int) []Marker {
	if i < 0 || i >= len(m.ParameterMarkers) {
		return nil
	}
	return m.ParameterMarkers[i]
}
