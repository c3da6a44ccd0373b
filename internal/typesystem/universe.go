package typesystem

import "strings"

// Universe resolves type names to types. Primitives and Object are
// always present; reference types are added with Define.
type Universe struct {
	types map[string]*Type
}

func NewUniverse() *Universe {
	u := &Universe{types: make(map[string]*Type)}
	for _, p := range Primitives {
		u.types[p.Name] = p
	}
	u.types[Object.Name] = Object
	return u
}

// Define registers a reference type under its name.
func (u *Universe) Define(t *Type) error {
	if _, ok := u.types[t.Name]; ok {
		return NewDuplicateSymbolError(t.Name)
	}
	u.types[t.Name] = t
	return nil
}

// Lookup resolves a name. A trailing "[]" denotes an array of the prefix.
func (u *Universe) Lookup(name string) (*Type, error) {
	name = strings.TrimSpace(name)
	if component, ok := strings.CutSuffix(name, "[]"); ok {
		elem, err := u.Lookup(component)
		if err != nil {
			return nil, err
		}
		if elem.IsVoid() {
			return nil, NewSymbolNotFoundError(name)
		}
		return ArrayOf(elem), nil
	}
	if t, ok := u.types[name]; ok {
		return t, nil
	}
	return nil, NewSymbolNotFoundError(name)
}
