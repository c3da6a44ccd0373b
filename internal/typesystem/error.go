package typesystem

import "fmt"

// SymbolNotFoundError indicates a type name was not found
type SymbolNotFoundError struct {
	Name string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("symbol not found: %s", e.Name)
}

func NewSymbolNotFoundError(name string) *SymbolNotFoundError {
	return &SymbolNotFoundError{Name: name}
}

// DuplicateSymbolError indicates a type name was defined twice
type DuplicateSymbolError struct {
	Name string
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("symbol already defined: %s", e.Name)
}

func NewDuplicateSymbolError(name string) *DuplicateSymbolError {
	return &DuplicateSymbolError{Name: name}
}
