package vm

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

func init() {
	// Constant pool entries travel as interface values
	gob.Register(MethodRef{})
}

// Bundle holds the generated method bodies of one instrumented type.
type Bundle struct {
	// Type is the internal name of the instrumented type.
	Type string

	// Methods maps name+descriptor to the generated body.
	Methods map[string]*BundledMethod
}

// BundledMethod is one generated method body with its stack requirement.
type BundledMethod struct {
	Name       string
	Descriptor string
	MaxStack   int
	Chunk      *Chunk
}

// bundleMagic opens every serialized bundle: "DLGB".
var bundleMagic = []byte{0x44, 0x4C, 0x47, 0x42}

const bundleVersion byte = 0x01

func NewBundle(typeName string) *Bundle {
	return &Bundle{Type: typeName, Methods: make(map[string]*BundledMethod)}
}

// Add registers a body, replacing any earlier body of the same method.
func (b *Bundle) Add(m *BundledMethod) {
	b.Methods[m.Name+m.Descriptor] = m
}

// Serialize converts a Bundle to binary format.
// Format:
// - Magic number (4 bytes): "DLGB"
// - Version (1 byte): 0x01
// - Gob-encoded Bundle data
func (b *Bundle) Serialize() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(bundleMagic)
	buf.WriteByte(bundleVersion)

	enc := gob.NewEncoder(buf)
	if err := enc.Encode(b); err != nil {
		return nil, fmt.Errorf("bundle gob encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize reads a bundle written by Serialize and validates it.
func Deserialize(data []byte) (*Bundle, error) {
	if len(data) < len(bundleMagic)+1 {
		return nil, fmt.Errorf("bundle data too short")
	}
	if !bytes.Equal(data[:len(bundleMagic)], bundleMagic) {
		return nil, fmt.Errorf("invalid magic number, expected DLGB")
	}
	if version := data[len(bundleMagic)]; version != bundleVersion {
		return nil, fmt.Errorf("unsupported bundle version: %d (this binary supports version %d)", version, bundleVersion)
	}

	var bundle Bundle
	dec := gob.NewDecoder(bytes.NewReader(data[len(bundleMagic)+1:]))
	if err := dec.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("bundle gob decoding failed: %w", err)
	}
	if bundle.Methods == nil {
		bundle.Methods = make(map[string]*BundledMethod)
	}
	if err := bundle.Validate(); err != nil {
		return nil, fmt.Errorf("bundle validation failed: %w", err)
	}
	return &bundle, nil
}

// Validate checks the structural integrity of a bundle.
func (b *Bundle) Validate() error {
	if b.Type == "" {
		return fmt.Errorf("bundle has no type name")
	}
	for key, m := range b.Methods {
		if m.Chunk == nil || len(m.Chunk.Code) == 0 {
			return fmt.Errorf("method %s has empty bytecode", key)
		}
		if m.MaxStack < 0 {
			return fmt.Errorf("method %s has negative max stack %d", key, m.MaxStack)
		}
		if key != m.Name+m.Descriptor {
			return fmt.Errorf("method %s is filed under %s", m.Name+m.Descriptor, key)
		}
	}
	return nil
}
