package shader

import "strings"

// wgslTypeLayout holds the byte size and alignment for a WGSL type per the WGSL specification.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	isBuiltin bool

	// explicitAlign and explicitSize hold @align(N) and @size(N), or 0 when absent.
	explicitAlign uint64
	explicitSize  uint64
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}

// FieldLayout is the resolved placement of one struct member in GPU memory.
type FieldLayout struct {
	Name   string
	Type   string
	Offset uint64
	Size   uint64
	Align  uint64
}

// StructLayout is the resolved GPU memory layout of a WGSL struct.
type StructLayout struct {
	Name   string
	Size   uint64
	Align  uint64
	Fields []FieldLayout
}

// Field returns the named member.
//
// Parameters:
//   - name: the member name
//
// Returns:
//   - FieldLayout: the member layout
//   - bool: false if the struct has no such member
func (s StructLayout) Field(name string) (FieldLayout, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldLayout{}, false
}

// Binding describes one @group/@binding resource variable declared by a shader.
type Binding struct {
	Group   int
	Binding int

	// Name is the WGSL variable name.
	Name string

	// AddressSpace is the var<> qualifier, e.g. "uniform" or "storage, read".
	AddressSpace string

	// Type is the declared WGSL type, e.g. "CameraUniform" or "array<Sphere>".
	Type string

	// ElementType is the element type of an array binding, or Type otherwise.
	ElementType string

	// Runtime reports whether the binding is a runtime-sized array.
	Runtime bool

	// Stride is the array element stride, or the type size for non-array bindings.
	// Zero when the type could not be resolved.
	Stride uint64
}

// IsStorage reports whether the binding lives in the storage address space.
func (b Binding) IsStorage() bool {
	return strings.HasPrefix(b.AddressSpace, "storage")
}

// IsUniform reports whether the binding lives in the uniform address space.
func (b Binding) IsUniform() bool {
	return b.AddressSpace == "uniform"
}
