package raytracing

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// ErrInvalidLayout is returned by RecordLayout.Validate for a record that the GPU would read
// differently from how the CPU writes it.
var ErrInvalidLayout = errors.New("invalid record layout")

// slotSize is the alignment of every vec3, vec4 and struct member in a GPU record.
const slotSize = 16

// wgslAlign maps the WGSL member types used by the records to their required alignment.
var wgslAlign = map[string]int{
	"f32":       4,
	"u32":       4,
	"vec2<f32>": 8,
	"vec3<f32>": 16,
	"vec4<f32>": 16,
	"Material":  16,
}

// FieldLayout describes one member of a GPU record.
type FieldLayout struct {
	// Name is the WGSL member name.
	Name string

	// Type is the WGSL member type.
	Type string

	// Offset is the byte offset of the member within the record.
	Offset int

	// Size is the number of bytes the Go field occupies, including any vec3 pad word.
	Size int
}

// Align returns the WGSL alignment of the member type, or 0 if the type is unknown.
func (f FieldLayout) Align() int {
	return wgslAlign[f.Type]
}

// RecordLayout is the CPU-side layout of a GPU record, derived from its Go struct with
// unsafe.Offsetof and unsafe.Sizeof.
type RecordLayout struct {
	// Name is the WGSL struct name.
	Name string

	// Size is the record stride in bytes.
	Size int

	// Fields lists the members in offset order. Padding members are omitted.
	Fields []FieldLayout
}

// Field returns the named member.
//
// Parameters:
//   - name: the WGSL member name
//
// Returns:
//   - FieldLayout: the member layout
//   - bool: false if no member has that name
func (l RecordLayout) Field(name string) (FieldLayout, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldLayout{}, false
}

// Validate checks the layout against the GPU packing rules: every member sits at a multiple
// of its alignment, members are ordered and do not overlap, every vec3 fills a whole 16-byte
// slot so the member after it starts on a fresh slot, and the stride is a multiple of 16.
//
// Returns:
//   - error: an error wrapping ErrInvalidLayout describing the first violation, or nil
func (l RecordLayout) Validate() error {
	if l.Size <= 0 || l.Size%slotSize != 0 {
		return fmt.Errorf("%w: %s stride %d is not a positive multiple of %d", ErrInvalidLayout, l.Name, l.Size, slotSize)
	}
	end := 0
	for _, f := range l.Fields {
		align := f.Align()
		if align == 0 {
			return fmt.Errorf("%w: %s.%s has unsupported type %s", ErrInvalidLayout, l.Name, f.Name, f.Type)
		}
		if f.Offset%align != 0 {
			return fmt.Errorf("%w: %s.%s at offset %d is not %d-byte aligned", ErrInvalidLayout, l.Name, f.Name, f.Offset, align)
		}
		if f.Offset < end {
			return fmt.Errorf("%w: %s.%s at offset %d overlaps the previous member ending at %d", ErrInvalidLayout, l.Name, f.Name, f.Offset, end)
		}
		if f.Type == "vec3<f32>" && f.Size != slotSize {
			return fmt.Errorf("%w: %s.%s is a vec3 of %d bytes, want a padded %d-byte slot", ErrInvalidLayout, l.Name, f.Name, f.Size, slotSize)
		}
		end = f.Offset + f.Size
	}
	if end > l.Size {
		return fmt.Errorf("%w: %s members end at %d past the stride %d", ErrInvalidLayout, l.Name, end, l.Size)
	}
	return nil
}

// field builds a FieldLayout from unsafe.Offsetof / unsafe.Sizeof results.
func field(name, wgslType string, offset, size uintptr) FieldLayout {
	return FieldLayout{Name: name, Type: wgslType, Offset: int(offset), Size: int(size)}
}

// LayoutTable renders the layouts as a table with one row per member.
//
// Parameters:
//   - w: the destination writer
//   - layouts: the layouts to render
func LayoutTable(w io.Writer, layouts ...RecordLayout) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Record", "Stride", "Field", "Type", "Offset", "Size", "Align"})
	table.SetAutoMergeCells(true)
	table.SetRowLine(true)
	for _, l := range layouts {
		stride := strconv.Itoa(l.Size)
		for _, f := range l.Fields {
			table.Append([]string{
				l.Name,
				stride,
				f.Name,
				f.Type,
				strconv.Itoa(f.Offset),
				strconv.Itoa(f.Size),
				strconv.Itoa(f.Align()),
			})
		}
	}
	table.Render()
}
