package shader

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// alignRegex matches @align(N) member attributes
	alignRegex = regexp.MustCompile(`@align\((\d+)\)`)

	// sizeRegex matches @size(N) member attributes
	sizeRegex = regexp.MustCompile(`@size\((\d+)\)`)

	// fieldRegex matches a struct field line: optional attributes, name, colon, type.
	// The type capture (.+) is greedy to handle parameterized types like array<T, N>.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<uniform> camera: CameraUniform;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// shaderInterface is everything the parser extracts from a shader's resource declarations.
type shaderInterface struct {
	layouts  map[int]wgpu.BindGroupLayoutDescriptor
	varNames map[int]map[int]string
	bindings []Binding
	structs  map[string]StructLayout
}

// parseShaderInterface extracts all @group(N) @binding(M) resource declarations and all struct
// layouts from WGSL source. Bind group layout entries are sorted by binding index and carry the
// given visibility and a MinBindingSize resolved from the bound type.
// Only uniform and storage buffer bindings are supported; any other resource is an error.
//
// Parameters:
//   - source: the pre-processed WGSL source code string
//   - visibility: the shader stage visibility flag to set on each entry
//
// Returns:
//   - shaderInterface: the parsed layouts, variable names, bindings and struct layouts
//   - error: an error if a binding is not a buffer
func parseShaderInterface(source string, visibility wgpu.ShaderStage) (shaderInterface, error) {
	cleaned := stripComments(source)
	structs := computeStructLayouts(parseStructBlocks(cleaned))
	sizes := make(map[string]wgslTypeLayout, len(structs))
	for name, sl := range structs {
		sizes[name] = wgslTypeLayout{sl.Size, sl.Align}
	}

	si := shaderInterface{
		layouts:  make(map[int]wgpu.BindGroupLayoutDescriptor),
		varNames: make(map[int]map[int]string),
		structs:  structs,
	}
	groups := make(map[int][]wgpu.BindGroupLayoutEntry)

	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		b := Binding{
			Group:        group,
			Binding:      binding,
			AddressSpace: strings.TrimSpace(match[3]),
			Name:         strings.TrimSpace(match[4]),
			Type:         strings.TrimSpace(match[5]),
		}
		b.ElementType, b.Runtime = arrayElementType(b.Type)
		if layout, ok := resolveTypeLayout(b.ElementType, sizes); ok {
			b.Stride = roundUpAlign(layout.align, layout.size)
			if !b.Runtime && b.ElementType == b.Type {
				b.Stride = layout.size
			}
		}

		entry, err := classifyResource(uint32(binding), visibility, b.AddressSpace)
		if err != nil {
			return shaderInterface{}, fmt.Errorf("binding %s at @group(%d) @binding(%d): %w", b.Name, group, binding, err)
		}
		if layout, ok := resolveTypeLayout(b.Type, sizes); ok && layout.size > 0 {
			entry.Buffer.MinBindingSize = layout.size
		}

		groups[group] = append(groups[group], entry)
		if si.varNames[group] == nil {
			si.varNames[group] = make(map[int]string)
		}
		si.varNames[group][binding] = b.Name
		si.bindings = append(si.bindings, b)
	}

	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		si.layouts[g] = wgpu.BindGroupLayoutDescriptor{
			Entries: entries,
		}
	}
	sort.Slice(si.bindings, func(i, j int) bool {
		if si.bindings[i].Group != si.bindings[j].Group {
			return si.bindings[i].Group < si.bindings[j].Group
		}
		return si.bindings[i].Binding < si.bindings[j].Binding
	})

	return si, nil
}

// parseEntryPoint extracts the entry point function name for the given shader type
// from WGSL source. Returns an empty string if no matching entry point annotation is found.
//
// Parameters:
//   - source: the raw WGSL source code string
//   - shaderType: the shader type to search for
//
// Returns:
//   - string: the entry point function name, or empty string if not found
func parseEntryPoint(source string, shaderType ShaderType) string {
	cleaned := stripComments(source)

	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(cleaned); match != nil {
		return match[1]
	}
	return ""
}

// parseStructBlocks finds all struct { ... } blocks in the cleaned WGSL source.
//
// Parameters:
//   - source: WGSL source with comments already stripped
//
// Returns:
//   - []parsedStruct: all struct blocks found in the source, in source order
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))

	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}

	return structs
}

// parseStructFields parses the body of a struct block into individual fields,
// extracting @builtin, @align and @size attributes along with the field name and type.
//
// Parameters:
//   - body: the content between { and } of a struct declaration
//
// Returns:
//   - []parsedField: all fields found in the struct body
func parseStructFields(body string) []parsedField {
	lines := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fm := fieldRegex.FindStringSubmatch(line)
		if fm == nil {
			continue
		}
		field := parsedField{
			name:      fm[1],
			typeName:  strings.TrimSpace(fm[2]),
			isBuiltin: builtinRegex.MatchString(line),
		}
		if m := alignRegex.FindStringSubmatch(line); m != nil {
			field.explicitAlign, _ = strconv.ParseUint(m[1], 10, 64)
		}
		if m := sizeRegex.FindStringSubmatch(line); m != nil {
			field.explicitSize, _ = strconv.ParseUint(m[1], 10, 64)
		}

		fields = append(fields, field)
	}

	return fields
}

// arrayElementType returns the element type of an array type and whether it is runtime-sized.
// Non-array types are returned unchanged.
func arrayElementType(typeName string) (elem string, runtime bool) {
	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok || !strings.HasSuffix(inner, ">") {
		return typeName, false
	}
	inner = strings.TrimSuffix(inner, ">")
	parts := splitAtTopLevelCommas(inner)
	return strings.TrimSpace(parts[0]), len(parts) == 1
}
