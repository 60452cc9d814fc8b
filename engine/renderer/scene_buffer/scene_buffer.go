// Package scene_buffer manages fixed-capacity GPU storage buffers of scene records. A buffer is
// created once against a shader's declared storage array, checked against the record's Go
// layout, and then refilled in place every frame.
package scene_buffer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-rt/engine/log"
	"github.com/Carmen-Shannon/oxy-rt/engine/raytracing"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

var logger = log.New("scene_buffer")

var (
	// ErrStorageBlockNotFound is returned when the shader declares no storage buffer with the requested name.
	ErrStorageBlockNotFound = errors.New("storage block not found")

	// ErrLayoutMismatch is returned when the Go record layout disagrees with the shader's struct layout.
	ErrLayoutMismatch = errors.New("record layout does not match shader")

	// ErrCapacityExceeded is returned by Update when more records are supplied than the buffer holds.
	ErrCapacityExceeded = errors.New("record count exceeds buffer capacity")
)

// Writer is the subset of the renderer a scene buffer needs to allocate and fill GPU buffers.
type Writer interface {
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error
	WriteBuffers(writes []bind_group_provider.BufferWrite)
}

// sceneBuffer is the implementation of the SceneBuffer interface.
type sceneBuffer[T raytracing.Record] struct {
	writer   Writer
	provider bind_group_provider.BindGroupProvider
	packer   Packer

	group          int
	storageBinding int
	infoBinding    int // -1 when the group has no companion info uniform

	capacity int
	count    int
	stride   int

	// staging holds capacity*stride bytes and is reused by every Update
	staging []byte
}

// SceneBuffer is a GPU storage buffer holding up to Capacity records of type T. The buffer is
// allocated once; Update rewrites its contents in place so the bind group stays valid.
type SceneBuffer[T raytracing.Record] interface {
	// Update replaces the buffer contents with records and publishes the live count.
	// Nothing is written when the records do not fit.
	//
	// Parameters:
	//   - records: the records to upload, at most Capacity
	//
	// Returns:
	//   - error: ErrCapacityExceeded if len(records) > Capacity
	Update(records []T) error

	// Capacity returns the number of records the buffer was allocated for.
	Capacity() int

	// Count returns the number of records written by the last successful Update.
	Count() int

	// Stride returns the size of one record in bytes.
	Stride() int

	// Group returns the bind group index the buffer is bound to.
	Group() int

	// Provider returns the bind group provider that owns the GPU buffers.
	Provider() bind_group_provider.BindGroupProvider

	// Release frees the GPU buffers.
	Release()
}

// New creates a scene buffer for the storage array named storageVar in bind group group of sh.
// The record type T must match the array element type: same stride, and every Go member at the
// offset the shader computes for it. The whole bind group of storageVar is initialized, with the storage buffer
// sized for exactly capacity records.
//
// Parameters:
//   - writer: the renderer used to allocate and write buffers
//   - sh: the parsed shader declaring the storage array
//   - group: the bind group index storageVar must be declared in
//   - storageVar: the WGSL variable name of the storage array, e.g. "spheres"
//   - capacity: the number of records to allocate for, at least 1
//   - opts: functional options
//
// Returns:
//   - SceneBuffer[T]: the scene buffer
//   - error: ErrStorageBlockNotFound, ErrLayoutMismatch or an allocation error
func New[T raytracing.Record](writer Writer, sh shader.Shader, group int, storageVar string, capacity int, opts ...Option) (SceneBuffer[T], error) {
	o := options{packer: SerialPacker{}}
	for _, opt := range opts {
		opt(&o)
	}

	binding, ok := sh.Binding(storageVar)
	if !ok || !binding.IsStorage() || binding.Group != group {
		return nil, fmt.Errorf("%s at group %d in shader %s: %w", storageVar, group, sh.Key(), ErrStorageBlockNotFound)
	}
	if capacity < 1 {
		return nil, fmt.Errorf("%s: capacity must be at least 1, got %d", storageVar, capacity)
	}

	var zero T
	if err := CheckLayout(zero.Layout(), binding, sh); err != nil {
		return nil, fmt.Errorf("%s: %w", storageVar, err)
	}

	b := &sceneBuffer[T]{
		writer:         writer,
		packer:         o.packer,
		group:          binding.Group,
		storageBinding: binding.Binding,
		infoBinding:    -1,
		capacity:       capacity,
		stride:         zero.Size(),
	}

	if o.infoVar != "" {
		info, ok := sh.Binding(o.infoVar)
		if !ok || !info.IsUniform() || info.Group != binding.Group {
			return nil, fmt.Errorf("info uniform %s for %s: %w", o.infoVar, storageVar, ErrStorageBlockNotFound)
		}
		b.infoBinding = info.Binding
	}

	label := o.label
	if label == "" {
		label = storageVar
	}
	b.provider = bind_group_provider.NewBindGroupProvider(label)
	b.staging = make([]byte, capacity*b.stride)

	sizes := map[int]uint64{b.storageBinding: uint64(capacity * b.stride)}
	if err := writer.InitBindGroup(b.provider, sh.BindGroupLayoutDescriptor(b.group), nil, sizes); err != nil {
		return nil, fmt.Errorf("%s: failed to allocate %d bytes: %w", storageVar, capacity*b.stride, err)
	}

	b.writeInfo(nil)
	logger.Debugf("%s: %d records x %d bytes at group %d binding %d", label, capacity, b.stride, b.group, b.storageBinding)
	return b, nil
}

// CheckLayout compares a Go record layout against the shader's view of a storage binding.
//
// Parameters:
//   - layout: the Go record layout
//   - binding: the storage binding whose element type should match
//   - sh: the shader that declares the element struct
//
// Returns:
//   - error: an error wrapping ErrLayoutMismatch on the first disagreement
func CheckLayout(layout raytracing.RecordLayout, binding shader.Binding, sh shader.Shader) error {
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrLayoutMismatch, err)
	}
	if uint64(layout.Size) != binding.Stride {
		return fmt.Errorf("%w: %s stride is %d bytes, shader %s expects %d", ErrLayoutMismatch, layout.Name, layout.Size, binding.ElementType, binding.Stride)
	}
	structLayout, ok := sh.StructLayout(binding.ElementType)
	if !ok {
		return fmt.Errorf("%w: shader does not declare struct %s", ErrLayoutMismatch, binding.ElementType)
	}
	for _, f := range layout.Fields {
		sf, ok := structLayout.Field(f.Name)
		if !ok {
			return fmt.Errorf("%w: %s.%s is not a member of the shader struct", ErrLayoutMismatch, layout.Name, f.Name)
		}
		if uint64(f.Offset) != sf.Offset {
			return fmt.Errorf("%w: %s.%s at offset %d, shader places it at %d", ErrLayoutMismatch, layout.Name, f.Name, f.Offset, sf.Offset)
		}
	}
	return nil
}

func (b *sceneBuffer[T]) Update(records []T) error {
	n := len(records)
	if n > b.capacity {
		return fmt.Errorf("%s: %d records for capacity %d: %w", b.provider.Label(), n, b.capacity, ErrCapacityExceeded)
	}

	dst := b.staging[:n*b.stride]
	b.packer.Pack(dst, b.stride, n, func(i int, out []byte) {
		records[i].MarshalInto(out)
	})

	var writes []bind_group_provider.BufferWrite
	if n > 0 {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: b.provider,
			Binding:  b.storageBinding,
			Offset:   0,
			Data:     dst,
		})
	}
	b.count = n
	b.writeInfo(writes)
	return nil
}

// writeInfo appends the info uniform write, when there is one, and flushes writes.
func (b *sceneBuffer[T]) writeInfo(writes []bind_group_provider.BufferWrite) {
	if b.infoBinding >= 0 {
		info := raytracing.GPUBufferInfo{Count: uint32(b.count), Capacity: uint32(b.capacity)}
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: b.provider,
			Binding:  b.infoBinding,
			Data:     info.Marshal(),
		})
	}
	if len(writes) > 0 {
		b.writer.WriteBuffers(writes)
	}
}

func (b *sceneBuffer[T]) Capacity() int {
	return b.capacity
}

func (b *sceneBuffer[T]) Count() int {
	return b.count
}

func (b *sceneBuffer[T]) Stride() int {
	return b.stride
}

func (b *sceneBuffer[T]) Group() int {
	return b.group
}

func (b *sceneBuffer[T]) Provider() bind_group_provider.BindGroupProvider {
	return b.provider
}

func (b *sceneBuffer[T]) Release() {
	b.provider.Release()
}
