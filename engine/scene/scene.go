// Package scene holds the objects the raytracer draws. Spheres and triangles are kept as
// ready-to-upload GPU records keyed by ObjectID, and the scene owns the scene buffers that
// carry them to the shader.
package scene

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-rt/engine/log"
	"github.com/Carmen-Shannon/oxy-rt/engine/raytracing"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/scene_buffer"
	"github.com/Carmen-Shannon/oxy-rt/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

var logger = log.New("scene")

var (
	// ErrObjectNotFound is returned when an ObjectID does not name an object of the expected kind.
	ErrObjectNotFound = errors.New("object not found")

	// ErrNotBound is returned by Flush before Bind succeeded.
	ErrNotBound = errors.New("scene is not bound to GPU buffers")
)

// ObjectID identifies a sphere or triangle within a scene. IDs are never reused.
type ObjectID uint64

// ObjectKind tells spheres and triangles apart.
type ObjectKind int

const (
	KindSphere ObjectKind = iota + 1
	KindTriangle
)

// String returns the kind name.
func (k ObjectKind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindTriangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// ref locates an object in one of the record slices.
type ref struct {
	kind  ObjectKind
	index int
}

// BufferBinding names the WGSL variables one scene buffer is bound to.
type BufferBinding struct {
	Group      int
	StorageVar string
	InfoVar    string
	Capacity   int
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu   *sync.RWMutex
	name string

	spheres     []raytracing.GPUSphere
	sphereIDs   []ObjectID
	triangles   []raytracing.GPUTriangle
	triangleIDs []ObjectID

	registry map[ObjectID]ref
	nextID   ObjectID

	// version increments on every mutation; flushed is the version last uploaded
	version uint64
	flushed uint64

	sphereBuffer   scene_buffer.SceneBuffer[raytracing.GPUSphere]
	triangleBuffer scene_buffer.SceneBuffer[raytracing.GPUTriangle]

	packWorkers int
	chunkSize   int
	packer      *poolPacker
}

// Scene is a mutable set of spheres and triangles. It is safe for concurrent use; the render
// goroutine is the only caller of Bind and Flush.
type Scene interface {
	// Name returns the scene name.
	Name() string

	// AddSphere adds a sphere.
	//
	// Parameters:
	//   - s: the sphere record
	//
	// Returns:
	//   - ObjectID: the new object's id
	AddSphere(s raytracing.GPUSphere) ObjectID

	// AddTriangle adds a triangle.
	//
	// Parameters:
	//   - t: the triangle record
	//
	// Returns:
	//   - ObjectID: the new object's id
	AddTriangle(t raytracing.GPUTriangle) ObjectID

	// AddQuad adds the quad a-b-c-d as the two flat triangles a-b-c and a-c-d.
	//
	// Parameters:
	//   - a, b, c, d: the corners in winding order
	//   - material: the material of both triangles
	//
	// Returns:
	//   - [2]ObjectID: the ids of both triangles
	AddQuad(a, b, c, d mgl32.Vec3, material raytracing.GPUMaterial) [2]ObjectID

	// SetSphere replaces the record of an existing sphere.
	//
	// Returns:
	//   - error: ErrObjectNotFound if id is not a sphere in this scene
	SetSphere(id ObjectID, s raytracing.GPUSphere) error

	// SetTriangle replaces the record of an existing triangle.
	//
	// Returns:
	//   - error: ErrObjectNotFound if id is not a triangle in this scene
	SetTriangle(id ObjectID, t raytracing.GPUTriangle) error

	// Kind reports what kind of object id names.
	//
	// Returns:
	//   - ObjectKind: the kind
	//   - bool: false if id is unknown
	Kind(id ObjectID) (ObjectKind, bool)

	// Remove deletes an object. The last object of the same kind takes its slot.
	//
	// Returns:
	//   - error: ErrObjectNotFound if id is unknown
	Remove(id ObjectID) error

	// Clear deletes every object.
	Clear()

	SphereCount() int
	TriangleCount() int

	// Spheres returns a copy of the sphere records in upload order.
	Spheres() []raytracing.GPUSphere

	// Triangles returns a copy of the triangle records in upload order.
	Triangles() []raytracing.GPUTriangle

	// Bind creates the sphere and triangle scene buffers against the shader's storage arrays.
	//
	// Parameters:
	//   - w: the renderer used to allocate and write buffers
	//   - sh: the fragment shader declaring both storage arrays
	//   - spheres: where the sphere records go
	//   - triangles: where the triangle records go
	//
	// Returns:
	//   - error: a scene_buffer error if either buffer could not be created
	Bind(w scene_buffer.Writer, sh shader.Shader, spheres, triangles BufferBinding) error

	// Flush uploads the records when the scene changed since the last upload.
	//
	// Returns:
	//   - bool: true if anything was written
	//   - error: ErrNotBound, or ErrCapacityExceeded when the scene outgrew its buffers
	Flush() (bool, error)

	// BindGroups returns the sphere and triangle providers ordered by group index.
	BindGroups() []bind_group_provider.BindGroupProvider

	// Close stops the packing workers and releases the GPU buffers.
	Close()
}

var _ Scene = &scene{}

// NewScene creates an empty scene.
//
// Parameters:
//   - name: the scene name used in logs
//   - options: functional options
//
// Returns:
//   - Scene: the scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:          &sync.RWMutex{},
		name:        name,
		registry:    make(map[ObjectID]ref),
		nextID:      1,
		packWorkers: max(runtime.NumCPU()-1, 1),
		chunkSize:   defaultChunkSize,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) AddSphere(sp raytracing.GPUSphere) ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addSphere(sp)
}

func (s *scene) addSphere(sp raytracing.GPUSphere) ObjectID {
	id := s.takeID()
	s.registry[id] = ref{kind: KindSphere, index: len(s.spheres)}
	s.spheres = append(s.spheres, sp)
	s.sphereIDs = append(s.sphereIDs, id)
	s.version++
	return id
}

func (s *scene) AddTriangle(t raytracing.GPUTriangle) ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addTriangle(t)
}

func (s *scene) addTriangle(t raytracing.GPUTriangle) ObjectID {
	id := s.takeID()
	s.registry[id] = ref{kind: KindTriangle, index: len(s.triangles)}
	s.triangles = append(s.triangles, t)
	s.triangleIDs = append(s.triangleIDs, id)
	s.version++
	return id
}

func (s *scene) AddQuad(a, b, c, d mgl32.Vec3, material raytracing.GPUMaterial) [2]ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return [2]ObjectID{
		s.addTriangle(raytracing.NewTriangle(a, b, c, material)),
		s.addTriangle(raytracing.NewTriangle(a, c, d, material)),
	}
}

func (s *scene) takeID() ObjectID {
	id := s.nextID
	s.nextID++
	return id
}

func (s *scene) SetSphere(id ObjectID, sp raytracing.GPUSphere) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.registry[id]
	if !ok || r.kind != KindSphere {
		return fmt.Errorf("sphere %d: %w", id, ErrObjectNotFound)
	}
	s.spheres[r.index] = sp
	s.version++
	return nil
}

func (s *scene) SetTriangle(id ObjectID, t raytracing.GPUTriangle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.registry[id]
	if !ok || r.kind != KindTriangle {
		return fmt.Errorf("triangle %d: %w", id, ErrObjectNotFound)
	}
	s.triangles[r.index] = t
	s.version++
	return nil
}

func (s *scene) Kind(id ObjectID) (ObjectKind, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.registry[id]
	return r.kind, ok
}

func (s *scene) Remove(id ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.registry[id]
	if !ok {
		return fmt.Errorf("object %d: %w", id, ErrObjectNotFound)
	}
	delete(s.registry, id)

	switch r.kind {
	case KindSphere:
		s.spheres, s.sphereIDs = swapRemove(s.spheres, s.sphereIDs, r.index, s.registry)
	case KindTriangle:
		s.triangles, s.triangleIDs = swapRemove(s.triangles, s.triangleIDs, r.index, s.registry)
	}
	s.version++
	return nil
}

// swapRemove moves the last record into slot i and repoints the moved object's registry entry.
func swapRemove[T any](records []T, ids []ObjectID, i int, registry map[ObjectID]ref) ([]T, []ObjectID) {
	last := len(records) - 1
	if i != last {
		records[i] = records[last]
		ids[i] = ids[last]
		moved := registry[ids[i]]
		moved.index = i
		registry[ids[i]] = moved
	}
	return records[:last], ids[:last]
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spheres = s.spheres[:0]
	s.sphereIDs = s.sphereIDs[:0]
	s.triangles = s.triangles[:0]
	s.triangleIDs = s.triangleIDs[:0]
	s.registry = make(map[ObjectID]ref)
	s.version++
}

func (s *scene) SphereCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.spheres)
}

func (s *scene) TriangleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.triangles)
}

func (s *scene) Spheres() []raytracing.GPUSphere {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]raytracing.GPUSphere(nil), s.spheres...)
}

func (s *scene) Triangles() []raytracing.GPUTriangle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]raytracing.GPUTriangle(nil), s.triangles...)
}

func (s *scene) Bind(w scene_buffer.Writer, sh shader.Shader, spheres, triangles BufferBinding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.packer == nil {
		s.packer = newPoolPacker(s.packWorkers, s.chunkSize)
	}

	sb, err := scene_buffer.New[raytracing.GPUSphere](w, sh, spheres.Group, spheres.StorageVar, spheres.Capacity,
		scene_buffer.WithInfoVar(spheres.InfoVar),
		scene_buffer.WithLabel(s.name+" spheres"),
		scene_buffer.WithPacker(s.packer),
	)
	if err != nil {
		return fmt.Errorf("scene %s: %w", s.name, err)
	}
	tb, err := scene_buffer.New[raytracing.GPUTriangle](w, sh, triangles.Group, triangles.StorageVar, triangles.Capacity,
		scene_buffer.WithInfoVar(triangles.InfoVar),
		scene_buffer.WithLabel(s.name+" triangles"),
		scene_buffer.WithPacker(s.packer),
	)
	if err != nil {
		sb.Release()
		return fmt.Errorf("scene %s: %w", s.name, err)
	}

	s.sphereBuffer, s.triangleBuffer = sb, tb
	// force the first Flush to upload
	s.flushed = s.version - 1
	logger.Infof("scene %s bound: %d/%d spheres, %d/%d triangles", s.name, len(s.spheres), spheres.Capacity, len(s.triangles), triangles.Capacity)
	return nil
}

func (s *scene) Flush() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sphereBuffer == nil || s.triangleBuffer == nil {
		return false, ErrNotBound
	}
	if s.flushed == s.version {
		return false, nil
	}
	// check both before writing either so a rejected frame leaves the GPU untouched
	if len(s.triangles) > s.triangleBuffer.Capacity() {
		return false, s.triangleBuffer.Update(s.triangles)
	}
	if err := s.sphereBuffer.Update(s.spheres); err != nil {
		return false, err
	}
	if err := s.triangleBuffer.Update(s.triangles); err != nil {
		return false, err
	}
	s.flushed = s.version
	return true, nil
}

func (s *scene) BindGroups() []bind_group_provider.BindGroupProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sphereBuffer == nil || s.triangleBuffer == nil {
		return nil
	}
	first, second := s.sphereBuffer.Provider(), s.triangleBuffer.Provider()
	if s.triangleBuffer.Group() < s.sphereBuffer.Group() {
		first, second = second, first
	}
	return []bind_group_provider.BindGroupProvider{first, second}
}

func (s *scene) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.packer != nil {
		s.packer.Stop()
		s.packer = nil
	}
	if s.sphereBuffer != nil {
		s.sphereBuffer.Release()
		s.sphereBuffer = nil
	}
	if s.triangleBuffer != nil {
		s.triangleBuffer.Release()
		s.triangleBuffer = nil
	}
}
