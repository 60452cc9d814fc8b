package input

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-rt/common"
	"github.com/Carmen-Shannon/oxy-rt/engine/log"
)

var logger = log.New("input")

// keySet is the implementation of the KeySet interface.
type keySet struct {
	mu   *sync.Mutex
	held map[uint32]struct{}

	// degraded counts snapshots that fell back to an empty view.
	degraded int
}

// KeyView is a read-only view over the held keys handed to Apply visitors.
// It is only valid for the duration of the visitor call.
type KeyView interface {
	// Held reports whether the key is currently held.
	//
	// Parameters:
	//   - keyCode: the key code to check
	//
	// Returns:
	//   - bool: true if the key is held
	Held(keyCode uint32) bool

	// Len returns the number of held keys.
	//
	// Returns:
	//   - int: the held key count
	Len() int

	// Each calls fn for every held key in ascending key code order.
	//
	// Parameters:
	//   - fn: the function called per held key
	Each(fn func(keyCode uint32))
}

// KeySet records which control keys are currently held. It is written by the control loop
// on key events and read by the render loop once per frame, so every operation serializes
// on one mutex and the lock is held only for the insert, remove, copy or visit itself.
type KeySet interface {
	// Press marks a key as held. Pressing an already held key is a no-op.
	//
	// Parameters:
	//   - keyCode: the key code that was pressed
	Press(keyCode uint32)

	// Release marks a key as no longer held. Releasing a key that is not held is a no-op.
	//
	// Parameters:
	//   - keyCode: the key code that was released
	Release(keyCode uint32)

	// Apply runs visitor against the held set while holding the lock.
	// If the visitor panics the panic is contained, logged, and the frame proceeds as if no
	// keys were held; Apply then returns false.
	//
	// Parameters:
	//   - visitor: a read-only visitor over the held keys
	//
	// Returns:
	//   - bool: false if the visit degraded to an empty view
	Apply(visitor func(view KeyView)) bool

	// Snapshot copies the held keys in ascending order. A failed copy degrades to an empty
	// snapshot for this frame.
	//
	// Returns:
	//   - []uint32: the held keys, sorted
	Snapshot() []uint32

	// Len returns the number of held keys.
	//
	// Returns:
	//   - int: the held key count
	Len() int

	// Degraded returns how many Apply or Snapshot calls fell back to an empty view.
	//
	// Returns:
	//   - int: the degraded call count
	Degraded() int
}

var _ KeySet = &keySet{}

// NewKeySet creates an empty KeySet.
//
// Returns:
//   - KeySet: an empty key set
func NewKeySet() KeySet {
	return &keySet{
		mu:   &sync.Mutex{},
		held: make(map[uint32]struct{}, 8),
	}
}

func (k *keySet) Press(keyCode uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.held[keyCode]; ok {
		return
	}
	k.held[keyCode] = struct{}{}
	k.logChange("pressed", keyCode)
}

func (k *keySet) Release(keyCode uint32) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.held[keyCode]; !ok {
		return
	}
	delete(k.held, keyCode)
	k.logChange("released", keyCode)
}

// logChange logs a transition of the held set. Called with k.mu held.
func (k *keySet) logChange(action string, keyCode uint32) {
	if log.CurrentLevel() != log.Debug {
		return
	}
	names := make([]string, 0, len(k.held))
	heldView(k.held).Each(func(key uint32) {
		names = append(names, common.KeyName(key))
	})
	logger.Debugf("%s %s, held keys: %v", common.KeyName(keyCode), action, names)
}

func (k *keySet) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.held)
}

func (k *keySet) Degraded() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.degraded
}

func (k *keySet) Apply(visitor func(view KeyView)) (ok bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			k.degraded++
			logger.Warningf("input visitor failed, skipping input for this frame: %v", r)
			ok = false
		}
	}()
	visitor(heldView(k.held))
	return true
}

func (k *keySet) Snapshot() (keys []uint32) {
	ok := k.Apply(func(view KeyView) {
		keys = make([]uint32, 0, view.Len())
		view.Each(func(keyCode uint32) {
			keys = append(keys, keyCode)
		})
	})
	if !ok {
		return nil
	}
	return keys
}

// heldView adapts the locked map to KeyView.
type heldView map[uint32]struct{}

func (h heldView) Held(keyCode uint32) bool {
	_, ok := h[keyCode]
	return ok
}

func (h heldView) Len() int {
	return len(h)
}

func (h heldView) Each(fn func(keyCode uint32)) {
	keys := make([]uint32, 0, len(h))
	for key := range h {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		fn(key)
	}
}
