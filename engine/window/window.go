package window

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-rt/engine/log"
	"github.com/cogentcore/webgpu/wgpu"
)

var logger = log.New("window")

// ErrClosed is returned by Close when the window was already closed.
var ErrClosed = errors.New("window already closed")

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
// Apart from Wake, RequestClose, IsRunning, Width and Height, every method must be called on
// the main OS thread.
type Window interface {
	// SetUpdateCallback sets the function called after each batch of events is processed.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press events. Auto-repeat is delivered as
	// repeated presses.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns the descriptor the GPU backend creates its surface from.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform surface descriptor
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is open and no close was requested.
	IsRunning() bool

	// RequestClose asks the event loop to stop and wakes it. Safe from any goroutine.
	RequestClose()

	// Wake unblocks ProcessMessages so the update callback runs. Safe from any goroutine.
	Wake()

	// Close destroys the window and shuts down the platform layer.
	//
	// Returns:
	//   - error: an error if the window was never created
	Close() error

	// ProcessMessages blocks, dispatching events, until the window stops running.
	ProcessMessages()

	// Width returns the framebuffer width in pixels. Safe from any goroutine.
	Width() int

	// Height returns the framebuffer height in pixels. Safe from any goroutine.
	Height() int
}

// engineWindow holds platform-agnostic window state.
type engineWindow struct {
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// requested size at creation; replaced by the framebuffer size afterwards
	width  atomic.Int32
	height atomic.Int32

	closeRequested atomic.Bool

	// platformMu orders cross-goroutine wakes against Close; once terminated is set the
	// platform layer is gone and wakes are dropped.
	platformMu sync.RWMutex
	terminated bool

	// internalWindow is the platform window, set by newPlatformWindow
	internalWindow any

	onUpdate  func()
	onResize  func(width, height int)
	onKeyDown func(keyCode uint32)
	onKeyUp   func(keyCode uint32)
}

var _ Window = &engineWindow{}

// newEngineWindow applies defaults and options without touching the platform layer.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy-rt",
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  320,
		minHeight: 200,
	}
	w.width.Store(1280)
	w.height.Store(720)
	for _, opt := range options {
		opt(w)
	}
	return w
}

// NewWindow creates and shows a window. Must be called on the main OS thread.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	logger.Infof("window %q opened at %dx%d", w.title, w.Width(), w.Height())
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	if w.closeRequested.Load() {
		return false
	}
	w.platformMu.RLock()
	defer w.platformMu.RUnlock()
	return !w.terminated && platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	if w.closeRequested.CompareAndSwap(false, true) {
		logger.Debug("close requested")
	}
	w.Wake()
}

func (w *engineWindow) Wake() {
	w.platformMu.RLock()
	defer w.platformMu.RUnlock()
	if w.terminated {
		return
	}
	platformWake(w)
}

func (w *engineWindow) Close() error {
	w.platformMu.Lock()
	defer w.platformMu.Unlock()
	if w.terminated {
		return ErrClosed
	}
	if err := platformCloseWindow(w); err != nil {
		return err
	}
	w.terminated = true
	return nil
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		platformWaitEvents(w)

		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

func (w *engineWindow) Width() int {
	return int(w.width.Load())
}

func (w *engineWindow) Height() int {
	return int(w.height.Load())
}

// keyEvent routes a key transition to the callbacks. Escape requests close instead.
func (w *engineWindow) keyEvent(key uint32, pressed bool) {
	if key == escapeKey && pressed {
		w.RequestClose()
		return
	}
	if pressed {
		if w.onKeyDown != nil {
			w.onKeyDown(key)
		}
		return
	}
	if w.onKeyUp != nil {
		w.onKeyUp(key)
	}
}

// resized records the framebuffer size and notifies the resize callback.
func (w *engineWindow) resized(width, height int) {
	w.width.Store(int32(width))
	w.height.Store(int32(height))
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
