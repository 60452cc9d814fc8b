// Package engine runs the two loops of the raytracer: the control loop on the main OS thread,
// which owns the window and its events, and the render loop on a supervised worker goroutine,
// which drives a FrameHandler once per frame.
package engine

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-rt/engine/fault"
	"github.com/Carmen-Shannon/oxy-rt/engine/input"
	"github.com/Carmen-Shannon/oxy-rt/engine/log"
	"github.com/Carmen-Shannon/oxy-rt/engine/profiler"
	"github.com/Carmen-Shannon/oxy-rt/engine/window"
	"github.com/google/uuid"
)

var logger = log.New("engine")

var (
	// ErrRenderFault is returned by Run when the render worker ended with an error or a panic.
	// The returned error also wraps the worker's fault.Outcome.
	ErrRenderFault = errors.New("render worker faulted")

	// ErrNoWindow is returned by Run when the engine was built without a window.
	ErrNoWindow = errors.New("engine has no window")

	// ErrNoFrameHandler is returned by Run when the engine was built without a frame handler.
	ErrNoFrameHandler = errors.New("engine has no frame handler")

	// ErrAlreadyRun is returned by every Run after the first.
	ErrAlreadyRun = errors.New("engine has already run")
)

const renderWorkerName = "render worker"

// RenderState is the lifecycle state of the render loop.
type RenderState int32

const (
	// RenderStateInitializing covers FrameHandler.Init and the time before the worker starts.
	RenderStateInitializing RenderState = iota

	// RenderStateRunning is entered after a successful Init.
	RenderStateRunning

	// RenderStateTerminated is final. It is entered on quit, on any error, or on a panic.
	RenderStateTerminated
)

// String returns the state name.
func (s RenderState) String() string {
	switch s {
	case RenderStateInitializing:
		return "initializing"
	case RenderStateRunning:
		return "running"
	case RenderStateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("RenderState(%d)", int32(s))
	}
}

// FrameContext is what the render loop hands to FrameHandler.Frame.
type FrameContext struct {
	// Delta is the time since the previous frame in seconds. It is 0 on the first frame.
	Delta float32

	// Elapsed is the time since the render loop entered Running, in seconds.
	Elapsed float32

	// Frame counts frames from 0.
	Frame uint64

	// Held is the sorted snapshot of held keys taken at the start of the frame.
	Held []uint32
}

// FrameHandler is the per-frame work of the render loop. Init, Frame and Close run on the render
// goroutine, which stays locked to one OS thread. Resize is called from the control loop.
type FrameHandler interface {
	// Init acquires GPU resources. An error terminates the render loop.
	Init() error

	// Frame renders one frame. An error terminates the render loop.
	Frame(ctx FrameContext) error

	// Resize records a new framebuffer size. It must be safe to call concurrently with Frame.
	Resize(width, height int)

	// Close releases what Init acquired. It runs once when the loop terminates, even after a panic.
	Close()
}

// engine implements the Engine interface.
type engine struct {
	window  window.Window
	handler FrameHandler
	keys    input.KeySet
	health  *fault.HealthFlag

	state atomic.Int32
	ran   atomic.Bool

	quitChannel chan struct{}
	quitOnce    sync.Once

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool

	renderFrameLimit atomic.Int64 // minimum frame duration in nanoseconds; 0 = uncapped

	sessionID uuid.UUID
}

// Engine wires a window, a key set and a frame handler into the control and render loops.
type Engine interface {
	// Window returns the window the control loop drives.
	//
	// Returns:
	//   - window.Window: the window, or nil if none was configured
	Window() window.Window

	// Keys returns the key set shared between the two loops.
	//
	// Returns:
	//   - input.KeySet: the key set
	Keys() input.KeySet

	// Health returns the flag the fault monitor flips when the render worker fails.
	//
	// Returns:
	//   - *fault.HealthFlag: the health flag
	Health() *fault.HealthFlag

	// State returns the current render loop state. Safe from any goroutine.
	//
	// Returns:
	//   - RenderState: the current state
	State() RenderState

	// SessionID identifies this run in log output.
	//
	// Returns:
	//   - string: the session id
	SessionID() string

	// EnableProfiler enables the per-second frame statistics log line.
	EnableProfiler()

	// DisableProfiler disables the frame statistics log line.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the render worker and its monitor, then runs the control loop on the calling
	// goroutine until the window closes. Must be called on the main OS thread.
	//
	// Returns:
	//   - error: nil after a normal close, or an error wrapping ErrRenderFault and the
	//     worker's fault.Outcome
	Run() error

	// Quit stops both loops. Safe to call multiple times and from any goroutine.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine. A key set and a health flag are created unless supplied.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel: make(chan struct{}),
		profiler:    profiler.NewProfiler(),
		sessionID:   uuid.New(),
	}
	e.state.Store(int32(RenderStateInitializing))

	for _, opt := range options {
		opt(e)
	}

	if e.keys == nil {
		e.keys = input.NewKeySet()
	}
	if e.health == nil {
		e.health = fault.NewHealthFlag()
	}
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Keys() input.KeySet {
	return e.keys
}

func (e *engine) Health() *fault.HealthFlag {
	return e.health
}

func (e *engine) State() RenderState {
	return RenderState(e.state.Load())
}

func (e *engine) SessionID() string {
	return e.sessionID.String()
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled.Store(true)
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit.Store(int64(frameLimit(fps)))
}

func (e *engine) Run() error {
	if e.window == nil {
		return ErrNoWindow
	}
	if e.handler == nil {
		return ErrNoFrameHandler
	}
	if !e.ran.CompareAndSwap(false, true) {
		return ErrAlreadyRun
	}

	e.window.SetKeyDownCallback(e.keys.Press)
	e.window.SetKeyUpCallback(e.keys.Release)
	e.window.SetResizeCallback(e.handler.Resize)
	e.window.SetUpdateCallback(e.pollHealth)

	logger.Noticef("session %s starting", e.sessionID)
	worker := fault.Supervise(renderWorkerName, e.renderLoop, e.health, func(fault.Outcome) {
		e.window.Wake()
	})

	e.window.ProcessMessages()
	e.signalQuit()

	// also waits for the fault wake, which must land before the caller closes the window
	outcome := worker.Wait()
	if outcome.Abnormal() {
		logger.Errorf("session %s ended after a render fault", e.sessionID)
		return fmt.Errorf("%w: %w", ErrRenderFault, outcome)
	}
	logger.Noticef("session %s ended", e.sessionID)
	return nil
}

func (e *engine) Quit() {
	e.signalQuit()
	if e.window != nil {
		e.window.RequestClose()
	}
}

// signalQuit closes the quit channel so the render loop exits at its next frame boundary.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// pollHealth runs on the control loop after every batch of window events.
func (e *engine) pollHealth() {
	if !e.health.Healthy() {
		e.window.RequestClose()
	}
}

// setState moves the render loop to next. Terminated is final.
func (e *engine) setState(next RenderState) {
	for {
		current := e.state.Load()
		if RenderState(current) == RenderStateTerminated {
			return
		}
		if e.state.CompareAndSwap(current, int32(next)) {
			logger.Debugf("render state %s -> %s", RenderState(current), next)
			return
		}
	}
}

// renderLoop is the body of the render worker. GPU backends bind their context to an OS thread,
// so the goroutine is locked for its whole life.
func (e *engine) renderLoop() error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	defer e.setState(RenderStateTerminated)
	defer e.handler.Close()

	e.setState(RenderStateInitializing)
	if err := e.handler.Init(); err != nil {
		return fmt.Errorf("failed to initialize frame handler: %w", err)
	}
	e.setState(RenderStateRunning)

	start := time.Now()
	last := start
	for frame := uint64(0); ; frame++ {
		select {
		case <-e.quitChannel:
			logger.Infof("render loop stopped after %d frames", frame)
			return nil
		default:
		}

		now := time.Now()
		ctx := FrameContext{
			Delta:   float32(now.Sub(last).Seconds()),
			Elapsed: float32(now.Sub(start).Seconds()),
			Frame:   frame,
			Held:    e.keys.Snapshot(),
		}
		last = now

		if err := e.handler.Frame(ctx); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}

		if e.profilingEnabled.Load() {
			e.profiler.Tick()
		}

		if limit := time.Duration(e.renderFrameLimit.Load()); limit > 0 {
			if remaining := limit - time.Since(now); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// frameLimit converts a frame rate cap to a minimum frame duration.
func frameLimit(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
