package engine

import (
	"github.com/Carmen-Shannon/oxy-rt/engine/fault"
	"github.com/Carmen-Shannon/oxy-rt/engine/input"
	"github.com/Carmen-Shannon/oxy-rt/engine/profiler"
	"github.com/Carmen-Shannon/oxy-rt/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables the frame statistics log line.
//
// Parameters:
//   - enabled: if true, enables profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler to tick once per frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		if p != nil {
			e.profiler = p
		}
	}
}

// WithWindow sets the window the control loop drives.
//
// Parameters:
//   - w: a created Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithFrameHandler sets the per-frame work of the render loop.
//
// Parameters:
//   - h: the frame handler
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameHandler(h FrameHandler) EngineBuilderOption {
	return func(e *engine) {
		e.handler = h
	}
}

// WithKeySet shares an existing key set with the engine instead of creating one.
//
// Parameters:
//   - keys: the key set the control loop writes and the render loop reads
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithKeySet(keys input.KeySet) EngineBuilderOption {
	return func(e *engine) {
		e.keys = keys
	}
}

// WithHealthFlag shares an existing health flag with the engine instead of creating one.
//
// Parameters:
//   - flag: the flag the fault monitor flips
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithHealthFlag(flag *fault.HealthFlag) EngineBuilderOption {
	return func(e *engine) {
		e.health = flag
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit.Store(int64(frameLimit(fps)))
	}
}
