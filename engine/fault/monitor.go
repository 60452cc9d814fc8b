// Package fault supervises the render worker: it captures how the worker terminated and
// publishes a one-way health flag that the control loop polls.
package fault

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-rt/engine/log"
)

var logger = log.New("fault")

// HealthFlag is a process-wide health bit. It starts healthy and can be flipped to unhealthy
// exactly once; it is never reset.
type HealthFlag struct {
	// cause is nil while healthy; the transition and the recorded outcome are one store.
	cause atomic.Pointer[Outcome]
}

// NewHealthFlag creates a healthy flag.
func NewHealthFlag() *HealthFlag {
	return &HealthFlag{}
}

// Healthy reports whether the flag is still healthy.
func (f *HealthFlag) Healthy() bool {
	return f.cause.Load() == nil
}

// MarkUnhealthy flips the flag and records the outcome that caused it.
// Only the first call has any effect.
//
// Parameters:
//   - cause: the outcome that made the worker unhealthy
//
// Returns:
//   - bool: true if this call performed the transition
func (f *HealthFlag) MarkUnhealthy(cause Outcome) bool {
	return f.cause.CompareAndSwap(nil, &cause)
}

// Cause returns the outcome recorded by the transition, if any.
//
// Returns:
//   - Outcome: the recorded outcome
//   - bool: false while the flag is healthy
func (f *HealthFlag) Cause() (Outcome, bool) {
	c := f.cause.Load()
	if c == nil {
		return Outcome{}, false
	}
	return *c, true
}

// Watch blocks until the worker behind h terminates. On an abnormal outcome it marks flag
// unhealthy and then invokes each onFault callback; on a normal outcome it does nothing.
//
// Parameters:
//   - h: the worker handle to observe
//   - flag: the health flag to flip on failure
//   - onFault: callbacks run after the flag flips, e.g. to wake a blocked event loop
//
// Returns:
//   - Outcome: the worker's outcome
func Watch(h *Handle, flag *HealthFlag, onFault ...func(Outcome)) Outcome {
	outcome := h.Wait()
	if !outcome.Abnormal() {
		logger.Infof("%s exited normally", h.Name())
		return outcome
	}

	if flag.MarkUnhealthy(outcome) {
		logger.Errorf("an error occurred in the %s: %v", h.Name(), outcome)
		if len(outcome.Stack) > 0 {
			logger.Debugf("%s stack:\n%s", h.Name(), outcome.Stack)
		}
	}
	for _, fn := range onFault {
		if fn != nil {
			fn(outcome)
		}
	}
	return outcome
}

// Supervise spawns fn and a watcher goroutine for it in one call. The returned handle carries
// the worker's outcome but completes only after the watcher has run every onFault callback, so
// a caller that waits on it never tears down what a callback still touches.
//
// Parameters:
//   - name: the worker name
//   - fn: the worker body
//   - flag: the health flag the watcher flips on failure
//   - onFault: callbacks run after the flag flips
//
// Returns:
//   - *Handle: a handle that completes once the worker and its watcher are both done
func Supervise(name string, fn func() error, flag *HealthFlag, onFault ...func(Outcome)) *Handle {
	worker := Spawn(name, fn)
	watched := newHandle(name)
	go func() {
		watched.finish(Watch(worker, flag, onFault...))
	}()
	return watched
}
