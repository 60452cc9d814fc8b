package fault

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	// ErrPanicked marks an Outcome produced by a recovered panic.
	ErrPanicked = errors.New("worker panicked")

	// ErrExited marks an Outcome for a worker whose goroutine ended without returning,
	// e.g. through runtime.Goexit.
	ErrExited = errors.New("worker exited without returning")
)

// Outcome is the structured termination result of a supervised worker.
type Outcome struct {
	// Worker is the name the worker was spawned with.
	Worker string

	// Err is the error the worker returned, or nil.
	Err error

	// Recovered is the value passed to panic, or nil if the worker did not panic.
	Recovered any

	// Stack is the goroutine stack captured at the panic site, empty otherwise.
	Stack []byte
}

// Abnormal reports whether the worker ended by error or panic.
func (o Outcome) Abnormal() bool {
	return o.Err != nil || o.Recovered != nil
}

// Error renders the outcome as a single diagnostic line.
func (o Outcome) Error() string {
	switch {
	case o.Recovered != nil:
		return fmt.Sprintf("%s: %v: %v", o.Worker, ErrPanicked, o.Recovered)
	case o.Err != nil:
		return fmt.Sprintf("%s: %v", o.Worker, o.Err)
	default:
		return o.Worker + ": exited normally"
	}
}

// Unwrap exposes the worker error (or ErrPanicked) to errors.Is / errors.As.
func (o Outcome) Unwrap() error {
	if o.Recovered != nil {
		return ErrPanicked
	}
	return o.Err
}

// Handle tracks a worker goroutine started with Spawn.
type Handle struct {
	name    string
	done    chan struct{}
	once    sync.Once
	outcome Outcome
}

// Spawn runs fn on a new goroutine. Any panic is recovered and turned into the worker's Outcome,
// so the process keeps running and the failure can be observed through Wait or Watch.
//
// Parameters:
//   - name: a name for the worker, used in diagnostics
//   - fn: the worker body
//
// Returns:
//   - *Handle: a handle to wait on the worker's outcome
func Spawn(name string, fn func() error) *Handle {
	h := newHandle(name)
	go h.run(fn)
	return h
}

func newHandle(name string) *Handle {
	return &Handle{
		name: name,
		done: make(chan struct{}),
	}
}

func (h *Handle) run(fn func() error) {
	outcome := Outcome{Worker: h.name}
	returned := false
	defer func() {
		if r := recover(); r != nil {
			outcome.Recovered = r
			outcome.Stack = debug.Stack()
		} else if !returned {
			outcome.Err = ErrExited
		}
		h.finish(outcome)
	}()
	outcome.Err = fn()
	returned = true
}

func (h *Handle) finish(outcome Outcome) {
	h.once.Do(func() {
		h.outcome = outcome
		close(h.done)
	})
}

// Name returns the worker name.
func (h *Handle) Name() string {
	return h.name
}

// Done is closed once the worker has terminated.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the worker terminates and returns its outcome. It may be called
// any number of times from any goroutine.
func (h *Handle) Wait() Outcome {
	<-h.done
	return h.outcome
}
