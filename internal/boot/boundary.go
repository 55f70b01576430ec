package boot

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Boundary intercepts every failure raised while a command runs, whether it
// is returned or panicked at the call site or delivered later by background
// work the command scheduled through Go. Only the first failure is kept for
// classification; later ones are consumed and logged so they can neither
// overwrite the original cause nor escape as an unhandled fault.
type Boundary struct {
	logger *slog.Logger

	mu      sync.Mutex
	wg      sync.WaitGroup
	handled bool
	err     error
	stack   []byte
}

func NewBoundary(logger *slog.Logger) *Boundary {
	if logger == nil {
		logger = slog.Default()
	}
	return &Boundary{logger: logger}
}

// Run executes fn synchronously, capturing a returned error or a panic.
func (b *Boundary) Run(fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			b.capture(&panicError{value: r}, debug.Stack())
		}
	}()
	if err := fn(); err != nil {
		b.capture(err, debug.Stack())
	}
}

// Go schedules fn on its own goroutine. Failures it raises are funneled into
// the same capture as Run; Wait blocks until all scheduled work has settled.
func (b *Boundary) Go(fn func() error) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				b.capture(&panicError{value: r}, debug.Stack())
			}
		}()
		if err := fn(); err != nil {
			b.capture(err, debug.Stack())
		}
	}()
}

// Wait blocks until every function scheduled through Go has finished, so
// deferred failures are observed before the outcome is classified.
func (b *Boundary) Wait() {
	b.wg.Wait()
}

// First reports the first captured failure, if any.
func (b *Boundary) First() (error, []byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err, b.stack, b.handled
}

func (b *Boundary) capture(err error, stack []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handled {
		// A failure is already being reported. Acknowledge this one and
		// drop it so it cannot start a second crash-report cycle.
		b.logger.Debug("discarding secondary failure", "error", err)
		return
	}
	b.handled = true
	b.err = err
	b.stack = stack
}

type boundaryKey struct{}

// WithBoundary embeds the boundary in ctx so commands can schedule
// background work through it.
func WithBoundary(ctx context.Context, b *Boundary) context.Context {
	return context.WithValue(ctx, boundaryKey{}, b)
}

// BoundaryFrom extracts the boundary from ctx, or nil if dispatch did not
// install one.
func BoundaryFrom(ctx context.Context) *Boundary {
	b, _ := ctx.Value(boundaryKey{}).(*Boundary)
	return b
}
