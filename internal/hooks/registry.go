// Package hooks holds the process-wide registry of shutdown callbacks.
// Callbacks run once, in registration order, during shutdown sequencing.
package hooks

import (
	"context"
	"log/slog"
	"sync"
)

// Hook performs one piece of shutdown cleanup (flushing logs, closing
// handles). A failing or panicking hook never prevents process termination.
type Hook func(ctx context.Context) error

type Registry struct {
	mu    sync.Mutex
	hooks []Hook
}

func New() *Registry {
	return &Registry{}
}

// Register appends a hook. Safe to call from any call site over the process
// lifetime until the registry is drained.
func (r *Registry) Register(h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
}

// Run executes every registered hook in registration order. Errors and
// panics are logged and swallowed.
func (r *Registry) Run(ctx context.Context, logger *slog.Logger) {
	r.mu.Lock()
	hooks := make([]Hook, len(r.hooks))
	copy(hooks, r.hooks)
	r.mu.Unlock()

	if logger == nil {
		logger = slog.Default()
	}
	for i, h := range hooks {
		runHook(ctx, h, i, logger)
	}
}

func runHook(ctx context.Context, h Hook, i int, logger *slog.Logger) {
	defer func() {
		if p := recover(); p != nil {
			logger.Warn("shutdown hook panicked", "index", i, "panic", p)
		}
	}()
	if err := h(ctx); err != nil {
		logger.Warn("shutdown hook failed", "index", i, "error", err)
	}
}
