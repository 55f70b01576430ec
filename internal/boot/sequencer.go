package boot

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/riluq/flutter/internal/hooks"
)

// DefaultFlushBudget bounds the telemetry flush during shutdown. Exceeding
// it abandons the flush, never the shutdown.
const DefaultFlushBudget = 250 * time.Millisecond

// Telemetry is the slice of the telemetry collaborator the sequencer needs.
type Telemetry interface {
	Enabled() bool
	ShowWelcome(w io.Writer) error
	Flush(ctx context.Context) error
}

// Sequencer performs the ordered best-effort cleanup that precedes process
// termination. It runs at most once per process.
type Sequencer struct {
	Telemetry Telemetry
	Hooks     *hooks.Registry
	Logger    *slog.Logger
	Out       io.Writer

	// FlushBudget defaults to DefaultFlushBudget when zero.
	FlushBudget time.Duration

	// Exit terminates the process with the resolved code. Leave nil when
	// the harness is embedded (tests, library use); Terminate then just
	// returns the code.
	Exit func(code int)
}

// Terminate resolves the outcome into an exit code, runs the shutdown
// sequence and terminates the process. An immediate-exit outcome skips the
// sequence entirely. The code is returned for embedders.
func (s *Sequencer) Terminate(ctx context.Context, o Outcome) int {
	if o.Kind == KindImmediateExit {
		s.exit(o.Code)
		return o.Code
	}

	if s.Telemetry != nil {
		if err := s.Telemetry.ShowWelcome(s.out()); err != nil {
			s.logger().Debug("welcome notice failed", "error", err)
		}
		if s.Telemetry.Enabled() {
			s.flush(ctx)
		}
	}

	if s.Hooks != nil {
		s.Hooks.Run(ctx, s.logger())
	}

	// Let already-queued work (trailing log writes and the like) run once
	// before the hard exit.
	runtime.Gosched()

	s.exit(o.Code)
	return o.Code
}

// flush drains pending telemetry under the wall-clock budget. Delivery is
// best effort; a slow or failing flush only costs the budget.
func (s *Sequencer) flush(ctx context.Context) {
	budget := s.FlushBudget
	if budget <= 0 {
		budget = DefaultFlushBudget
	}
	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.Telemetry.Flush(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.logger().Debug("telemetry flush failed", "error", err)
		}
	case <-ctx.Done():
		s.logger().Debug("telemetry flush exceeded budget", "budget", budget)
	}
}

func (s *Sequencer) exit(code int) {
	if s.Exit != nil {
		s.Exit(code)
	}
}

func (s *Sequencer) out() io.Writer {
	if s.Out != nil {
		return s.Out
	}
	return os.Stdout
}

func (s *Sequencer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
