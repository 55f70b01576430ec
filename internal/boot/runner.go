package boot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// helpHint is printed after every usage-error message.
const helpHint = "Run 'flutter --help' for available commands and options."

// Registry resolves and executes the command named by args, returning a
// *UsageError for command lines it cannot parse.
type Registry interface {
	Execute(ctx context.Context, args []string) error
}

// CrashReporter handles the crash outcome: remote notification, local
// persistence and user guidance. A non-nil error means crash reporting
// itself failed and the process must exit immediately.
type CrashReporter interface {
	Report(ctx context.Context, crashErr error, stack []byte, args []string) error
}

// Runner dispatches one invocation through the failure-capturing boundary
// and classifies whatever escapes it.
type Runner struct {
	Registry Registry
	Logger   *slog.Logger

	// MuteLogging strips recognized verbose flags from the invocation
	// before dispatch. Cosmetic; commands still run identically.
	MuteLogging bool
}

// Dispatch runs the command named by args and returns exactly one outcome.
// The boundary guarantees that the first failure wins: anything raised
// after it, including failures from background work the command scheduled,
// is consumed without reclassification.
func (r *Runner) Dispatch(ctx context.Context, args []string) Outcome {
	if r.MuteLogging {
		args = stripVerbose(args)
	}

	b := NewBoundary(r.Logger)
	ctx = WithBoundary(ctx, b)
	b.Run(func() error {
		return r.Registry.Execute(ctx, args)
	})
	b.Wait()

	if err, stack, ok := b.First(); ok {
		return Classify(err, stack)
	}
	return Success()
}

func stripVerbose(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Runtime wires the dispatcher, the crash reporter and the shutdown
// sequencer into the per-process harness. Every collaborator is explicit so
// tests construct a fresh Runtime instead of sharing process globals.
type Runtime struct {
	Runner    *Runner
	Crash     CrashReporter
	Sequencer *Sequencer
	Logger    *slog.Logger

	Err io.Writer // user-facing error stream

	// Verbose echoes stack traces for controlled exits.
	Verbose bool
}

// Run executes one invocation end to end and returns the resolved exit
// code. When the sequencer carries an exit function the call terminates the
// process instead of returning.
func (rt *Runtime) Run(ctx context.Context, args []string) int {
	outcome := rt.Runner.Dispatch(ctx, args)
	outcome = rt.report(ctx, outcome, args)
	return rt.Sequencer.Terminate(ctx, outcome)
}

// report prints the user-visible text for the outcome and, on the crash
// path, runs the crash reporter. A failure inside crash reporting escalates
// to an immediate exit so the failure path cannot recurse into itself.
func (rt *Runtime) report(ctx context.Context, o Outcome, args []string) Outcome {
	switch o.Kind {
	case KindUsageError:
		if o.Message != "" {
			fmt.Fprintln(rt.errW(), o.Message)
		}
		fmt.Fprintln(rt.errW(), helpHint)
	case KindControlledExit:
		if o.Message != "" {
			fmt.Fprintln(rt.errW(), o.Message)
		}
		if rt.Verbose && len(o.Stack) > 0 {
			fmt.Fprintf(rt.errW(), "%s\n", o.Stack)
		}
	case KindCrash:
		if rt.Crash == nil {
			break
		}
		if err := rt.Crash.Report(ctx, o.Err, o.Stack, args); err != nil {
			rt.logger().Error("crash reporting failed", "error", err)
			return Outcome{Kind: KindImmediateExit, Code: 1, Err: err}
		}
	}
	return o
}

func (rt *Runtime) errW() io.Writer {
	if rt.Err != nil {
		return rt.Err
	}
	return os.Stderr
}

func (rt *Runtime) logger() *slog.Logger {
	if rt.Logger != nil {
		return rt.Logger
	}
	return slog.Default()
}
