// Package crash assembles, persists and announces crash reports for
// failures the classifier could not place in a controlled category.
package crash

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/riluq/flutter/internal/issues"
)

const (
	reportPrefix = "flutter_crash_"
	reportSuffix = ".log"
)

// Notifier is the remote crash-collection collaborator. Delivery is best
// effort; its errors never surface past the reporter.
type Notifier interface {
	Notify(ctx context.Context, crashErr error, stack []byte, version func() string, commandLine string) error
}

// Diagnostics produces the verbose, colorless environment summary embedded
// in the report.
type Diagnostics interface {
	Summary(ctx context.Context) (string, error)
}

// Reporter owns the crash path. Primary persistence goes to Dir through FS;
// on failure the report is retried in FallbackDir, and as a last resort
// dumped to Err in full.
type Reporter struct {
	FS          FileSystem
	Dir         string // preferred report directory, default "."
	FallbackDir string // default os.TempDir()

	Notifier    Notifier
	Diagnostics Diagnostics
	Version     func() string

	// TelemetryEnabled gates the remote notification. Nil means enabled.
	TelemetryEnabled func() bool

	// RecordException, when set, queues the failure on the local telemetry
	// accumulator alongside the remote notification.
	RecordException func(error)

	Out    io.Writer
	Err    io.Writer
	Logger *slog.Logger
}

// Report runs the full crash pipeline for the first captured failure. The
// returned error is non-nil only when report construction itself failed, in
// which case the caller must exit immediately rather than re-enter any
// failure handling.
func (r *Reporter) Report(ctx context.Context, crashErr error, stack []byte, args []string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			fmt.Fprintf(r.errW(), "Error while handling the tool crash: %v\n", p)
			err = fmt.Errorf("crash reporting failed: %v", p)
		}
	}()

	commandLine := strings.TrimSpace("flutter " + strings.Join(args, " "))

	if r.telemetryEnabled() {
		if r.RecordException != nil {
			r.RecordException(crashErr)
		}
		r.notify(ctx, crashErr, stack, commandLine)
	}

	doctorText := r.diagnosticsText(ctx)
	report := buildReport(commandLine, crashErr, stack, doctorText)

	path, writeErr := r.persist([]byte(report))
	if writeErr != nil {
		// Both locations refused the report. The stderr dump is the
		// report of last resort; the exit sequence continues regardless.
		r.logger().Warn("could not persist crash report", "error", writeErr)
		fmt.Fprintln(r.errW(), report)
	}

	fmt.Fprintln(r.outW(), "Oh no! The tool has crashed. We would appreciate a bug report.")
	if writeErr == nil {
		fmt.Fprintf(r.outW(), "A crash report has been written to %s\n", path)
	}
	fmt.Fprintln(r.outW(), "Please check for existing reports of this crash:")
	fmt.Fprintf(r.outW(), "  %s\n", issues.SearchURL(crashErr.Error()))
	fmt.Fprintln(r.outW(), "If none matches, file a new issue with the pre-filled template:")
	fmt.Fprintf(r.outW(), "  %s\n", issues.NewIssueURL(issues.ReportInfo{
		CommandLine: commandLine,
		Message:     crashErr.Error(),
		ErrorType:   fmt.Sprintf("%T", crashErr),
		StackTrace:  string(stack),
		DoctorText:  doctorText,
	}))
	return nil
}

// notify performs the best-effort remote report. Failures here must never
// mask the original crash, so everything is swallowed.
func (r *Reporter) notify(ctx context.Context, crashErr error, stack []byte, commandLine string) {
	if r.Notifier == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			r.logger().Debug("crash notifier panicked", "panic", p)
		}
	}()
	version := r.Version
	if version == nil {
		version = func() string { return "" }
	}
	if err := r.Notifier.Notify(ctx, crashErr, stack, version, commandLine); err != nil {
		r.logger().Debug("crash notification failed", "error", err)
	}
}

// diagnosticsText captures doctor output for the report. A failing doctor
// run is itself reported inside the diagnostics section instead of aborting
// the crash path.
func (r *Reporter) diagnosticsText(ctx context.Context) (text string) {
	if r.Diagnostics == nil {
		return "diagnostics unavailable"
	}
	defer func() {
		if p := recover(); p != nil {
			text = fmt.Sprintf("diagnostics run failed: %v\n%s", p, debug.Stack())
		}
	}()
	summary, err := r.Diagnostics.Summary(ctx)
	if err != nil {
		return fmt.Sprintf("diagnostics run failed: %v\n%s", err, debug.Stack())
	}
	return summary
}

// persist writes the report in the preferred directory, retrying once in
// the fallback temporary directory.
func (r *Reporter) persist(report []byte) (string, error) {
	dir := r.Dir
	if dir == "" {
		dir = "."
	}
	path, err := r.writeTo(dir, report)
	if err == nil {
		return path, nil
	}
	r.logger().Debug("primary crash report write failed", "dir", dir, "error", err)

	fallback := r.FallbackDir
	if fallback == "" {
		fallback = os.TempDir()
	}
	return r.writeTo(fallback, report)
}

func (r *Reporter) writeTo(dir string, report []byte) (string, error) {
	path, err := r.FS.UniqueFile(dir, reportPrefix, reportSuffix)
	if err != nil {
		return "", err
	}
	if err := r.FS.WriteFile(path, report); err != nil {
		return "", err
	}
	return path, nil
}

func buildReport(commandLine string, crashErr error, stack []byte, doctorText string) string {
	var b strings.Builder
	b.WriteString("Flutter crash report.\n")
	b.WriteString("Please review the contents before submitting it anywhere.\n\n")
	fmt.Fprintf(&b, "## command\n\n%s\n\n", commandLine)
	fmt.Fprintf(&b, "## error\n\n%T: %v\n\n", crashErr, crashErr)
	fmt.Fprintf(&b, "## stack trace\n\n%s\n", stack)
	fmt.Fprintf(&b, "## flutter doctor\n\n%s\n", doctorText)
	return b.String()
}

func (r *Reporter) telemetryEnabled() bool {
	if r.TelemetryEnabled == nil {
		return true
	}
	return r.TelemetryEnabled()
}

func (r *Reporter) outW() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

func (r *Reporter) errW() io.Writer {
	if r.Err != nil {
		return r.Err
	}
	return os.Stderr
}

func (r *Reporter) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
