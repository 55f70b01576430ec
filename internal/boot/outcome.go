package boot

import "fmt"

// Kind identifies how an invocation attempt ended.
type Kind int

const (
	KindSuccess Kind = iota
	KindUsageError
	KindControlledExit
	KindImmediateExit
	KindCrash
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindUsageError:
		return "usage error"
	case KindControlledExit:
		return "controlled exit"
	case KindImmediateExit:
		return "immediate exit"
	case KindCrash:
		return "crash"
	default:
		return "unknown"
	}
}

// ExitUsage is the exit code for rejected command lines (EX_USAGE).
const ExitUsage = 64

// Outcome is the classified result of one invocation attempt. It is built
// once, by the classifier or the crash reporter, and never mutated after.
type Outcome struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
	Stack   []byte
}

// Success returns the zero-failure outcome.
func Success() Outcome {
	return Outcome{Kind: KindSuccess}
}

// UsageError reports a command line the parser rejected. The harness prints
// the message followed by the help hint and exits with code 64.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// ToolExit is a deliberate abort raised by command logic. Code zero means no
// explicit code was given; the classifier substitutes 1.
type ToolExit struct {
	Message string
	Code    int
}

func (e *ToolExit) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tool exit (code %d)", e.exitCode())
	}
	return e.Message
}

func (e *ToolExit) exitCode() int {
	if e.Code == 0 {
		return 1
	}
	return e.Code
}

// ProcessExit demands process termination with a specific code. When
// Immediate is set the shutdown sequence is skipped entirely.
type ProcessExit struct {
	Code      int
	Immediate bool
}

func (e *ProcessExit) Error() string {
	return fmt.Sprintf("process exit with code %d", e.Code)
}

// panicError wraps a recovered panic value so it travels the same error
// path as returned errors.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	if err, ok := e.value.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", e.value)
}
