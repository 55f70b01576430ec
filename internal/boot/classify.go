package boot

import "errors"

// Classify maps a captured failure to its outcome. The mapping is the single
// place failure shapes are inspected:
//
//	parser rejection            -> UsageError, code 64
//	deliberate abort            -> ControlledExit, explicit code or 1
//	exit request, immediate     -> ImmediateExit, given code
//	exit request, not immediate -> ControlledExit, given code
//	anything else               -> Crash, code 1
//
// stack is the trace captured by the boundary at the moment of failure.
func Classify(err error, stack []byte) Outcome {
	var usage *UsageError
	if errors.As(err, &usage) {
		return Outcome{
			Kind:    KindUsageError,
			Code:    ExitUsage,
			Message: usage.Message,
			Err:     err,
			Stack:   stack,
		}
	}

	var tool *ToolExit
	if errors.As(err, &tool) {
		return Outcome{
			Kind:    KindControlledExit,
			Code:    tool.exitCode(),
			Message: tool.Message,
			Err:     err,
			Stack:   stack,
		}
	}

	var proc *ProcessExit
	if errors.As(err, &proc) {
		kind := KindControlledExit
		if proc.Immediate {
			kind = KindImmediateExit
		}
		return Outcome{Kind: kind, Code: proc.Code, Err: err, Stack: stack}
	}

	return Outcome{
		Kind:    KindCrash,
		Code:    1,
		Message: err.Error(),
		Err:     err,
		Stack:   stack,
	}
}
