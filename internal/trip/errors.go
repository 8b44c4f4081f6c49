package trip

import (
	"fmt"

	"gpstrace.dev/internal/trace"
)

// AnalysisError is implemented by every error kind the orchestrator and its
// callers produce. Kind gives a stable identifier for structured logs and
// API responses; ExitCode maps to the CLI exit codes in spec §6.
type AnalysisError interface {
	error
	Kind() string
	ExitCode() int
}

// ParseError wraps a failure decoding an input trace. It is fatal for the
// whole request: the orchestrator never receives samples to work with.
type ParseError struct {
	Location string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %v", e.Location, e.Err)
}
func (e *ParseError) Unwrap() error { return e.Err }
func (e *ParseError) Kind() string  { return "ParseError" }
func (e *ParseError) ExitCode() int { return 2 }

// ParameterError reports a missing, negative, or inverted parameter bound.
type ParameterError struct {
	Field  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("parameter %q: %s", e.Field, e.Reason)
}
func (e *ParameterError) Kind() string  { return "ParameterError" }
func (e *ParameterError) ExitCode() int { return 3 }

// DegenerateGridError reports a grid that collapsed to zero width or height.
type DegenerateGridError struct {
	Width, Height int
}

func (e *DegenerateGridError) Error() string {
	return fmt.Sprintf("degenerate grid: width=%d height=%d", e.Width, e.Height)
}
func (e *DegenerateGridError) Kind() string  { return "DegenerateGridError" }
func (e *DegenerateGridError) ExitCode() int { return 4 }

// OutOfRangeError reports a sample whose latitude or longitude violated
// spec §3's bounds. Not assigned its own exit code in spec §6, so it falls
// under the "1: other" catch-all.
type OutOfRangeError struct {
	SampleIndex int
	Field       string
	Value       float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("sample %d: %s out of range: %v", e.SampleIndex, e.Field, e.Value)
}
func (e *OutOfRangeError) Kind() string  { return "OutOfRangeError" }
func (e *OutOfRangeError) ExitCode() int { return 1 }

// WrapInputError translates the parse-time error kinds the trace package
// produces into their AnalysisError counterparts, so adapters that read
// GPX/CSV input (the CLI; the HTTP handler does not use it) can treat every failure up to
// and including Run's own errors uniformly via the AnalysisError interface.
// Errors the trace package doesn't define pass through unchanged.
func WrapInputError(err error) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *trace.ParseError:
		return &ParseError{Location: e.Location, Err: e.Err}
	case *trace.OutOfRangeError:
		return &OutOfRangeError{SampleIndex: e.SampleIndex, Field: e.Field, Value: e.Value}
	default:
		return err
	}
}
