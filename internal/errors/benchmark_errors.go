package errors

import (
	"errors"
	"fmt"
)

// InvalidSizeError reports a non-positive or mismatched matrix dimension.
type InvalidSizeError struct {
	Size   int
	Reason string
}

// Error implements the error interface
func (e *InvalidSizeError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid matrix size %d", e.Size)
	}
	return fmt.Sprintf("invalid matrix size %d: %s", e.Size, e.Reason)
}

// NewInvalidSizeError creates a new InvalidSizeError
func NewInvalidSizeError(size int, reason string) *InvalidSizeError {
	return &InvalidSizeError{Size: size, Reason: reason}
}

// IOError reports a failure to open or write benchmark output.
// It is always fatal for the benchmark sequence.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// NewIOError creates a new IOError
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

// ComputationError reports an unexpected failure during a multiply,
// such as a non-finite input cell.
type ComputationError struct {
	Row    int
	Col    int
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation error at [%d][%d]: %s", e.Row, e.Col, e.Reason)
}

// NewComputationError creates a new ComputationError
func NewComputationError(row, col int, reason string) *ComputationError {
	return &ComputationError{Row: row, Col: col, Reason: reason}
}

// RunError ties a failure to the (size, run) pair where it happened.
type RunError struct {
	Size int
	Run  int
	Err  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("benchmark failed at size %d run %d: %v", e.Size, e.Run, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// NewRunError creates a new RunError
func NewRunError(size, run int, err error) *RunError {
	return &RunError{Size: size, Run: run, Err: err}
}

// IsFatalIO reports whether err is, or wraps, an IOError.
func IsFatalIO(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}
