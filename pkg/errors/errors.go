// Package errors provides structured error reporting for htmlview.
//
// Failures inside a view never propagate to the host event loop. The view
// wraps them in a [ViewError], hands them to the global [ErrorHandler] and
// carries on with the next frame.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindAllocation indicates a pixel surface could not be created.
	KindAllocation
	// KindDimensions indicates non-positive width or height.
	KindDimensions
	// KindEngine indicates a failing engine bridge call.
	KindEngine
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindConfig indicates an invalid configuration value.
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindAllocation:
		return "allocation"
	case KindDimensions:
		return "dimensions"
	case KindEngine:
		return "engine"
	case KindPanic:
		return "panic"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ViewError represents a failure inside a view or its collaborators.
type ViewError struct {
	// Op is the operation that failed (e.g., "view.Draw").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Width and Height are the dimensions involved, if any.
	Width, Height int
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ViewError) Error() string {
	if e.Width != 0 || e.Height != 0 {
		return fmt.Sprintf("%s [%s] %dx%d: %v", e.Op, e.Kind, e.Width, e.Height, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ViewError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "bridge.RenderInto").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by views and engines.
type ErrorHandler interface {
	// HandleError is called when an operation fails.
	HandleError(err *ViewError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
