// Package bridge defines the capability interface between a view and the
// external layout-and-paint engine that renders its markup.
//
// An engine binding can be an in-process Go implementation, a cgo wrapper
// or a subprocess; the view only depends on [Bridge].
package bridge

import (
	"fmt"
	"image"
)

// PointerKind identifies an engine pointer event.
// The numeric values match the engine's wire encoding.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerUp
	PointerMove
)

// String returns a human-readable representation of the pointer kind.
func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerUp:
		return "up"
	case PointerMove:
		return "move"
	default:
		return fmt.Sprintf("PointerKind(%d)", int(k))
	}
}

// Bridge is one engine session. It owns the parsed document, the layout
// tree and interactive state such as hover, and keeps them across calls.
//
// Implementations are driven from a single goroutine and need no locking.
type Bridge interface {
	// RenderInto lays markup out for width and paints into target.
	// The target height may be provisional during a layout-only pass.
	RenderInto(markup string, width int, target *image.RGBA) error

	// ComputedContentHeight returns the laid-out document height in pixels.
	// It is only meaningful immediately after RenderInto.
	ComputedContentHeight() int

	// DispatchPointer updates interactive state. It does not repaint.
	DispatchPointer(kind PointerKind, x, y int) error

	// ReleaseSession frees every engine resource held by the session.
	ReleaseSession()
}
