// Package input translates view-local pointer events into engine events.
//
// The default mapping is the identity. Scroll offsets or device scale
// factors belong in a [Transform], so the view never changes when they
// are introduced.
package input

import (
	"fmt"
	"math"

	"github.com/go-drift/htmlview/pkg/bridge"
	"github.com/go-drift/htmlview/pkg/graphics"
)

// PointerPhase describes the pointer event phase.
type PointerPhase int

const (
	PointerPhaseDown PointerPhase = iota
	PointerPhaseMove
	PointerPhaseUp
	PointerPhaseCancel
)

// String returns a human-readable representation of the pointer phase.
func (p PointerPhase) String() string {
	switch p {
	case PointerPhaseDown:
		return "down"
	case PointerPhaseMove:
		return "move"
	case PointerPhaseUp:
		return "up"
	case PointerPhaseCancel:
		return "cancel"
	default:
		return fmt.Sprintf("PointerPhase(%d)", int(p))
	}
}

// PointerEvent is a device pointer event in view-local pixels.
type PointerEvent struct {
	PointerID int64
	Phase     PointerPhase
	X         float64
	Y         float64
}

// EngineEvent is a pointer event in engine coordinates.
type EngineEvent struct {
	Kind bridge.PointerKind
	X    int
	Y    int
}

// Mapper converts pointer events. It reports false for events the engine
// does not take, which the view then leaves unconsumed.
type Mapper interface {
	Map(event PointerEvent) (EngineEvent, bool)
}

// Transform maps view-local coordinates with an offset followed by a
// scale: engine = (local + Offset) / Scale.
// The zero Transform is the identity.
type Transform struct {
	Offset graphics.Offset
	// Scale is the device scale factor. Zero or negative means 1.
	Scale float64
}

// Identity maps view coordinates 1:1 to engine coordinates.
var Identity Mapper = Transform{}

// Map implements Mapper. Coordinates are truncated toward zero. Events
// whose mapped coordinates do not fit an int32 are not mapped.
func (t Transform) Map(event PointerEvent) (EngineEvent, bool) {
	kind, ok := engineKind(event.Phase)
	if !ok {
		return EngineEvent{}, false
	}
	scale := t.Scale
	if scale <= 0 {
		scale = 1
	}
	x := (event.X + t.Offset.X) / scale
	y := (event.Y + t.Offset.Y) / scale
	if !representable(x) || !representable(y) {
		return EngineEvent{}, false
	}
	return EngineEvent{Kind: kind, X: int(x), Y: int(y)}, true
}

// representable reports whether v converts to an engine coordinate.
func representable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= math.MaxInt32
}

func engineKind(phase PointerPhase) (bridge.PointerKind, bool) {
	switch phase {
	case PointerPhaseDown:
		return bridge.PointerDown, true
	case PointerPhaseUp:
		return bridge.PointerUp, true
	case PointerPhaseMove:
		return bridge.PointerMove, true
	default:
		return 0, false
	}
}
