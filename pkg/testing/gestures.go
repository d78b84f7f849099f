package testing

import (
	"github.com/go-drift/htmlview/pkg/graphics"
	"github.com/go-drift/htmlview/pkg/input"
)

// PointerTarget receives pointer events; *view.View satisfies it.
type PointerTarget interface {
	OnPointerEvent(event input.PointerEvent) bool
}

// nextPointerID is incremented for each new pointer to avoid collisions.
var nextPointerID int64

func allocPointerID() int64 {
	nextPointerID++
	return nextPointerID
}

// Tap sends a down/up pair at pos. It reports whether both events were
// consumed.
func Tap(target PointerTarget, pos graphics.Offset) bool {
	id := allocPointerID()
	down := send(target, id, input.PointerPhaseDown, pos)
	up := send(target, id, input.PointerPhaseUp, pos)
	return down && up
}

// Drag sends a down event at start, steps intermediate move events and an
// up event at start+delta. It reports whether every event was consumed.
func Drag(target PointerTarget, start, delta graphics.Offset, steps int) bool {
	id := allocPointerID()
	ok := send(target, id, input.PointerPhaseDown, start)
	steps = max(steps, 1)
	for i := 1; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		pos := graphics.Offset{X: start.X + delta.X*frac, Y: start.Y + delta.Y*frac}
		ok = send(target, id, input.PointerPhaseMove, pos) && ok
	}
	end := graphics.Offset{X: start.X + delta.X, Y: start.Y + delta.Y}
	return send(target, id, input.PointerPhaseUp, end) && ok
}

// Hover sends a single move event at pos.
func Hover(target PointerTarget, pos graphics.Offset) bool {
	return send(target, allocPointerID(), input.PointerPhaseMove, pos)
}

// Cancel sends a cancel event for a fresh pointer.
func Cancel(target PointerTarget) bool {
	return send(target, allocPointerID(), input.PointerPhaseCancel, graphics.Offset{})
}

func send(target PointerTarget, id int64, phase input.PointerPhase, pos graphics.Offset) bool {
	return target.OnPointerEvent(input.PointerEvent{
		PointerID: id,
		Phase:     phase,
		X:         pos.X,
		Y:         pos.Y,
	})
}
