package bridge

import (
	stderrors "errors"
	"fmt"
	"image"

	"github.com/go-drift/htmlview/pkg/errors"
)

// ErrSessionReleased is returned by a Guard after ReleaseSession.
var ErrSessionReleased = stderrors.New("bridge: session released")

// ErrReentrant is returned when a Guard is called from inside one of its
// own calls, e.g. an engine callback that synchronously asks for a redraw.
var ErrReentrant = stderrors.New("bridge: reentrant call")

// Guard owns a single Bridge session and sequences every call into it.
//
// It converts engine panics into *errors.ViewError values, rejects nested
// and post-release calls, and runs ReleaseSession at most once.
type Guard struct {
	b              Bridge
	inCall         bool
	released       bool
	pendingRelease bool
}

// NewGuard wraps b. The Guard takes ownership of the session.
func NewGuard(b Bridge) *Guard {
	return &Guard{b: b}
}

// InCall reports whether a bridge call is currently executing.
func (g *Guard) InCall() bool {
	return g.inCall
}

// Released reports whether ReleaseSession has run.
func (g *Guard) Released() bool {
	return g.released || g.b == nil
}

// RenderInto renders markup into target and returns the computed content
// height read back immediately afterwards.
func (g *Guard) RenderInto(markup string, width int, target *image.RGBA) (height int, err error) {
	err = g.call("bridge.RenderInto", func() error {
		if err := g.b.RenderInto(markup, width, target); err != nil {
			return err
		}
		height = g.b.ComputedContentHeight()
		return nil
	})
	return height, err
}

// DispatchPointer forwards a pointer event to the session.
func (g *Guard) DispatchPointer(kind PointerKind, x, y int) error {
	return g.call("bridge.DispatchPointer", func() error {
		return g.b.DispatchPointer(kind, x, y)
	})
}

// Release calls ReleaseSession exactly once. Later calls do nothing.
// A Release issued from inside a bridge call runs when that call returns.
func (g *Guard) Release() {
	if g.Released() {
		return
	}
	if g.inCall {
		g.pendingRelease = true
		return
	}
	g.released = true
	_ = g.call("bridge.ReleaseSession", func() error {
		g.b.ReleaseSession()
		return nil
	})
}

func (g *Guard) call(op string, fn func() error) (err error) {
	if g.b == nil || (g.released && op != "bridge.ReleaseSession") {
		return ErrSessionReleased
	}
	if g.inCall {
		return ErrReentrant
	}
	g.inCall = true
	defer func() {
		g.inCall = false
		if g.pendingRelease {
			g.pendingRelease = false
			g.Release()
		}
	}()
	defer errors.RecoverWithCallback(op, func(r any) {
		err = &errors.ViewError{
			Op:         op,
			Kind:       errors.KindPanic,
			Err:        fmt.Errorf("engine panic: %v", r),
			StackTrace: errors.CaptureStack(),
		}
	})
	if err := fn(); err != nil {
		return &errors.ViewError{Op: op, Kind: errors.KindEngine, Err: err}
	}
	return nil
}
