package bridge

import (
	stderrors "errors"
	"image"
	"testing"

	"github.com/go-drift/htmlview/pkg/errors"
)

type stubBridge struct {
	height   int
	renders  int
	pointers []PointerKind
	releases int

	renderErr error
	panicWith any
	onRender  func()
}

func (s *stubBridge) RenderInto(markup string, width int, target *image.RGBA) error {
	s.renders++
	if s.onRender != nil {
		s.onRender()
	}
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	return s.renderErr
}

func (s *stubBridge) ComputedContentHeight() int { return s.height }

func (s *stubBridge) DispatchPointer(kind PointerKind, x, y int) error {
	s.pointers = append(s.pointers, kind)
	return nil
}

func (s *stubBridge) ReleaseSession() { s.releases++ }

type silentHandler struct {
	panics   int
	panicOps []string
}

func (h *silentHandler) HandleError(*errors.ViewError) {}

func (h *silentHandler) HandlePanic(err *errors.PanicError) {
	h.panics++
	h.panicOps = append(h.panicOps, err.Op)
}

func withSilentHandler(t *testing.T) *silentHandler {
	t.Helper()
	h := &silentHandler{}
	old := errors.DefaultHandler
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(old) })
	return h
}

func TestPointerKindString(t *testing.T) {
	tests := []struct {
		kind PointerKind
		want string
	}{
		{PointerDown, "down"},
		{PointerUp, "up"},
		{PointerMove, "move"},
		{PointerKind(7), "PointerKind(7)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("PointerKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
	if PointerDown != 0 || PointerUp != 1 || PointerMove != 2 {
		t.Error("pointer kinds must keep the engine wire values 0, 1, 2")
	}
}

func TestGuardRenderReadsHeight(t *testing.T) {
	stub := &stubBridge{height: 80}
	g := NewGuard(stub)
	h, err := g.RenderInto("<p>hi</p>", 300, image.NewRGBA(image.Rect(0, 0, 300, 1)))
	if err != nil {
		t.Fatalf("RenderInto: %v", err)
	}
	if h != 80 {
		t.Errorf("height = %d, want 80", h)
	}
	if stub.renders != 1 {
		t.Errorf("renders = %d, want 1", stub.renders)
	}
}

func TestGuardWrapsEngineError(t *testing.T) {
	engineErr := stderrors.New("layout exploded")
	g := NewGuard(&stubBridge{renderErr: engineErr})
	_, err := g.RenderInto("x", 10, image.NewRGBA(image.Rect(0, 0, 10, 1)))

	var viewErr *errors.ViewError
	if !stderrors.As(err, &viewErr) {
		t.Fatalf("expected *errors.ViewError, got %T", err)
	}
	if viewErr.Kind != errors.KindEngine {
		t.Errorf("Kind = %v, want %v", viewErr.Kind, errors.KindEngine)
	}
	if !stderrors.Is(err, engineErr) {
		t.Error("expected the engine error to be unwrappable")
	}
}

func TestGuardRecoversPanic(t *testing.T) {
	h := withSilentHandler(t)
	g := NewGuard(&stubBridge{panicWith: "nil document"})

	_, err := g.RenderInto("x", 10, image.NewRGBA(image.Rect(0, 0, 10, 1)))
	var viewErr *errors.ViewError
	if !stderrors.As(err, &viewErr) || viewErr.Kind != errors.KindPanic {
		t.Fatalf("expected KindPanic ViewError, got %v", err)
	}
	if h.panics != 1 {
		t.Errorf("reported panics = %d, want 1", h.panics)
	}
	if g.InCall() {
		t.Error("InCall should be false after a panicking call")
	}
	if len(h.panicOps) != 1 || h.panicOps[0] != "bridge.RenderInto" {
		t.Errorf("panic ops = %q, want [bridge.RenderInto]", h.panicOps)
	}
	if viewErr.Op != "bridge.RenderInto" || viewErr.StackTrace == "" {
		t.Errorf("ViewError op=%q stack empty=%v", viewErr.Op, viewErr.StackTrace == "")
	}
}

func TestGuardUsableAfterPanic(t *testing.T) {
	withSilentHandler(t)
	b := &stubBridge{panicWith: "boom", height: 12}
	g := NewGuard(b)
	target := image.NewRGBA(image.Rect(0, 0, 10, 1))

	if _, err := g.RenderInto("x", 10, target); err == nil {
		t.Fatal("expected the panic to surface as an error")
	}
	b.panicWith = nil
	h, err := g.RenderInto("x", 10, target)
	if err != nil || h != 12 {
		t.Errorf("RenderInto after panic = %d, %v; want 12, nil", h, err)
	}
}

func TestGuardReleaseDuringPanickingCall(t *testing.T) {
	withSilentHandler(t)
	b := &stubBridge{panicWith: "boom"}
	g := NewGuard(b)
	b.onRender = func() { g.Release() }

	g.RenderInto("x", 10, image.NewRGBA(image.Rect(0, 0, 10, 1)))
	if b.releases != 1 || !g.Released() {
		t.Errorf("releases = %d released=%v, want the deferred release to run", b.releases, g.Released())
	}
}

func TestGuardReleaseOnce(t *testing.T) {
	stub := &stubBridge{}
	g := NewGuard(stub)
	g.Release()
	g.Release()
	if stub.releases != 1 {
		t.Errorf("ReleaseSession calls = %d, want 1", stub.releases)
	}
	if err := g.DispatchPointer(PointerDown, 1, 1); !stderrors.Is(err, ErrSessionReleased) {
		t.Errorf("DispatchPointer after release = %v, want ErrSessionReleased", err)
	}
	if len(stub.pointers) != 0 {
		t.Error("released session must not receive pointer events")
	}
}

func TestGuardRejectsReentrantCall(t *testing.T) {
	stub := &stubBridge{}
	g := NewGuard(stub)
	var nested error
	stub.onRender = func() {
		nested = g.DispatchPointer(PointerMove, 0, 0)
	}
	if _, err := g.RenderInto("x", 10, image.NewRGBA(image.Rect(0, 0, 10, 1))); err != nil {
		t.Fatalf("RenderInto: %v", err)
	}
	if !stderrors.Is(nested, ErrReentrant) {
		t.Errorf("nested call error = %v, want ErrReentrant", nested)
	}
	if len(stub.pointers) != 0 {
		t.Error("nested call must not reach the engine")
	}
}

func TestGuardDefersReleaseDuringCall(t *testing.T) {
	stub := &stubBridge{}
	g := NewGuard(stub)
	stub.onRender = func() {
		g.Release()
		if stub.releases != 0 {
			t.Error("ReleaseSession ran while the engine was still rendering")
		}
	}
	g.RenderInto("x", 10, image.NewRGBA(image.Rect(0, 0, 10, 1)))
	if stub.releases != 1 {
		t.Errorf("ReleaseSession calls = %d, want 1", stub.releases)
	}
	if !g.Released() {
		t.Error("expected guard to be released")
	}
}

func TestGuardNilBridge(t *testing.T) {
	g := NewGuard(nil)
	if !g.Released() {
		t.Error("a guard without a session reports released")
	}
	if _, err := g.RenderInto("x", 1, nil); !stderrors.Is(err, ErrSessionReleased) {
		t.Errorf("err = %v, want ErrSessionReleased", err)
	}
	g.Release()
}
