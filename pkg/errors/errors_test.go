package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
)

import stderrors "errors"

func TestViewErrorString(t *testing.T) {
	err := &ViewError{
		Op:   "view.Draw",
		Kind: KindEngine,
		Err:  fmt.Errorf("layout failed"),
	}
	want := "view.Draw [engine]: layout failed"
	if got := err.Error(); got != want {
		t.Errorf("ViewError.Error() = %q, want %q", got, want)
	}
}

func TestViewErrorWithSize(t *testing.T) {
	err := &ViewError{
		Op:     "surface.Ensure",
		Kind:   KindAllocation,
		Width:  300,
		Height: 50,
		Err:    fmt.Errorf("out of memory"),
	}
	got := err.Error()
	if !strings.Contains(got, "300x50") {
		t.Errorf("error string %q should contain %q", got, "300x50")
	}
}

func TestViewErrorUnwrap(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := &ViewError{Op: "op", Kind: KindEngine, Err: fmt.Errorf("wrapped: %w", sentinel)}
	if !stderrors.Is(err, sentinel) {
		t.Error("expected errors.Is to find the sentinel through ViewError")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindAllocation, "allocation"},
		{KindDimensions, "dimensions"},
		{KindEngine, "engine"},
		{KindPanic, "panic"},
		{KindConfig, "config"},
		{ErrorKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "boom", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
	err.Op = "bridge.RenderInto"
	if got, want := err.Error(), "panic in bridge.RenderInto: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	var captured *ViewError
	handler := &testHandler{onError: func(err *ViewError) { captured = err }}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(&ViewError{Op: "test.op", Kind: KindAllocation, Err: fmt.Errorf("x")})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportNil(t *testing.T) {
	called := false
	oldHandler := DefaultHandler
	SetHandler(&testHandler{
		onError: func(*ViewError) { called = true },
		onPanic: func(*PanicError) { called = true },
	})
	defer SetHandler(oldHandler)

	Report(nil)
	ReportPanic(nil)
	if called {
		t.Error("nil reports should not reach the handler")
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	oldHandler := DefaultHandler
	SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", captured.Value, "intentional test panic")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
}

func TestRecoverWithCallback(t *testing.T) {
	oldHandler := DefaultHandler
	SetHandler(&testHandler{})
	defer SetHandler(oldHandler)

	var got any
	func() {
		defer RecoverWithCallback("test.callback", func(r any) { got = r })
		panic(42)
	}()
	if got != 42 {
		t.Errorf("callback value = %v, want 42", got)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Fatal("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	oldHandler := DefaultHandler
	defer SetHandler(oldHandler)

	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Out: &buf}
	h.HandleError(&ViewError{Op: "view.Measure", Kind: KindEngine, Err: fmt.Errorf("bad markup")})
	if got, want := buf.String(), "[htmlview error] view.Measure: bad markup\n"; got != want {
		t.Errorf("LogHandler output = %q, want %q", got, want)
	}

	buf.Reset()
	h.Verbose = true
	h.HandleError(&ViewError{Op: "view.Draw", Kind: KindAllocation, Width: 10, Height: 20, Err: fmt.Errorf("oom")})
	if got := buf.String(); !strings.Contains(got, "[allocation] size=10x20: oom") {
		t.Errorf("verbose output = %q", got)
	}

	buf.Reset()
	h.HandlePanic(&PanicError{Op: "bridge.DispatchPointer", Value: "nil map", StackTrace: "frame"})
	got := buf.String()
	if !strings.Contains(got, "[htmlview panic] bridge.DispatchPointer: nil map") {
		t.Errorf("panic output = %q", got)
	}
	if !strings.Contains(got, "Stack trace:\nframe") {
		t.Errorf("verbose panic output should include the stack, got %q", got)
	}
}

type testHandler struct {
	onError func(*ViewError)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *ViewError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
