package input

import (
	"math"
	"testing"

	"github.com/go-drift/htmlview/pkg/bridge"
	"github.com/go-drift/htmlview/pkg/graphics"
)

func TestIdentityMapping(t *testing.T) {
	tests := []struct {
		event PointerEvent
		want  EngineEvent
	}{
		{PointerEvent{Phase: PointerPhaseDown, X: 10, Y: 20}, EngineEvent{bridge.PointerDown, 10, 20}},
		{PointerEvent{Phase: PointerPhaseUp, X: 10.9, Y: 20.2}, EngineEvent{bridge.PointerUp, 10, 20}},
		{PointerEvent{Phase: PointerPhaseMove, X: 0.5, Y: 299.99}, EngineEvent{bridge.PointerMove, 0, 299}},
	}
	for _, tt := range tests {
		got, ok := Identity.Map(tt.event)
		if !ok {
			t.Errorf("Map(%+v) not consumed", tt.event)
			continue
		}
		if got != tt.want {
			t.Errorf("Map(%+v) = %+v, want %+v", tt.event, got, tt.want)
		}
	}
}

func TestUnmappedPhases(t *testing.T) {
	for _, phase := range []PointerPhase{PointerPhaseCancel, PointerPhase(42)} {
		if _, ok := Identity.Map(PointerEvent{Phase: phase, X: 1, Y: 1}); ok {
			t.Errorf("phase %v should not map to an engine event", phase)
		}
	}
}

func TestTransformOffsetAndScale(t *testing.T) {
	tr := Transform{Offset: graphics.Offset{X: 0, Y: 100}, Scale: 2}
	got, ok := tr.Map(PointerEvent{Phase: PointerPhaseMove, X: 40, Y: 20})
	if !ok {
		t.Fatal("expected mapping")
	}
	want := EngineEvent{Kind: bridge.PointerMove, X: 20, Y: 60}
	if got != want {
		t.Errorf("Map = %+v, want %+v", got, want)
	}
}

func TestTransformRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		tr   Transform
	}{
		{"NaN x", math.NaN(), 0, Transform{}},
		{"NaN y", 0, math.NaN(), Transform{}},
		{"+Inf x", math.Inf(1), 5, Transform{}},
		{"-Inf y", 5, math.Inf(-1), Transform{}},
		{"overflow after offset", 0, 0, Transform{Offset: graphics.Offset{X: math.MaxFloat64}}},
		{"beyond int32", 1e12, 0, Transform{}},
		{"tiny scale", 1e6, 0, Transform{Scale: 1e-6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ev, ok := tt.tr.Map(PointerEvent{Phase: PointerPhaseMove, X: tt.x, Y: tt.y}); ok {
				t.Errorf("mapped to %+v, want rejection", ev)
			}
		})
	}
	if _, ok := Identity.Map(PointerEvent{Phase: PointerPhaseMove, X: math.MaxInt32, Y: -math.MaxInt32}); !ok {
		t.Error("int32 extremes should still map")
	}
}

func TestPointerPhaseString(t *testing.T) {
	if got := PointerPhaseCancel.String(); got != "cancel" {
		t.Errorf("String() = %q", got)
	}
	if got := PointerPhase(9).String(); got != "PointerPhase(9)" {
		t.Errorf("String() = %q", got)
	}
}
