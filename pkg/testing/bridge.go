package testing

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/go-drift/htmlview/pkg/bridge"
)

// RenderCall records one RenderInto call.
type RenderCall struct {
	Markup string
	Width  int
	// Height is the height of the target buffer.
	Height int
}

// PointerCall records one DispatchPointer call.
type PointerCall struct {
	Kind bridge.PointerKind
	X, Y int
}

// FakeBridge is a bridge.Bridge that records calls and returns scripted
// results. The zero value reports a content height of zero.
type FakeBridge struct {
	// ContentHeight is reported after every render unless HeightFunc is set.
	ContentHeight int
	// HeightFunc computes the content height per render.
	HeightFunc func(markup string, width int) int
	// Fill, if non-nil, paints the whole target on each render.
	Fill color.Color

	// RenderErr and PointerErr are returned by the matching calls.
	RenderErr  error
	PointerErr error
	// PanicOnRender, if non-nil, is passed to panic inside RenderInto.
	PanicOnRender any

	// OnRender runs inside RenderInto after the call is recorded.
	OnRender func(markup string, width int, target *image.RGBA)
	// OnPointer runs inside DispatchPointer after the call is recorded.
	OnPointer func(kind bridge.PointerKind, x, y int)

	Renders  []RenderCall
	Pointers []PointerCall
	Releases int

	height int
}

var _ bridge.Bridge = (*FakeBridge)(nil)

// RenderInto implements bridge.Bridge.
func (f *FakeBridge) RenderInto(markup string, width int, target *image.RGBA) error {
	call := RenderCall{Markup: markup, Width: width}
	if target != nil {
		call.Height = target.Rect.Dy()
	}
	f.Renders = append(f.Renders, call)
	if f.OnRender != nil {
		f.OnRender(markup, width, target)
	}
	if f.PanicOnRender != nil {
		panic(f.PanicOnRender)
	}
	if f.RenderErr != nil {
		return f.RenderErr
	}
	if f.Fill != nil && target != nil {
		draw.Draw(target, target.Rect, image.NewUniform(f.Fill), image.Point{}, draw.Src)
	}
	f.height = f.ContentHeight
	if f.HeightFunc != nil {
		f.height = f.HeightFunc(markup, width)
	}
	return nil
}

// ComputedContentHeight implements bridge.Bridge.
func (f *FakeBridge) ComputedContentHeight() int {
	return f.height
}

// DispatchPointer implements bridge.Bridge.
func (f *FakeBridge) DispatchPointer(kind bridge.PointerKind, x, y int) error {
	f.Pointers = append(f.Pointers, PointerCall{Kind: kind, X: x, Y: y})
	if f.OnPointer != nil {
		f.OnPointer(kind, x, y)
	}
	return f.PointerErr
}

// ReleaseSession implements bridge.Bridge.
func (f *FakeBridge) ReleaseSession() {
	f.Releases++
}

// RenderedMarkups returns the markup of every recorded render, in order.
func (f *FakeBridge) RenderedMarkups() []string {
	out := make([]string, len(f.Renders))
	for i, r := range f.Renders {
		out[i] = r.Markup
	}
	return out
}

// Reset clears the recorded calls but keeps the scripted behavior.
func (f *FakeBridge) Reset() {
	f.Renders = nil
	f.Pointers = nil
	f.Releases = 0
}
