package cmd

import (
	"image"

	"github.com/go-drift/htmlview/pkg/view"
)

// maxFrames bounds the frame loop when layout keeps changing.
const maxFrames = 8

// host is a headless embedder: it sizes views from their measurement and
// paints them into an in-memory canvas.
type host struct {
	owner     *view.PipelineOwner
	width     int
	height    int // fixed viewport height, or zero to fit content
	minHeight int
	canvas    *view.ImageCanvas
	frames    int
}

func newHost(owner *view.PipelineOwner, width, height, minHeight int) *host {
	return &host{owner: owner, width: width, height: height, minHeight: minHeight}
}

// frame runs one layout pass followed by one paint pass.
func (h *host) frame() {
	h.frames++
	for _, v := range h.owner.FlushLayout() {
		w, ht := v.Measure(h.width, h.height, h.minHeight)
		if h.height > 0 {
			ht = h.height
		}
		v.OnResize(w, ht)
		h.ensureCanvas(w, ht)
	}
	dirty := h.owner.FlushPaint()
	if h.canvas == nil {
		return
	}
	for _, v := range dirty {
		v.Draw(h.canvas)
	}
}

// settle runs frames until no work is pending.
func (h *host) settle() {
	for range maxFrames {
		if !h.owner.NeedsLayout() && !h.owner.NeedsPaint() {
			return
		}
		h.frame()
	}
}

func (h *host) ensureCanvas(w, ht int) {
	if w <= 0 || ht <= 0 {
		return
	}
	if h.canvas != nil && h.canvas.Image().Bounds() == image.Rect(0, 0, w, ht) {
		return
	}
	h.canvas = view.NewImageCanvas(image.NewRGBA(image.Rect(0, 0, w, ht)))
}

// frameImage returns the last painted frame, or nil.
func (h *host) frameImage() image.Image {
	if h.canvas == nil {
		return nil
	}
	return h.canvas.Image()
}
