package view

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/go-drift/htmlview/pkg/graphics"
)

// Canvas is the host's output surface for a paint pass.
type Canvas interface {
	// DrawImage draws img unscaled with its top-left corner at position.
	DrawImage(img image.Image, position graphics.Offset)

	// Size returns the size of the canvas in pixels.
	Size() graphics.Size
}

// ImageCanvas draws onto an in-memory image.
type ImageCanvas struct {
	dst draw.Image
}

// NewImageCanvas returns a Canvas backed by dst.
func NewImageCanvas(dst draw.Image) *ImageCanvas {
	return &ImageCanvas{dst: dst}
}

// DrawImage copies img onto the destination, clipped to its bounds.
func (c *ImageCanvas) DrawImage(img image.Image, position graphics.Offset) {
	src := img.Bounds()
	at := image.Pt(int(position.X), int(position.Y))
	r := image.Rectangle{Min: at, Max: at.Add(src.Size())}.Intersect(c.dst.Bounds())
	if r.Empty() {
		return
	}
	xdraw.Copy(c.dst, r.Min, img, image.Rectangle{Min: src.Min.Add(r.Min.Sub(at)), Max: src.Max}, xdraw.Src, nil)
}

// Size returns the destination size.
func (c *ImageCanvas) Size() graphics.Size {
	b := c.dst.Bounds()
	return graphics.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

// Image returns the destination image.
func (c *ImageCanvas) Image() draw.Image {
	return c.dst
}
