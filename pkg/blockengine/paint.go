package blockengine

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/htmlview/pkg/graphics"
)

// painter draws a laid-out document into a target buffer. Coordinates are
// document pixels relative to the target's top-left corner.
type painter struct {
	dst     *image.RGBA
	origin  image.Point
	face    font.Face
	hovered int
	hover   graphics.Color
}

func (p *painter) paint(d *document, background graphics.Color) {
	p.fill(p.dst.Rect, background, draw.Src)
	p.paintBackgrounds(d.root)
	d.walk(func(g *inlineGroup) bool {
		p.paintText(g)
		return true
	})
}

func (p *painter) paintBackgrounds(b *box) {
	if b.style.background.Alpha() > 0 {
		p.fill(b.rect.Add(p.origin), b.style.background, draw.Over)
	}
	for _, it := range b.items {
		if it.block != nil {
			p.paintBackgrounds(it.block)
		}
	}
}

func (p *painter) paintText(g *inlineGroup) {
	clip := p.dst.Rect
	for _, f := range g.fragments {
		r := f.rect.Add(p.origin)
		if !r.Overlaps(clip) {
			continue
		}
		c := f.color
		if f.anchor >= 0 && f.anchor == p.hovered {
			c = p.hover
		}
		d := font.Drawer{
			Dst:  p.dst,
			Src:  image.NewUniform(c),
			Face: p.face,
			Dot:  fixed.P(r.Min.X, f.baseline+p.origin.Y),
		}
		d.DrawString(f.text)
	}
}

func (p *painter) fill(r image.Rectangle, c graphics.Color, op draw.Op) {
	r = r.Intersect(p.dst.Rect)
	if r.Empty() {
		return
	}
	draw.Draw(p.dst, r, image.NewUniform(c), image.Point{}, op)
}
