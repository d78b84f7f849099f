package blockengine

import (
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/go-drift/htmlview/pkg/graphics"
)

// box is a block-level element. Its items are block children and runs of
// inline content, in document order.
type box struct {
	style style
	items []item
	// rect is the border box after layout.
	rect image.Rectangle
}

// item is either a block child or an inline group.
type item struct {
	block  *box
	inline *inlineGroup
}

// inlineGroup is a sequence of words flowed into line boxes.
type inlineGroup struct {
	runs      []run
	fragments []fragment
}

// run is one word of text, or a forced line break.
type run struct {
	text        string
	spaceBefore bool
	lineBreak   bool
	color       graphics.Color
	anchor      int
}

// fragment is a placed word.
type fragment struct {
	text     string
	rect     image.Rectangle
	baseline int
	color    graphics.Color
	anchor   int
}

// document is the laid-out result of one markup string at one width.
type document struct {
	markup  string
	width   int
	root    *box
	anchors []string
	height  int
}

// builder converts a parsed tree into boxes.
type builder struct {
	sheets  stylesheet
	link    graphics.Color
	anchors []string
}

// inlineContext carries inherited inline state while walking text.
type inlineContext struct {
	style  style
	anchor int
	// pendingSpace is set when the previous text ended in whitespace.
	pendingSpace *bool
}

func (b *builder) build(doc *html.Node, base style) *box {
	root := findElement(doc, atom.Html)
	if root == nil {
		root = doc
	}
	rb := &box{style: b.sheets.compute("html", attr(root, "style"), base)}
	rb.style.display = displayBlock
	space := false
	b.collect(rb, root, inlineContext{style: rb.style, anchor: -1, pendingSpace: &space})
	return rb
}

// collect appends the content of n's children to parent.
func (b *builder) collect(parent *box, n *html.Node, ctx inlineContext) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.appendText(parent, c.Data, ctx)
		case html.ElementNode:
			b.collectElement(parent, c, ctx)
		}
	}
}

func (b *builder) collectElement(parent *box, n *html.Node, ctx inlineContext) {
	tag := strings.ToLower(n.Data)
	st := b.sheets.compute(tag, attr(n, "style"), ctx.style)
	switch st.display {
	case displayNone:
		return
	case displayBlock:
		child := &box{style: st}
		parent.items = append(parent.items, item{block: child})
		space := false
		b.collect(child, n, inlineContext{style: st, anchor: ctx.anchor, pendingSpace: &space})
		*ctx.pendingSpace = false
		return
	}

	if n.DataAtom == atom.Br {
		g := lastGroup(parent)
		g.runs = append(g.runs, run{lineBreak: true})
		*ctx.pendingSpace = false
		return
	}
	inner := ctx
	inner.style = st
	if n.DataAtom == atom.A {
		if href, ok := lookupAttr(n, "href"); ok {
			inner.anchor = len(b.anchors)
			b.anchors = append(b.anchors, href)
			if !st.colorSet {
				inner.style.color = b.link
			}
		}
	}
	b.collect(parent, n, inner)
}

func (b *builder) appendText(parent *box, text string, ctx inlineContext) {
	words := strings.Fields(text)
	if len(words) == 0 {
		if text != "" {
			*ctx.pendingSpace = true
		}
		return
	}
	g := lastGroup(parent)
	leading := isSpace(text[0])
	for i, w := range words {
		g.runs = append(g.runs, run{
			text:        w,
			spaceBefore: i > 0 || leading || *ctx.pendingSpace,
			color:       ctx.style.color,
			anchor:      ctx.anchor,
		})
	}
	*ctx.pendingSpace = isSpace(text[len(text)-1])
}

// lastGroup returns the trailing inline group of parent, adding one if
// the last item is a block.
func lastGroup(parent *box) *inlineGroup {
	if n := len(parent.items); n > 0 && parent.items[n-1].inline != nil {
		return parent.items[n-1].inline
	}
	g := &inlineGroup{}
	parent.items = append(parent.items, item{inline: g})
	return g
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

// metrics are the face measurements used by line layout.
type metrics struct {
	face       font.Face
	lineHeight int
	ascent     int
	space      int
}

func newMetrics(face font.Face) metrics {
	m := face.Metrics()
	return metrics{
		face:       face,
		lineHeight: max(m.Height.Ceil(), 1),
		ascent:     m.Ascent.Ceil(),
		space:      font.MeasureString(face, " ").Ceil(),
	}
}

// layout positions b with the top-left of its margin box at (x, y) in a
// containing block of the given width. It returns the margin box height.
func (m metrics) layout(b *box, x, y, width int) int {
	st := b.style
	x0 := x + st.margin.Left
	y0 := y + st.margin.Top
	bw := max(width-st.margin.Left-st.margin.Right, 0)
	cx := x0 + st.padding.Left
	cy := y0 + st.padding.Top
	cw := max(bw-st.padding.Left-st.padding.Right, 0)

	cursor := cy
	prevMargin := 0
	for _, it := range b.items {
		if it.inline != nil {
			cursor += m.flow(it.inline, cx, cursor, cw)
			prevMargin = 0
			continue
		}
		child := it.block
		// Adjacent vertical margins collapse to the larger one.
		overlap := 0
		if prevMargin > 0 && child.style.margin.Top > 0 {
			overlap = min(prevMargin, child.style.margin.Top)
		}
		top := cursor - overlap
		cursor = top + m.layout(child, cx, top, cw)
		prevMargin = child.style.margin.Bottom
	}

	contentHeight := cursor - cy
	if st.height > 0 {
		contentHeight = st.height
	}
	b.rect = image.Rect(x0, y0, x0+bw, y0+st.padding.Top+contentHeight+st.padding.Bottom)
	return max(b.rect.Dy()+st.margin.Top+st.margin.Bottom, 0)
}

// flow breaks g's runs into lines of at most width pixels starting at
// (x, y) and returns the height used. A word wider than the line is
// placed alone and overflows.
func (m metrics) flow(g *inlineGroup, x, y, width int) int {
	g.fragments = g.fragments[:0]
	if len(g.runs) == 0 {
		return 0
	}
	lines := 1
	pen := 0
	for _, r := range g.runs {
		if r.lineBreak {
			lines++
			pen = 0
			continue
		}
		w := font.MeasureString(m.face, r.text).Ceil()
		gap := 0
		if pen > 0 && r.spaceBefore {
			gap = m.space
		}
		if pen > 0 && pen+gap+w > width {
			lines++
			pen, gap = 0, 0
		}
		top := y + (lines-1)*m.lineHeight
		left := x + pen + gap
		g.fragments = append(g.fragments, fragment{
			text:     r.text,
			rect:     image.Rect(left, top, left+w, top+m.lineHeight),
			baseline: top + m.ascent,
			color:    r.color,
			anchor:   r.anchor,
		})
		pen += gap + w
	}
	return lines * m.lineHeight
}

// anchorAt returns the index of the anchor under (x, y), or -1.
func (d *document) anchorAt(x, y int) int {
	if d == nil {
		return -1
	}
	p := image.Pt(x, y)
	hit := -1
	d.walk(func(g *inlineGroup) bool {
		for _, f := range g.fragments {
			if f.anchor >= 0 && p.In(f.rect) {
				hit = f.anchor
				return false
			}
		}
		return true
	})
	return hit
}

// walk visits inline groups in document order until fn returns false.
func (d *document) walk(fn func(*inlineGroup) bool) {
	var visit func(b *box) bool
	visit = func(b *box) bool {
		for _, it := range b.items {
			if it.inline != nil {
				if !fn(it.inline) {
					return false
				}
				continue
			}
			if !visit(it.block) {
				return false
			}
		}
		return true
	}
	visit(d.root)
}
