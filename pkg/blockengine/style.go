package blockengine

import (
	"strconv"
	"strings"

	"github.com/go-drift/htmlview/pkg/graphics"
)

// emSize is the pixel size of 1em. It matches the engine's default font
// size rather than the bitmap face height.
const emSize = 16

type display int

const (
	displayInline display = iota
	displayBlock
	displayNone
)

// edges holds per-side pixel lengths.
type edges struct {
	Top, Right, Bottom, Left int
}

// style is the computed style of one element.
type style struct {
	display    display
	margin     edges
	padding    edges
	background graphics.Color
	color      graphics.Color
	colorSet   bool
	height     int
}

// masterStylesheet holds the user agent declarations per tag.
var masterStylesheet = map[string]string{
	"html":       "display: block",
	"body":       "display: block; margin: 0",
	"head":       "display: none",
	"script":     "display: none",
	"style":      "display: none",
	"title":      "display: none",
	"meta":       "display: none",
	"link":       "display: none",
	"template":   "display: none",
	"div":        "display: block",
	"section":    "display: block",
	"article":    "display: block",
	"header":     "display: block",
	"footer":     "display: block",
	"nav":        "display: block",
	"main":       "display: block",
	"aside":      "display: block",
	"address":    "display: block",
	"figure":     "display: block; margin: 1em 40px",
	"p":          "display: block; margin: 1em 0",
	"pre":        "display: block; margin: 1em 0",
	"blockquote": "display: block; margin: 1em 40px",
	"ul":         "display: block; margin: 1em 0; padding: 0 0 0 40px",
	"ol":         "display: block; margin: 1em 0; padding: 0 0 0 40px",
	"li":         "display: block",
	"dl":         "display: block; margin: 1em 0",
	"dt":         "display: block",
	"dd":         "display: block; margin: 0 0 0 40px",
	"table":      "display: block",
	"tr":         "display: block",
	"form":       "display: block",
	"hr":         "display: block; margin: 0.5em 0; height: 1px; background-color: gray",
	"h1":         "display: block; margin: 0.67em 0",
	"h2":         "display: block; margin: 0.83em 0",
	"h3":         "display: block; margin: 1em 0",
	"h4":         "display: block; margin: 1.33em 0",
	"h5":         "display: block; margin: 1.67em 0",
	"h6":         "display: block; margin: 2.33em 0",
}

// stylesheet maps tag names to declaration blocks, applied in order.
type stylesheet []map[string]string

func userStylesheet(background graphics.Color) map[string]string {
	return map[string]string{
		"body": "background-color: " + background.Hex(),
	}
}

// compute resolves the style for an element with the given tag and inline
// style attribute. Color inherits from parent; nothing else does.
func (ss stylesheet) compute(tag, inline string, parent style) style {
	st := style{display: displayInline, color: parent.color}
	for _, sheet := range ss {
		if decls, ok := sheet[tag]; ok {
			applyDeclarations(&st, decls)
		}
	}
	applyDeclarations(&st, inline)
	return st
}

// applyDeclarations applies a semicolon separated declaration list.
// Unknown properties and malformed values are ignored.
func applyDeclarations(st *style, decls string) {
	for decl := range strings.SplitSeq(decls, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		switch name {
		case "display":
			switch strings.ToLower(value) {
			case "block", "list-item", "flex", "grid", "table":
				st.display = displayBlock
			case "none":
				st.display = displayNone
			case "inline", "inline-block":
				st.display = displayInline
			}
		case "background-color", "background":
			if c, ok := parseBackground(value); ok {
				st.background = c
			}
		case "color":
			if c, ok := graphics.ParseColor(value); ok {
				st.color = c
				st.colorSet = true
			}
		case "margin":
			if e, ok := parseEdges(value); ok {
				st.margin = e
			}
		case "padding":
			if e, ok := parseEdges(value); ok {
				st.padding = e
			}
		case "margin-top", "margin-right", "margin-bottom", "margin-left":
			if n, ok := parseLength(value); ok {
				setSide(&st.margin, strings.TrimPrefix(name, "margin-"), n)
			}
		case "padding-top", "padding-right", "padding-bottom", "padding-left":
			if n, ok := parseLength(value); ok {
				setSide(&st.padding, strings.TrimPrefix(name, "padding-"), max(n, 0))
			}
		case "height":
			if n, ok := parseLength(value); ok {
				st.height = max(n, 0)
			}
		}
	}
}

// parseBackground accepts a bare color or a shorthand whose first color
// token is used.
func parseBackground(value string) (graphics.Color, bool) {
	for tok := range strings.FieldsSeq(value) {
		if c, ok := graphics.ParseColor(tok); ok {
			return c, true
		}
	}
	return 0, false
}

func setSide(e *edges, side string, n int) {
	switch side {
	case "top":
		e.Top = n
	case "right":
		e.Right = n
	case "bottom":
		e.Bottom = n
	case "left":
		e.Left = n
	}
}

// parseEdges parses the one to four value box shorthand.
func parseEdges(value string) (edges, bool) {
	fields := strings.Fields(value)
	if len(fields) == 0 || len(fields) > 4 {
		return edges{}, false
	}
	v := make([]int, len(fields))
	for i, f := range fields {
		n, ok := parseLength(f)
		if !ok {
			return edges{}, false
		}
		v[i] = n
	}
	switch len(v) {
	case 1:
		return edges{v[0], v[0], v[0], v[0]}, true
	case 2:
		return edges{v[0], v[1], v[0], v[1]}, true
	case 3:
		return edges{v[0], v[1], v[2], v[1]}, true
	default:
		return edges{v[0], v[1], v[2], v[3]}, true
	}
}

// parseLength converts px, em and unitless lengths to whole pixels.
// auto resolves to zero.
func parseLength(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "auto" || s == "0" {
		return 0, true
	}
	scale := 1.0
	switch {
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "rem"):
		s = strings.TrimSuffix(s, "rem")
		scale = emSize
	case strings.HasSuffix(s, "em"):
		s = strings.TrimSuffix(s, "em")
		scale = emSize
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f*scale + 0.5*sign(f)), true
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}
