// Package blockengine is a small block-layout markup engine that
// implements bridge.Bridge.
//
// It understands enough HTML and CSS to render simple documents: block and
// inline flow, margins, paddings, backgrounds, text color, explicit heights
// and links. Text is drawn with a fixed bitmap face by default.
package blockengine

import (
	stderrors "errors"
	"fmt"
	"image"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/net/html"

	"github.com/go-drift/htmlview/pkg/bridge"
	"github.com/go-drift/htmlview/pkg/graphics"
)

// Version is the engine version checked against configuration pins.
const Version = "v0.1.0"

// DefaultCacheSize is the number of parsed documents kept per session.
const DefaultCacheSize = 16

// Default colors.
const (
	DefaultBackground = graphics.Color(0xFFF0F0F0)
	DefaultColor      = graphics.ColorBlack
	DefaultLinkColor  = graphics.Color(0xFF0000EE)
	DefaultHoverColor = graphics.Color(0xFFCC0000)
)

var (
	// ErrReleased is returned by calls made after ReleaseSession.
	ErrReleased = stderrors.New("blockengine: session released")
	// ErrInvalidTarget is returned for a nil target or non-positive width.
	ErrInvalidTarget = stderrors.New("blockengine: invalid render target")
	// ErrUnknownPointer is returned for pointer kinds outside down, up and move.
	ErrUnknownPointer = stderrors.New("blockengine: unknown pointer kind")
)

// Options configures a Session. Zero values select the defaults.
type Options struct {
	// Background is the body background from the user stylesheet.
	Background graphics.Color
	// Color is the initial text color.
	Color graphics.Color
	// LinkColor is the text color of anchors without an explicit color.
	LinkColor graphics.Color
	// HoverColor is the text color of the anchor under the pointer.
	HoverColor graphics.Color
	// CacheSize bounds the parsed document cache.
	CacheSize int
	// Face is used to measure and draw text.
	Face font.Face
	// OnAnchorClick is called when a press and release land on the same
	// anchor.
	OnAnchorClick func(href string)
}

// WithDefaults returns o with every zero field replaced by its default.
func (o Options) WithDefaults() Options {
	if o.Background == 0 {
		o.Background = DefaultBackground
	}
	if o.Color == 0 {
		o.Color = DefaultColor
	}
	if o.LinkColor == 0 {
		o.LinkColor = DefaultLinkColor
	}
	if o.HoverColor == 0 {
		o.HoverColor = DefaultHoverColor
	}
	if o.CacheSize <= 0 {
		o.CacheSize = DefaultCacheSize
	}
	if o.Face == nil {
		o.Face = basicfont.Face7x13
	}
	return o
}

// Session is one engine instance bound to a single view. It is not safe
// for concurrent use.
type Session struct {
	opts     Options
	sheets   stylesheet
	metrics  metrics
	parsed   *lru.Cache[string, *html.Node]
	doc      *document
	height   int
	hovered  int
	pressed  int
	released bool
}

var _ bridge.Bridge = (*Session)(nil)

// New creates a Session.
func New(opts Options) *Session {
	opts = opts.WithDefaults()
	parsed, _ := lru.New[string, *html.Node](opts.CacheSize)
	return &Session{
		opts:    opts,
		sheets:  stylesheet{masterStylesheet, userStylesheet(opts.Background)},
		metrics: newMetrics(opts.Face),
		parsed:  parsed,
		hovered: -1,
		pressed: -1,
	}
}

// RenderInto lays markup out at width and paints it into target. Content
// below the target is laid out but clipped.
func (s *Session) RenderInto(markup string, width int, target *image.RGBA) error {
	if s.released {
		return ErrReleased
	}
	if target == nil || width <= 0 {
		return fmt.Errorf("%w: width %d", ErrInvalidTarget, width)
	}
	doc, err := s.layout(markup, width)
	if err != nil {
		return err
	}
	s.height = doc.height
	p := &painter{
		dst:     target,
		origin:  target.Rect.Min,
		face:    s.opts.Face,
		hovered: s.hovered,
		hover:   s.opts.HoverColor,
	}
	p.paint(doc, s.opts.Background)
	return nil
}

// ComputedContentHeight returns the content height of the last render.
func (s *Session) ComputedContentHeight() int {
	return s.height
}

// DispatchPointer updates hover and press state from a pointer event in
// document coordinates.
func (s *Session) DispatchPointer(kind bridge.PointerKind, x, y int) error {
	if s.released {
		return ErrReleased
	}
	hit := s.doc.anchorAt(x, y)
	switch kind {
	case bridge.PointerMove:
		s.hovered = hit
	case bridge.PointerDown:
		s.hovered = hit
		s.pressed = hit
	case bridge.PointerUp:
		pressed := s.pressed
		s.pressed = -1
		if hit >= 0 && hit == pressed && s.opts.OnAnchorClick != nil {
			s.opts.OnAnchorClick(s.doc.anchors[hit])
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownPointer, int(kind))
	}
	return nil
}

// ReleaseSession drops the document and purges the parse cache.
func (s *Session) ReleaseSession() {
	if s.released {
		return
	}
	s.released = true
	s.parsed.Purge()
	s.doc = nil
	s.height = 0
}

// HoveredAnchor returns the href of the anchor under the pointer.
func (s *Session) HoveredAnchor() (string, bool) {
	if s.doc == nil || s.hovered < 0 {
		return "", false
	}
	return s.doc.anchors[s.hovered], true
}

// CachedDocuments returns the number of parsed documents in the cache.
func (s *Session) CachedDocuments() int {
	return s.parsed.Len()
}

// layout returns the document for markup at width, reusing the previous
// layout when neither changed.
func (s *Session) layout(markup string, width int) (*document, error) {
	if s.doc != nil && s.doc.markup == markup && s.doc.width == width {
		return s.doc, nil
	}
	tree, err := s.parse(markup)
	if err != nil {
		return nil, err
	}
	b := &builder{sheets: s.sheets, link: s.opts.LinkColor}
	root := b.build(tree, style{color: s.opts.Color})
	doc := &document{
		markup:  markup,
		width:   width,
		root:    root,
		anchors: b.anchors,
	}
	doc.height = s.metrics.layout(root, 0, 0, width)

	if s.doc == nil || s.doc.markup != markup {
		s.hovered = -1
		s.pressed = -1
	}
	s.doc = doc
	return doc, nil
}

func (s *Session) parse(markup string) (*html.Node, error) {
	if tree, ok := s.parsed.Get(markup); ok {
		return tree, nil
	}
	tree, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("blockengine: parse: %w", err)
	}
	s.parsed.Add(markup, tree)
	return tree, nil
}
