package view

import (
	stderrors "errors"
	"strings"

	"github.com/go-drift/htmlview/pkg/bridge"
	"github.com/go-drift/htmlview/pkg/errors"
	"github.com/go-drift/htmlview/pkg/graphics"
	"github.com/go-drift/htmlview/pkg/input"
	"github.com/go-drift/htmlview/pkg/surface"
)

// Metrics is the result of the last layout pass.
type Metrics struct {
	// MeasuredWidth is the width the document was laid out for.
	MeasuredWidth int
	// ComputedHeight is the engine-computed content height at that width.
	ComputedHeight int
}

// Option configures a View.
type Option func(*View)

// WithScheduler sets the receiver of deferred layout and paint requests.
func WithScheduler(s Scheduler) Option {
	return func(v *View) { v.scheduler = s }
}

// WithAllocator sets the pixel buffer allocator.
func WithAllocator(a surface.Allocator) Option {
	return func(v *View) { v.surfaces = surface.NewManager(a) }
}

// WithMapper sets the pointer coordinate mapper. The default is
// input.Identity.
func WithMapper(m input.Mapper) Option {
	return func(v *View) {
		if m != nil {
			v.mapper = m
		}
	}
}

// WithMinimumHeight sets a floor applied to every measured height, in
// addition to the minimum passed to Measure.
func WithMinimumHeight(h int) Option {
	return func(v *View) { v.minHeight = max(h, 0) }
}

// View renders a markup document through an engine session into a pixel
// surface.
type View struct {
	session   *bridge.Guard
	surfaces  *surface.Manager
	mapper    input.Mapper
	scheduler Scheduler

	markup     string
	width      int // content width used for rendering
	viewHeight int // visible height assigned by OnResize
	minHeight  int

	metrics      Metrics
	metricsValid bool

	needsLayout bool
	needsPaint  bool
	released    bool
}

// New creates a View that owns the engine session b for its lifetime.
// Release must be called when the view is destroyed.
func New(b bridge.Bridge, opts ...Option) *View {
	v := &View{
		session:  bridge.NewGuard(b),
		surfaces: surface.NewManager(nil),
		mapper:   input.Identity,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// LoadDocument replaces the document and requests a fresh layout and paint.
// Nothing is rendered until the host runs the next frame.
func (v *View) LoadDocument(markup string) {
	if v.released {
		return
	}
	v.markup = markup
	v.metricsValid = false
	v.markNeedsLayout()
}

// Measure lays the document out for candidateWidth and returns the view
// size: the candidate width and the content height, falling back to
// candidateHeight when the engine reports none, and never less than
// minimumHeight.
//
// A non-positive width or a blank document means the view is not ready;
// the candidate size is returned unchanged and the engine is not called.
func (v *View) Measure(candidateWidth, candidateHeight, minimumHeight int) (width, height int) {
	if v.released || candidateWidth <= 0 || strings.TrimSpace(v.markup) == "" {
		return candidateWidth, candidateHeight
	}
	floor := max(minimumHeight, v.minHeight)
	if v.session.InCall() {
		v.markNeedsLayout()
		return candidateWidth, max(candidateHeight, floor)
	}

	v.needsLayout = false
	if candidateWidth != v.metrics.MeasuredWidth {
		v.metricsValid = false
	}
	v.width = candidateWidth

	// The first render only yields the content height, so a one pixel
	// tall buffer is enough unless one of the right width already exists.
	provisional := 1
	if cur := v.surfaces.Current(); cur != nil && cur.Width() == candidateWidth {
		provisional = cur.Height()
	}
	s, err := v.surfaces.Ensure(candidateWidth, provisional)
	if err != nil {
		v.reportSurface("view.Measure", err, candidateWidth, provisional)
		return candidateWidth, max(candidateHeight, floor)
	}
	markup := v.markup
	computed, err := v.session.RenderInto(markup, candidateWidth, s.RGBA())
	if err != nil {
		v.reportEngine("view.Measure", err)
		return candidateWidth, max(candidateHeight, floor)
	}
	if v.markup != markup {
		// Replaced mid-render; the new document's layout is already pending.
		return candidateWidth, max(candidateHeight, floor)
	}
	v.setMetrics(candidateWidth, computed)

	height = candidateHeight
	if v.metrics.ComputedHeight > 0 {
		height = v.metrics.ComputedHeight
	}
	return candidateWidth, max(height, floor)
}

// OnResize records the size assigned by the host.
//
// Non-positive dimensions release the surface. Otherwise the surface is
// reconciled to the new width and the taller of the new height and the
// content height, and a paint is requested. A resize arriving during an
// engine call is dropped in favor of a new layout pass.
func (v *View) OnResize(width, height int) {
	if v.released {
		return
	}
	if v.session.InCall() {
		// The engine may still be painting into the current surface. The
		// next layout pass resizes again.
		v.markNeedsLayout()
		return
	}
	if width <= 0 || height <= 0 {
		v.surfaces.Release()
		v.width = 0
		v.viewHeight = 0
		v.metricsValid = false
		return
	}
	if width != v.metrics.MeasuredWidth {
		v.metricsValid = false
	}
	v.width = width
	v.viewHeight = height
	target := max(height, v.metrics.ComputedHeight)
	if _, err := v.surfaces.Ensure(width, target); err != nil {
		v.reportSurface("view.OnResize", err, width, target)
	}
	v.markNeedsPaint()
}

// Draw renders the document at the current size and blits the surface to
// c at the origin. The engine is invoked on every call; it is responsible
// for any internal diffing.
func (v *View) Draw(c Canvas) {
	if v.released || v.width <= 0 || c == nil {
		return
	}
	if v.session.InCall() {
		v.markNeedsPaint()
		return
	}
	v.needsPaint = false

	height := max(v.metrics.ComputedHeight, v.viewHeight)
	if height <= 0 {
		return
	}
	s, err := v.surfaces.Ensure(v.width, height)
	if err != nil {
		v.reportSurface("view.Draw", err, v.width, height)
		return
	}
	markup := v.markup
	computed, err := v.session.RenderInto(markup, v.width, s.RGBA())
	if err != nil {
		// Leave whatever the canvas shows now in place.
		v.reportEngine("view.Draw", err)
		return
	}
	if v.markup == markup {
		if max(computed, 0) != v.metrics.ComputedHeight {
			v.markNeedsLayout()
		}
		v.setMetrics(v.width, computed)
	}
	c.DrawImage(s.RGBA(), graphics.Offset{})
}

// OnPointerEvent forwards a pointer event to the engine and requests a
// paint. It reports whether the event was consumed; phases the engine does
// not handle, such as cancel, are not.
func (v *View) OnPointerEvent(event input.PointerEvent) bool {
	if v.released {
		return false
	}
	ev, ok := v.mapper.Map(event)
	if !ok {
		return false
	}
	if err := v.session.DispatchPointer(ev.Kind, ev.X, ev.Y); err != nil {
		v.reportEngine("view.OnPointerEvent", err)
	}
	// The engine does not say whether hover or focus changed, so always
	// repaint.
	v.markNeedsPaint()
	return true
}

// Release frees the surface and then the engine session. It is idempotent;
// every other method is a no-op afterwards.
func (v *View) Release() {
	if v.released {
		return
	}
	v.released = true
	v.needsLayout = false
	v.needsPaint = false
	v.surfaces.Release()
	v.session.Release()
}

// Released reports whether Release has been called.
func (v *View) Released() bool {
	return v.released
}

// Document returns the current markup.
func (v *View) Document() string {
	return v.markup
}

// Metrics returns the last layout metrics and whether they are still
// valid for the current document and width.
func (v *View) Metrics() (Metrics, bool) {
	return v.metrics, v.metricsValid
}

// Size returns the content width and the visible height.
func (v *View) Size() (width, height int) {
	return v.width, v.viewHeight
}

// Surface returns the current pixel surface, or nil.
func (v *View) Surface() *surface.Surface {
	return v.surfaces.Current()
}

// SurfaceAllocations returns how many pixel buffers the view has allocated.
func (v *View) SurfaceAllocations() int {
	return v.surfaces.Allocations()
}

// NeedsLayout reports whether a layout pass is pending.
func (v *View) NeedsLayout() bool {
	return v.needsLayout
}

// NeedsPaint reports whether a paint pass is pending.
func (v *View) NeedsPaint() bool {
	return v.needsPaint
}

func (v *View) setMetrics(width, computed int) {
	v.metrics = Metrics{MeasuredWidth: width, ComputedHeight: max(computed, 0)}
	v.metricsValid = true
}

func (v *View) markNeedsLayout() {
	v.needsLayout = true
	v.needsPaint = true
	if v.scheduler != nil {
		v.scheduler.ScheduleLayout(v)
	}
}

func (v *View) markNeedsPaint() {
	v.needsPaint = true
	if v.scheduler != nil {
		v.scheduler.SchedulePaint(v)
	}
}

func (v *View) reportSurface(op string, err error, width, height int) {
	if stderrors.Is(err, surface.ErrInvalidDimensions) {
		return
	}
	errors.Report(&errors.ViewError{
		Op:     op,
		Kind:   errors.KindAllocation,
		Err:    err,
		Width:  width,
		Height: height,
	})
}

func (v *View) reportEngine(op string, err error) {
	kind := errors.KindEngine
	var viewErr *errors.ViewError
	if stderrors.As(err, &viewErr) {
		kind = viewErr.Kind
	}
	errors.Report(&errors.ViewError{Op: op, Kind: kind, Err: err})
}
