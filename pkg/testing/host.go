package testing

import (
	"image"

	"github.com/go-drift/htmlview/pkg/graphics"
	"github.com/go-drift/htmlview/pkg/surface"
	"github.com/go-drift/htmlview/pkg/view"
)

// CountingAllocator records allocation requests and delegates to a
// surface.HeapAllocator.
type CountingAllocator struct {
	// Fail makes every allocation fail with surface.ErrAllocationFailed.
	Fail bool
	// Requests holds the requested dimensions, one entry per allocation.
	Requests []image.Point
}

// Allocate implements surface.Allocator.
func (a *CountingAllocator) Allocate(width, height int) (*image.RGBA, error) {
	a.Requests = append(a.Requests, image.Pt(width, height))
	if a.Fail {
		return nil, surface.ErrAllocationFailed
	}
	return surface.HeapAllocator{}.Allocate(width, height)
}

// Count returns the number of allocation requests.
func (a *CountingAllocator) Count() int {
	return len(a.Requests)
}

// RecordingScheduler counts deferred requests without deduplicating them.
type RecordingScheduler struct {
	Layouts int
	Paints  int
}

var _ view.Scheduler = (*RecordingScheduler)(nil)

// ScheduleLayout implements view.Scheduler.
func (s *RecordingScheduler) ScheduleLayout(*view.View) {
	s.Layouts++
}

// SchedulePaint implements view.Scheduler.
func (s *RecordingScheduler) SchedulePaint(*view.View) {
	s.Paints++
}

// Reset zeroes the counters.
func (s *RecordingScheduler) Reset() {
	s.Layouts, s.Paints = 0, 0
}

// DrawCall records one Canvas.DrawImage call.
type DrawCall struct {
	Bounds   image.Rectangle
	Position graphics.Offset
}

// RecordingCanvas records DrawImage calls and optionally forwards them.
type RecordingCanvas struct {
	// Target receives the draws when non-nil.
	Target view.Canvas
	Draws  []DrawCall
}

var _ view.Canvas = (*RecordingCanvas)(nil)

// DrawImage implements view.Canvas.
func (c *RecordingCanvas) DrawImage(img image.Image, position graphics.Offset) {
	c.Draws = append(c.Draws, DrawCall{Bounds: img.Bounds(), Position: position})
	if c.Target != nil {
		c.Target.DrawImage(img, position)
	}
}

// Size implements view.Canvas.
func (c *RecordingCanvas) Size() graphics.Size {
	if c.Target != nil {
		return c.Target.Size()
	}
	return graphics.Size{}
}
