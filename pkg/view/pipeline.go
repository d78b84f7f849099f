package view

// Scheduler receives deferred layout and paint requests from views.
//
// A view never measures or draws itself in response to a document change,
// resize or pointer event. It marks itself dirty and asks the scheduler to
// run the work on the next frame.
type Scheduler interface {
	// ScheduleLayout requests a layout pass followed by a paint pass.
	ScheduleLayout(v *View)
	// SchedulePaint requests a paint pass.
	SchedulePaint(v *View)
}

// PipelineOwner tracks views that need layout or paint.
//
// The typical frame sequence run by the host is:
//  1. FlushLayout - measure each returned view, then OnResize with the result
//  2. FlushPaint - draw each returned view
//
// Both lists are deduplicated and returned in scheduling order.
type PipelineOwner struct {
	dirtyLayout    []*View
	dirtyLayoutSet map[*View]bool
	dirtyPaint     []*View
	dirtyPaintSet  map[*View]bool
	needsLayout    bool
	needsPaint     bool
}

// ScheduleLayout marks a view as needing layout. Layout implies paint.
func (p *PipelineOwner) ScheduleLayout(v *View) {
	if p.dirtyLayoutSet == nil {
		p.dirtyLayoutSet = make(map[*View]bool)
	}
	p.needsLayout = true
	p.SchedulePaint(v)
	if p.dirtyLayoutSet[v] {
		return
	}
	p.dirtyLayoutSet[v] = true
	p.dirtyLayout = append(p.dirtyLayout, v)
}

// SchedulePaint marks a view as needing paint.
func (p *PipelineOwner) SchedulePaint(v *View) {
	if p.dirtyPaintSet == nil {
		p.dirtyPaintSet = make(map[*View]bool)
	}
	p.needsPaint = true
	if p.dirtyPaintSet[v] {
		return
	}
	p.dirtyPaintSet[v] = true
	p.dirtyPaint = append(p.dirtyPaint, v)
}

// NeedsLayout reports if any views need layout.
func (p *PipelineOwner) NeedsLayout() bool {
	return p.needsLayout
}

// NeedsPaint reports if any views need paint.
func (p *PipelineOwner) NeedsPaint() bool {
	return p.needsPaint
}

// FlushLayout returns the views needing layout and clears the list.
// Released views are skipped.
func (p *PipelineOwner) FlushLayout() []*View {
	dirty := p.dirtyLayout
	p.dirtyLayout = nil
	p.dirtyLayoutSet = nil
	p.needsLayout = false
	return live(dirty)
}

// FlushPaint returns the views needing paint and clears the list.
// Released views are skipped.
func (p *PipelineOwner) FlushPaint() []*View {
	dirty := p.dirtyPaint
	p.dirtyPaint = nil
	p.dirtyPaintSet = nil
	p.needsPaint = false
	return live(dirty)
}

func live(views []*View) []*View {
	result := views[:0]
	for _, v := range views {
		if v != nil && !v.Released() {
			result = append(result, v)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
