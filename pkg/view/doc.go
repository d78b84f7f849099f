// Package view implements the controller that lays out, paints and feeds
// input to an HTML document rendered by an external engine.
//
// # Frame Cycle
//
// A [View] is driven by a host event loop through four entry points:
//
//	w, h := v.Measure(availableWidth, availableHeight, minHeight) // layout pass
//	v.OnResize(w, h)                                             // size assigned
//	v.Draw(canvas)                                               // paint pass
//	v.OnPointerEvent(ev)                                         // input dispatch
//
// Document loads, resizes and pointer events never render synchronously.
// They mark the view dirty and notify its [Scheduler]; the host then runs
// the next layout or paint pass. [PipelineOwner] is a ready-made
// scheduler that collects dirty views for the host loop.
//
// # Surfaces
//
// The engine paints into a pixel buffer owned by the view. The buffer is
// reused across frames and only reallocated when the requested width or
// height changes. Measuring renders once into a provisional buffer just to
// learn the content height; drawing renders again at the final size and
// blits the buffer to the canvas at the origin.
//
// # Errors
//
// Allocation and engine failures are reported through
// [github.com/go-drift/htmlview/pkg/errors] and never returned to the host.
// A failed frame is skipped and the previous frame stays on screen.
//
// A View is not safe for concurrent use.
package view
