// Package testing provides test doubles and helpers for code built on
// htmlview.
//
// # Doubles
//
// [FakeBridge] is a scriptable engine session that records every call,
// [CountingAllocator] counts pixel buffer allocations, and
// [RecordingScheduler] and [RecordingCanvas] capture what a view asks its
// host to do:
//
//	engine := &viewtest.FakeBridge{ContentHeight: 80}
//	sched := &viewtest.RecordingScheduler{}
//	v := view.New(engine, view.WithScheduler(sched))
//	v.LoadDocument("<p>hi</p>")
//	v.Measure(300, 0, 50)
//	if len(engine.Renders) != 1 { ... }
//
// # Gestures
//
// [Tap], [Drag] and [Hover] send pointer sequences to a view.
//
// # Golden Images
//
// Compare rendered frames against PNG files:
//
//	viewtest.MatchesGolden(t, canvas.Image(), "testdata/hello.png")
//
// Update golden files with:
//
//	HTMLVIEW_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import viewtest "github.com/go-drift/htmlview/pkg/testing"
package testing
