// Package surface manages the pixel buffer an engine paints into and a
// view blits to its canvas.
//
// A [Manager] owns at most one [Surface]. It reuses the buffer while the
// requested dimensions stay the same and reallocates it only when they
// change.
package surface

import (
	stderrors "errors"
	"fmt"
	"image"
)

var (
	// ErrInvalidDimensions is returned for non-positive widths or heights.
	// Callers treat it as "not ready yet" rather than a failure.
	ErrInvalidDimensions = stderrors.New("surface: invalid dimensions")

	// ErrAllocationFailed is returned when a buffer cannot be created.
	ErrAllocationFailed = stderrors.New("surface: allocation failed")
)

// Format describes the pixel layout of a surface.
type Format int

const (
	// FormatRGBA8888 stores four bytes per pixel, non-premultiplied order
	// R, G, B, A as in image.RGBA.
	FormatRGBA8888 Format = iota
)

// String returns a human-readable representation of the format.
func (f Format) String() string {
	switch f {
	case FormatRGBA8888:
		return "rgba8888"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Surface is a mutable pixel buffer with fixed dimensions.
type Surface struct {
	img    *image.RGBA
	format Format
}

// Width returns the width in pixels.
func (s *Surface) Width() int {
	return s.img.Rect.Dx()
}

// Height returns the height in pixels.
func (s *Surface) Height() int {
	return s.img.Rect.Dy()
}

// Format returns the pixel format.
func (s *Surface) Format() Format {
	return s.format
}

// RGBA returns the backing image. The engine paints into it directly.
func (s *Surface) RGBA() *image.RGBA {
	return s.img
}

// Matches reports whether the surface has exactly the given dimensions.
func (s *Surface) Matches(width, height int) bool {
	return s != nil && s.img != nil && s.Width() == width && s.Height() == height
}

// Allocator creates zeroed RGBA buffers.
type Allocator interface {
	Allocate(width, height int) (*image.RGBA, error)
}

// AllocatorFunc adapts a function to the Allocator interface.
type AllocatorFunc func(width, height int) (*image.RGBA, error)

// Allocate calls f(width, height).
func (f AllocatorFunc) Allocate(width, height int) (*image.RGBA, error) {
	return f(width, height)
}

// defaultMaxPixels caps a single surface at 64 Mi pixels (256 MiB).
const defaultMaxPixels = 64 << 20

// HeapAllocator allocates buffers on the Go heap.
type HeapAllocator struct {
	// MaxPixels bounds width*height. Zero selects 64 Mi pixels.
	MaxPixels int
}

// Allocate returns a new zeroed buffer or an error wrapping
// ErrInvalidDimensions or ErrAllocationFailed.
func (a HeapAllocator) Allocate(width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	limit := a.MaxPixels
	if limit <= 0 {
		limit = defaultMaxPixels
	}
	if width > limit/height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrAllocationFailed, width, height, limit)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}
