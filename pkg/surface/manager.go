package surface

import "fmt"

// Manager owns the single surface of a view.
//
// Manager is not safe for concurrent use; it is driven from the host's UI
// loop like the view that owns it.
type Manager struct {
	alloc       Allocator
	current     *Surface
	allocations int
}

// NewManager returns a Manager using alloc, or a HeapAllocator when alloc
// is nil. No buffer is allocated until the first Ensure.
func NewManager(alloc Allocator) *Manager {
	if alloc == nil {
		alloc = HeapAllocator{}
	}
	return &Manager{alloc: alloc}
}

// Ensure returns a surface of exactly width x height.
//
// The current surface is returned unchanged when it already has those
// dimensions. Otherwise it is released and a new zeroed buffer is
// allocated. Non-positive dimensions return ErrInvalidDimensions and leave
// the current surface alone. On allocation failure the manager holds no
// surface and the caller skips the frame.
func (m *Manager) Ensure(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if m.current.Matches(width, height) {
		return m.current, nil
	}
	m.Release()
	img, err := m.alloc.Allocate(width, height)
	if err != nil {
		return nil, err
	}
	if img == nil || img.Rect.Dx() != width || img.Rect.Dy() != height {
		return nil, fmt.Errorf("%w: allocator returned wrong bounds for %dx%d", ErrAllocationFailed, width, height)
	}
	m.allocations++
	m.current = &Surface{img: img, format: FormatRGBA8888}
	return m.current, nil
}

// Current returns the live surface, or nil.
func (m *Manager) Current() *Surface {
	return m.current
}

// Allocations returns how many buffers have been allocated so far.
func (m *Manager) Allocations() int {
	return m.allocations
}

// Release drops the current buffer. It is safe to call repeatedly.
func (m *Manager) Release() {
	m.current = nil
}
