// Package buffer implements the reusable packet buffer shared by all
// protocol composers.
//
// A Manager owns one grow-only byte region. Composers request the exact
// number of bytes they are about to write; the region is reused across
// compositions so that flood-rate packet building does not allocate per
// packet. The region never shrinks, which keeps previously returned
// slices addressable when a later request is smaller.
package buffer

const minCapacity = 512

// Manager owns a single reusable byte region.
//
// A Manager is not safe for concurrent use: growth may relocate the
// backing array, invalidating slices held by other goroutines. Drivers
// that compose packets from multiple goroutines must give each one its
// own Manager.
type Manager struct {
	buf []byte
}

// NewManager returns an empty Manager. The backing region is allocated
// lazily on the first Ensure call.
func NewManager() *Manager {
	return &Manager{}
}

// Ensure returns a slice of exactly n bytes backed by the shared region,
// growing it if needed. Newly exposed space is zero-filled by the runtime,
// but bytes covered by a previous composition keep their old content, so
// callers must treat all n bytes as write-before-read.
//
// Growth may relocate the backing array; callers must re-fetch the slice
// on every composition instead of caching it. A shrinking request never
// reallocates and never invalidates prior slices.
//
// Allocation failure is fatal: like any Go allocation, an out-of-memory
// condition surfaces as a runtime panic rather than an error value.
func (m *Manager) Ensure(n int) []byte {
	if n <= len(m.buf) {
		return m.buf[:n]
	}
	capacity := len(m.buf) * 2
	if capacity < minCapacity {
		capacity = minCapacity
	}
	if capacity < n {
		capacity = n
	}
	grown := make([]byte, capacity)
	copy(grown, m.buf)
	m.buf = grown
	return m.buf[:n]
}

// Cap reports the current size of the backing region.
func (m *Manager) Cap() int {
	return len(m.buf)
}
