// Package mem provides the per-call allocation regions the engine works in.
//
// Every boundary operation opens one Region, allocates its scratch buffers
// from it, and closes it on a single exit path whether the call returned or
// unwound. Buffers that must outlive the call are detached from the region
// and released individually by their owner. Process-wide counters track every
// buffer handed out and every region opened, so tests can prove that no call
// path, success or failure, strands an allocation.
package mem

import (
	"sync"
	"sync/atomic"
)

var (
	openRegions        atomic.Int64
	outstandingBuffers atomic.Int64

	pool = sync.Pool{
		New: func() any { return &Buf{b: make([]byte, 0, 512)} },
	}
)

// Buffers above this capacity are not returned to the pool.
const maxPooledCap = 1 << 20

// Stats is a snapshot of the allocation counters.
type Stats struct {
	OpenRegions        int64
	OutstandingBuffers int64
}

// ReadStats returns the current allocation counters. With no calls in flight
// and every caller-held buffer released, both counters are zero.
func ReadStats() Stats {
	return Stats{
		OpenRegions:        openRegions.Load(),
		OutstandingBuffers: outstandingBuffers.Load(),
	}
}

// Buf is a growable byte buffer drawn from the process pool. A Buf belongs
// either to the region that allocated it or, after Detach, to whoever holds
// it; in both cases it is released exactly once.
type Buf struct {
	b        []byte
	released bool
}

// Bytes returns the buffer's contents. The slice is invalidated by Free and
// by closing the owning region.
func (b *Buf) Bytes() []byte { return b.b }

// Len returns the number of bytes written.
func (b *Buf) Len() int { return len(b.b) }

// Reset truncates the buffer without releasing its storage.
func (b *Buf) Reset() { b.b = b.b[:0] }

// Write appends p, growing as needed. It never fails; the error is for
// io.Writer conformance.
func (b *Buf) Write(p []byte) (int, error) {
	b.b = append(b.b, p...)
	return len(p), nil
}

// WriteString appends s.
func (b *Buf) WriteString(s string) {
	b.b = append(b.b, s...)
}

// WriteByte appends c.
func (b *Buf) WriteByte(c byte) error {
	b.b = append(b.b, c)
	return nil
}

// String copies the contents into a regular string, which survives the
// buffer's release.
func (b *Buf) String() string { return string(b.b) }

// Copy returns a fresh slice with the contents, owned by the caller's
// garbage collector rather than the pool. A nil result is returned for an
// empty buffer so that empty diagnostics stay absent rather than zero-length.
func (b *Buf) Copy() []byte {
	if len(b.b) == 0 {
		return nil
	}
	out := make([]byte, len(b.b))
	copy(out, b.b)
	return out
}

// Free returns the buffer to the pool. Freeing a buffer twice panics: the
// storage may already back another caller's buffer.
func (b *Buf) Free() {
	if b.released {
		panic("mem: free of freed buffer")
	}
	b.released = true
	outstandingBuffers.Add(-1)
	if cap(b.b) <= maxPooledCap {
		b.b = b.b[:0]
		pool.Put(b)
	}
}

// Region owns the buffers allocated during one boundary call. Regions are
// not safe for concurrent use; each call works in its own.
type Region struct {
	bufs   []*Buf
	closed bool
}

// NewRegion opens a fresh region.
func NewRegion() *Region {
	openRegions.Add(1)
	return &Region{}
}

// Alloc draws a buffer from the pool and ties it to the region.
func (r *Region) Alloc() *Buf {
	if r.closed {
		panic("mem: alloc from closed region")
	}
	b := pool.Get().(*Buf)
	b.released = false
	b.Reset()
	outstandingBuffers.Add(1)
	r.bufs = append(r.bufs, b)
	return b
}

// Detach removes the buffer from the region so it survives Close. The new
// owner must call Free exactly once.
func (r *Region) Detach(b *Buf) *Buf {
	for i, rb := range r.bufs {
		if rb == b {
			r.bufs = append(r.bufs[:i], r.bufs[i+1:]...)
			return b
		}
	}
	panic("mem: detach of buffer not owned by region")
}

// Close releases every buffer still owned by the region. Closing twice
// panics; the single-exit-path discipline of the boundary makes that a bug.
func (r *Region) Close() {
	if r.closed {
		panic("mem: close of closed region")
	}
	r.closed = true
	for _, b := range r.bufs {
		b.Free()
	}
	r.bufs = nil
	openRegions.Add(-1)
}
