package pgparser

import "github.com/supabase-community/pg-parser/internal/mem"

// TreeBuffer owns one binary tree payload produced by ParseToBuffer or
// TextToBinary. The caller must call Release exactly once when done; the
// backing storage is tracked and Release returns it. Accessing a released
// buffer panics, as does releasing one twice.
type TreeBuffer struct {
	buf      *mem.Buf
	released bool
}

// Bytes returns the encoded payload. The slice stays valid until Release.
func (b *TreeBuffer) Bytes() []byte {
	if b.released {
		panic("pgparser: use of released buffer")
	}
	return b.buf.Bytes()
}

// Len reports the payload length in bytes.
func (b *TreeBuffer) Len() int {
	if b.released {
		panic("pgparser: use of released buffer")
	}
	return b.buf.Len()
}

// Release returns the buffer's storage. Exactly one call is permitted.
func (b *TreeBuffer) Release() {
	if b.released {
		panic("pgparser: release of released buffer")
	}
	b.released = true
	b.buf.Free()
}

// newTreeBuffer copies enc into storage owned by the call's region, then
// detaches it so the buffer outlives the call under the caller's control.
func newTreeBuffer(c *callCtx, enc []byte) *TreeBuffer {
	buf := c.region.Alloc()
	buf.Write(enc)
	c.region.Detach(buf)
	return &TreeBuffer{buf: buf}
}
