package pgparser

import (
	"github.com/supabase-community/pg-parser/internal/mem"
	"github.com/supabase-community/pg-parser/internal/pgerr"
)

// callCtx carries the per-call allocation region and the diagnostic
// buffer the engine's warning channel writes into.
type callCtx struct {
	region *mem.Region
	diag   *mem.Buf
}

// run executes one operation inside a fresh region and converts an engine
// report raised during it into an ErrorInfo of the given kind. Anything
// the caller keeps must be copied out or detached before op returns; the
// region closes on every path. Panics that are not engine reports resume
// after cleanup.
func run(engineKind ErrorKind, src string, op func(c *callCtx) error) (err error) {
	c := &callCtx{region: mem.NewRegion()}
	c.diag = c.region.Alloc()
	defer func() {
		r := recover()
		var stderr []byte
		if r != nil {
			stderr = c.diag.Copy()
		}
		c.region.Close()
		if r == nil {
			return
		}
		pe, ok := r.(*pgerr.Error)
		if !ok {
			panic(r)
		}
		err = engineError(engineKind, src, pe, stderr)
	}()
	return op(c)
}
