// Package patch applies diff plans to an externally-owned live document.
package patch

import (
	"log/slog"

	"github.com/dgallion1/mdlive/internal/block"
	"github.com/dgallion1/mdlive/internal/diff"
)

// Handle is the full contract the sync engine requires from the editable
// surface. The engine never touches rendering, styling, or cursor state —
// only these structural operations.
type Handle interface {
	Count() int
	DeleteAt(i int) error
	InsertAt(b block.Block, i int) error
	Clear()
	RenderAll(doc block.Document)
}

// Apply executes a plan against the handle. A human may be editing the
// surface concurrently, so every individual operation failure (stale
// index, handle error) is logged and swallowed: a partial patch is
// preferred over an aborted one.
func Apply(plan diff.Plan, h Handle, log *slog.Logger) {
	switch plan.Kind {
	case diff.NoOp:
		return
	case diff.FullReset:
		h.Clear()
		h.RenderAll(plan.Next)
		return
	case diff.TailReplace:
		// Delete highest index first so earlier deletions never shift the
		// indices of blocks not yet deleted.
		for i := h.Count() - 1; i >= plan.DivergeAt; i-- {
			if err := h.DeleteAt(i); err != nil {
				log.Warn("delete skipped", "index", i, "error", err)
			}
		}
		for j, b := range plan.Inserts {
			if err := h.InsertAt(b, plan.DivergeAt+j); err != nil {
				log.Warn("insert skipped", "index", plan.DivergeAt+j, "error", err)
			}
		}
	}
}
