// Package diff computes minimal patch plans between block documents.
//
// Streamed regeneration almost always appends to or modifies the tail of
// the document, so plans compare from the front and only touch the
// diverging suffix. Stable prefix blocks are never re-created, which keeps
// cursor and scroll state intact in the live surface.
package diff

import (
	"github.com/dgallion1/mdlive/internal/block"
)

// Kind discriminates the three plan shapes.
type Kind int

const (
	// NoOp means the documents are already identical.
	NoOp Kind = iota
	// TailReplace deletes every live block at index >= DivergeAt and
	// inserts the new tail in its place.
	TailReplace
	// FullReset clears the live document and renders Next wholesale.
	FullReset
)

const (
	// DriftTolerance is how far the live block count may drift from the
	// last-applied baseline before positional indices stop being trusted.
	DriftTolerance = 5
	// FullResetCeiling bounds the size of a document the engine is
	// willing to re-render wholesale.
	FullResetCeiling = 300
)

// Plan describes how to bring a live document from the previous state to
// Next. Next is always carried so the caller can record it as the new
// baseline regardless of which branch fired.
type Plan struct {
	Kind      Kind
	DivergeAt int
	Inserts   block.Document // next[DivergeAt:], tail-replace only
	Next      block.Document
}

// Compute builds a plan from the last-applied baseline prev to the
// candidate next. liveCount is the current block count of the live
// document, which a human may have changed independently.
func Compute(prev, next block.Document, liveCount int) Plan {
	// Drift guard: when the live document no longer resembles what this
	// engine last applied, positional deletes would land on the wrong
	// blocks. Discard and re-render, as long as next is small enough.
	drift := liveCount - len(prev)
	if drift < 0 {
		drift = -drift
	}
	if drift > DriftTolerance && len(next) < FullResetCeiling {
		return Plan{Kind: FullReset, Next: next}
	}

	divergeAt := len(prev)
	if len(next) < divergeAt {
		divergeAt = len(next)
	}
	for i := 0; i < len(prev) && i < len(next); i++ {
		if !prev[i].Equal(next[i]) {
			divergeAt = i
			break
		}
	}

	if divergeAt == len(prev) && len(prev) == len(next) {
		return Plan{Kind: NoOp, DivergeAt: divergeAt, Next: next}
	}

	return Plan{
		Kind:      TailReplace,
		DivergeAt: divergeAt,
		Inserts:   next[divergeAt:],
		Next:      next,
	}
}
