package maskedit

import (
	"image"

	"github.com/maskedit/maskedit/internal/tile"
)

// DefaultHistoryBudget bounds the resident checkpoint bytes kept for
// undo/redo. 32 MiB holds dozens of strokes on masks of typical
// generation-request sizes.
const DefaultHistoryBudget = 32 << 20

// CheckpointKind distinguishes full-coverage snapshots from tile diffs in
// stats and logs. Both kinds restore the same way.
type CheckpointKind int

const (
	// KindTileDiff stores only the tiles a stroke changed.
	KindTileDiff CheckpointKind = iota

	// KindSnapshot covers the whole surface (load, clear).
	KindSnapshot
)

// checkpoint is one history entry: a reversible set of tile patches.
// Each patch carries the tile contents on both sides of the change, so a
// checkpoint restores in either direction on its own and evicting older
// entries never invalidates it.
type checkpoint struct {
	patches []tile.Patch
	bytes   int
	kind    CheckpointKind
}

// HistoryState drives undo/redo UI affordances. Button enablement is read
// from here and nowhere else.
type HistoryState struct {
	CanUndo     bool
	CanRedo     bool
	StrokeCount int
}

// History is the undo/redo stack machine for one mask buffer. Entries are
// tile-patch checkpoints; pushing after an undo discards the redo branch
// (linear history), and total resident bytes are bounded by a budget with
// oldest-first eviction.
//
// History never holds a reference back to its owner. The current buffer is
// passed explicitly into Push/Undo/Redo, and restored states are returned
// as fresh buffers for the caller to swap in.
//
// History is not safe for concurrent use; it belongs to the editing loop.
type History struct {
	grid     tile.Grid
	shadow   []uint8 // copy of the last committed state, diff base
	undo     []*checkpoint
	redo     []*checkpoint
	budget   int
	resident int
	strokes  int
}

// NewHistory creates a history manager for a w x h buffer with the given
// byte budget. A budget of 0 or less uses DefaultHistoryBudget.
func NewHistory(w, h, budget int) *History {
	if budget <= 0 {
		budget = DefaultHistoryBudget
	}
	return &History{
		grid:   tile.NewGrid(w, h),
		shadow: make([]uint8, w*h),
		budget: budget,
	}
}

// Reset clears all history and re-bases the diff shadow on cur.
// Called on image load.
func (h *History) Reset(cur []uint8) {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
	h.resident = 0
	h.strokes = 0
	copy(h.shadow, cur)
}

// Clear drops all undo/redo entries without touching the current state.
func (h *History) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
	h.resident = 0
	h.strokes = 0
}

// Push checkpoints the transition from the last committed state to cur.
// The redo stack is discarded entirely (linear-history semantics) and
// oldest undo entries are evicted while the byte budget is exceeded —
// eviction only trims history depth, never the current state. The hint
// rectangle restricts diffing to the region a stroke touched; pass the
// zero rectangle to scan the whole buffer.
//
// Returns false when cur does not differ from the committed state
// (nothing to checkpoint).
func (h *History) Push(cur []uint8, hint image.Rectangle) bool {
	var patches []tile.Patch
	if hint.Empty() {
		patches = tile.Diff(h.grid, h.shadow, cur)
	} else {
		patches = tile.DiffRect(h.grid, h.shadow, cur, hint)
	}
	if len(patches) == 0 {
		return false
	}

	kind := KindTileDiff
	if len(patches) == h.grid.Tiles() {
		kind = KindSnapshot
	}
	cp := &checkpoint{patches: patches, bytes: tile.BytesOf(patches), kind: kind}

	for _, old := range h.redo {
		h.resident -= old.bytes
	}
	h.redo = h.redo[:0]

	h.undo = append(h.undo, cp)
	h.resident += cp.bytes
	h.strokes++
	copy(h.shadow, cur)

	h.evict()
	return true
}

// evict drops the oldest undo entries while over budget, always leaving at
// least one entry so the latest stroke stays undoable.
func (h *History) evict() {
	evicted := 0
	for h.resident > h.budget && len(h.undo) > 1 {
		h.resident -= h.undo[0].bytes
		h.undo[0] = nil
		h.undo = h.undo[1:]
		evicted++
	}
	if evicted > 0 {
		Logger().Debug("maskedit: history evicted checkpoints",
			"evicted", evicted, "resident", h.resident, "budget", h.budget)
	}
}

// Undo returns a fresh buffer holding the previous committed state, or
// (nil, false) when there is nothing to undo — a no-op, not an error.
// cur must be the current committed buffer; the popped checkpoint moves to
// the redo stack carrying the state being left behind.
func (h *History) Undo(cur []uint8) ([]uint8, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	cp := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]

	restored := make([]uint8, len(cur))
	copy(restored, cur)
	tile.Apply(h.grid, restored, cp.patches, tile.Before)

	h.redo = append(h.redo, cp)
	copy(h.shadow, restored)
	return restored, true
}

// Redo is the symmetric inverse of Undo.
func (h *History) Redo(cur []uint8) ([]uint8, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	cp := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	restored := make([]uint8, len(cur))
	copy(restored, cur)
	tile.Apply(h.grid, restored, cp.patches, tile.After)

	h.undo = append(h.undo, cp)
	copy(h.shadow, restored)
	return restored, true
}

// State returns the current undo/redo affordances.
func (h *History) State() HistoryState {
	return HistoryState{
		CanUndo:     len(h.undo) > 0,
		CanRedo:     len(h.redo) > 0,
		StrokeCount: h.strokes,
	}
}

// ResidentBytes returns the total bytes held by resident checkpoints.
func (h *History) ResidentBytes() int { return h.resident }

// Depth returns the number of entries on the undo stack.
func (h *History) Depth() int { return len(h.undo) }
