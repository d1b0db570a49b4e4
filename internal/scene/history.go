package scene

// HistoryLimit is the maximum number of undo steps kept.
const HistoryLimit = 50

// History is a snapshot-based undo/redo stack over a Scene.
type History struct {
	past   []Content
	future []Content
	limit  int
}

// NewHistory creates a history bounded to limit entries; limit <= 0 uses
// HistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = HistoryLimit
	}
	return &History{limit: limit}
}

// Push records the scene's current content. Call it before mutating.
// The redo stack is discarded.
func (h *History) Push(s *Scene) {
	h.past = append(h.past, s.Snapshot())
	if len(h.past) > h.limit {
		h.past = h.past[len(h.past)-h.limit:]
	}
	h.future = nil
}

// Undo restores the most recent snapshot and reports whether anything
// changed. The stroke in progress is left alone.
func (h *History) Undo(s *Scene) bool {
	if len(h.past) == 0 {
		return false
	}
	prev := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, s.Snapshot())
	s.Restore(prev)
	return true
}

// Redo re-applies the most recently undone state.
func (h *History) Redo(s *Scene) bool {
	if len(h.future) == 0 {
		return false
	}
	next := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, s.Snapshot())
	s.Restore(next)
	return true
}

// CanUndo reports whether Undo would change anything.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether Redo would change anything.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Depth returns the number of undo and redo steps available.
func (h *History) Depth() (undo, redo int) { return len(h.past), len(h.future) }
