package service

import (
	"encoding/json"
	"fmt"
	"time"

	"pagebuilder/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// History — linear undo/redo of whole-document snapshots
// ─────────────────────────────────────────────────────────────

// Snapshot is one history entry: the document as it was before the
// operation named by Label.
type Snapshot struct {
	Label     string          `json:"label"`
	Document  domain.Document `json:"document"`
	CreatedAt time.Time       `json:"createdAt"`
}

// History keeps two stacks of deep-copied documents. It is not safe for
// concurrent use; Editor serializes access.
type History struct {
	undo       []Snapshot
	redo       []Snapshot
	maxEntries int
}

// NewHistory creates a History. maxEntries caps the undo stack; 0 means
// unlimited.
func NewHistory(maxEntries int) *History {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &History{maxEntries: maxEntries}
}

// Checkpoint records doc as the state to return to and discards every
// redo entry.
func (h *History) Checkpoint(label string, doc domain.Document) {
	h.push(&h.undo, label, doc)
	h.redo = nil
}

// Undo pops the newest undo entry and parks current on the redo stack.
func (h *History) Undo(current domain.Document) (domain.Document, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, Snapshot{Label: top.Label, Document: current.Clone(), CreatedAt: time.Now()})
	return top.Document.Clone(), true
}

// Redo is the mirror of Undo.
func (h *History) Redo(current domain.Document) (domain.Document, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.push(&h.undo, top.Label, current)
	return top.Document.Clone(), true
}

func (h *History) push(stack *[]Snapshot, label string, doc domain.Document) {
	snap := doc.Clone()
	if snap == nil {
		snap = domain.Document{}
	}
	*stack = append(*stack, Snapshot{Label: label, Document: snap, CreatedAt: time.Now()})
	if h.maxEntries > 0 && len(*stack) > h.maxEntries {
		*stack = append([]Snapshot(nil), (*stack)[len(*stack)-h.maxEntries:]...)
	}
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the sizes of the undo and redo stacks.
func (h *History) Depth() (undo, redo int) { return len(h.undo), len(h.redo) }

// Labels returns the undo entry labels, oldest first.
func (h *History) Labels() []string {
	out := make([]string, len(h.undo))
	for i, s := range h.undo {
		out[i] = s.Label
	}
	return out
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo, h.redo = nil, nil
}

type historyFile struct {
	Undo []Snapshot `json:"undo"`
	Redo []Snapshot `json:"redo"`
}

// Export encodes both stacks as JSON.
func (h *History) Export() ([]byte, error) {
	f := historyFile{Undo: h.undo, Redo: h.redo}
	if f.Undo == nil {
		f.Undo = []Snapshot{}
	}
	if f.Redo == nil {
		f.Redo = []Snapshot{}
	}
	data, err := domain.EncodeJSON(f, "")
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return data, nil
}

// Import replaces both stacks with the ones encoded in data. Every snapshot
// must be a valid document; on error the history is left untouched.
func (h *History) Import(data []byte) error {
	var f historyFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode history: %w", err)
	}
	for _, stack := range [][]Snapshot{f.Undo, f.Redo} {
		for i := range stack {
			if stack[i].Document == nil {
				stack[i].Document = domain.Document{}
			}
			if err := stack[i].Document.Validate(); err != nil {
				return fmt.Errorf("%w: history entry %q: %v", ErrInvalidDocument, stack[i].Label, err)
			}
		}
	}
	h.undo, h.redo = f.Undo, f.Redo
	if h.maxEntries > 0 && len(h.undo) > h.maxEntries {
		h.undo = h.undo[len(h.undo)-h.maxEntries:]
	}
	return nil
}
