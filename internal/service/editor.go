package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/render"
)

// ─────────────────────────────────────────────────────────────
// Editor — the document store and its mutation surface
// ─────────────────────────────────────────────────────────────

// EditorOptions configures an Editor. Every field is optional.
type EditorOptions struct {
	Store          domain.KVStore
	Emitter        EventEmitter
	Logger         *zap.Logger
	OutputMode     domain.OutputMode
	MaxHistory     int
	PersistHistory bool
}

// EditorState is a read-only view of the editor.
type EditorState struct {
	Components domain.Document   `json:"components"`
	Selected   string            `json:"selectedComponent"`
	Dragging   string            `json:"currentlyDragging"`
	Preview    bool              `json:"isPreviewMode"`
	OutputType domain.OutputMode `json:"outputType"`
	UndoDepth  int               `json:"undoDepth"`
	RedoDepth  int               `json:"redoDepth"`
}

// Editor owns the live Document. All structural mutations run through
// applyLocked, which works on a clone and only checkpoints and installs the
// result when the mutation succeeded and changed something. Reads always
// return clones.
type Editor struct {
	mu       sync.Mutex
	doc      domain.Document
	selected string
	dragging string
	preview  bool
	mode     domain.OutputMode

	history        *History
	store          domain.KVStore
	persistHistory bool
	emitter        EventEmitter
	log            *zap.Logger
}

// mutation edits doc (a private clone) and returns the new document.
type mutation func(doc domain.Document) (domain.Document, error)

// NewEditor creates an Editor holding an empty document.
func NewEditor(opts EditorOptions) *Editor {
	e := &Editor{
		doc:            domain.Document{},
		mode:           domain.OutputTailwind,
		history:        NewHistory(opts.MaxHistory),
		store:          opts.Store,
		persistHistory: opts.PersistHistory,
		emitter:        opts.Emitter,
		log:            opts.Logger,
	}
	if m, ok := domain.ParseOutputMode(string(opts.OutputMode)); ok {
		e.mode = m
	}
	if e.emitter == nil {
		e.emitter = NopEmitter{}
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	return e
}

// Restore loads the document (and the history, when enabled) from the
// store. Missing slots leave the editor empty.
func (e *Editor) Restore(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store == nil {
		return nil
	}

	data, ok, err := e.store.Get(ctx, domain.SlotComponents)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if ok {
		doc, err := render.ParseJSON(string(data))
		if err != nil {
			return fmt.Errorf("%w: stored document: %v", ErrInvalidDocument, err)
		}
		if err := doc.Validate(); err != nil {
			return fmt.Errorf("%w: stored document: %v", ErrInvalidDocument, err)
		}
		e.doc = doc
	}

	if !e.persistHistory {
		return nil
	}
	data, ok, err = e.store.Get(ctx, domain.SlotHistory)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if ok {
		if err := e.history.Import(data); err != nil {
			e.log.Warn("discarding stored history", zap.Error(err))
		}
	}
	return nil
}

// Save writes the document (and history, when enabled) to the store.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persistLocked(ctx)
}

func (e *Editor) persistLocked(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	data, err := domain.EncodeJSON(e.doc, "")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := e.store.Set(ctx, domain.SlotComponents, data); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if !e.persistHistory {
		return nil
	}
	hist, err := e.history.Export()
	if err != nil {
		return err
	}
	if err := e.store.Set(ctx, domain.SlotHistory, hist); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// applyLocked runs fn against a clone of the document. On success it
// checkpoints the previous document, installs the result and persists it.
// The caller holds e.mu.
func (e *Editor) applyLocked(ctx context.Context, op string, fn mutation) error {
	next, err := fn(e.doc.Clone())
	if err == nil && next.Equal(e.doc) {
		err = ErrNoChange
	}
	if err != nil {
		e.log.Debug("mutation skipped", zap.String("op", op), zap.Stringer("outcome", OutcomeOf(err)), zap.Error(err))
		return err
	}
	if next == nil {
		next = domain.Document{}
	}

	e.history.Checkpoint(op, e.doc)
	e.doc = next
	e.afterChangeLocked(ctx, op)
	return nil
}

// afterChangeLocked persists and announces a new document.
func (e *Editor) afterChangeLocked(ctx context.Context, op string) {
	if err := e.persistLocked(ctx); err != nil {
		e.log.Error("persist failed", zap.String("op", op), zap.Error(err))
		e.notify(ctx, LevelError, "Failed to save changes")
	}
	e.log.Debug("mutation applied", zap.String("op", op), zap.Int("components", e.doc.Count()))
	e.emitter.Emit(ctx, EventChanged, Change{Op: op, Components: e.doc.Count()})
}

func (e *Editor) notify(ctx context.Context, level, message string) {
	e.emitter.Emit(ctx, EventNotify, Notice{Level: level, Message: message})
}

// ── Structural mutators ─────────────────────────────────────

// AddComponent appends c to the roots and selects it. An empty id is
// replaced by a generated one; the assigned id is returned.
func (e *Editor) AddComponent(ctx context.Context, c *domain.Component) (string, error) {
	if c == nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDocument, domain.ErrNilComponent)
	}
	node := c.Clone()
	assignIDs(node)
	node.EnsureStyles()

	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.applyLocked(ctx, "add_component", func(doc domain.Document) (domain.Document, error) {
		if err := doc.ValidateAgainst(node); err != nil {
			return nil, err
		}
		return append(doc, node), nil
	})
	if err != nil {
		return "", e.reject(ctx, err)
	}
	e.selected = node.ID
	e.notify(ctx, LevelSuccess, "Component added")
	return node.ID, nil
}

// UpdateComponent shallow-merges patch into the component with id. A
// customStyles entry merges into the existing styles and a children entry
// replaces the children. The whole patch is validated before any of it is
// applied.
func (e *Editor) UpdateComponent(ctx context.Context, id string, patch map[string]any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(ctx, "update_component", func(doc domain.Document) (domain.Document, error) {
		loc, ok := doc.Locate(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err := applyPatch(doc, loc.Node, patch); err != nil {
			return nil, err
		}
		return doc, nil
	})
}

// UpdateComponentStyles merges patch into the component's customStyles.
func (e *Editor) UpdateComponentStyles(ctx context.Context, id string, patch map[string]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(ctx, "update_styles", func(doc domain.Document) (domain.Document, error) {
		node := doc.Find(id)
		if node == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		node.EnsureStyles().Merge(patch)
		return doc, nil
	})
}

// RemoveComponent detaches the component with id from wherever it lives
// and clears the selection.
func (e *Editor) RemoveComponent(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.applyLocked(ctx, "remove_component", func(doc domain.Document) (domain.Document, error) {
		next, _, ok := doc.Remove(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return next, nil
	})
	if err != nil {
		return err
	}
	e.selected = ""
	e.notify(ctx, LevelSuccess, "Component removed")
	return nil
}

// MoveComponent moves the root at oldIndex so that it ends up at newIndex.
func (e *Editor) MoveComponent(ctx context.Context, oldIndex, newIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(ctx, "move_component", func(doc domain.Document) (domain.Document, error) {
		if oldIndex == newIndex {
			return nil, ErrNoChange
		}
		n := len(doc)
		if oldIndex < 0 || oldIndex >= n || newIndex < 0 || newIndex >= n {
			return nil, fmt.Errorf("%w: move %d -> %d with %d roots", ErrIndexOutOfRange, oldIndex, newIndex, n)
		}
		moved := doc[oldIndex]
		rest := append(doc[:oldIndex:oldIndex], doc[oldIndex+1:]...)
		out := make(domain.Document, 0, n)
		out = append(out, rest[:newIndex]...)
		out = append(out, moved)
		return append(out, rest[newIndex:]...), nil
	})
}

// AddChildToContainer appends child to the children of parentID and
// selects it. The assigned child id is returned.
func (e *Editor) AddChildToContainer(ctx context.Context, parentID string, child *domain.Component) (string, error) {
	if child == nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDocument, domain.ErrNilComponent)
	}
	node := child.Clone()
	assignIDs(node)
	node.EnsureStyles()

	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.applyLocked(ctx, "add_child", func(doc domain.Document) (domain.Document, error) {
		parent := doc.Find(parentID)
		if parent == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, parentID)
		}
		if err := doc.ValidateAgainst(node); err != nil {
			return nil, err
		}
		if parent.Children == nil {
			parent.Children = []*domain.Component{}
		}
		parent.Children = append(parent.Children, node)
		return doc, nil
	})
	if err != nil {
		return "", e.reject(ctx, err)
	}
	e.selected = node.ID
	e.notify(ctx, LevelSuccess, "Component added to container")
	return node.ID, nil
}

// RemoveChildFromContainer removes the immediate child childID of parentID.
func (e *Editor) RemoveChildFromContainer(ctx context.Context, parentID, childID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.applyLocked(ctx, "remove_child", func(doc domain.Document) (domain.Document, error) {
		parent := doc.Find(parentID)
		if parent == nil {
			return nil, fmt.Errorf("%w: container %s", ErrNotFound, parentID)
		}
		for i, c := range parent.Children {
			if c != nil && c.ID == childID {
				kept := make([]*domain.Component, 0, len(parent.Children)-1)
				kept = append(kept, parent.Children[:i]...)
				parent.Children = append(kept, parent.Children[i+1:]...)
				return doc, nil
			}
		}
		return nil, fmt.Errorf("%w: %s is not a child of %s", ErrNotFound, childID, parentID)
	})
	if err != nil {
		return err
	}
	e.selected = ""
	e.notify(ctx, LevelSuccess, "Component removed from container")
	return nil
}

// ClearCanvas empties the document and clears the selection.
func (e *Editor) ClearCanvas(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.applyLocked(ctx, "clear_canvas", func(domain.Document) (domain.Document, error) {
		return domain.Document{}, nil
	})
	if err != nil {
		return err
	}
	e.selected = ""
	e.notify(ctx, LevelInfo, "Canvas cleared")
	return nil
}

// Replace installs doc wholesale after validating its ids. label names the
// history entry.
func (e *Editor) Replace(ctx context.Context, doc domain.Document, label string) error {
	next := doc.Clone()
	if next == nil {
		next = domain.Document{}
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if label == "" {
		label = "replace"
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.replaceLocked(ctx, next, label)
}

func (e *Editor) replaceLocked(ctx context.Context, doc domain.Document, label string) error {
	err := e.applyLocked(ctx, label, func(domain.Document) (domain.Document, error) {
		return doc, nil
	})
	if err != nil {
		return err
	}
	if e.selected != "" && e.doc.Find(e.selected) == nil {
		e.selected = ""
	}
	return nil
}

// ── History ─────────────────────────────────────────────────

// Undo restores the document as it was before the last applied mutation.
func (e *Editor) Undo(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev, ok := e.history.Undo(e.doc)
	if !ok {
		e.notify(ctx, LevelInfo, "Nothing to undo")
		return ErrNothingToUndo
	}
	e.doc = prev
	e.dropStaleSelectionLocked()
	e.afterChangeLocked(ctx, "undo")
	e.notify(ctx, LevelInfo, "Undo successful")
	return nil
}

// Redo re-applies the last undone mutation.
func (e *Editor) Redo(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, ok := e.history.Redo(e.doc)
	if !ok {
		e.notify(ctx, LevelInfo, "Nothing to redo")
		return ErrNothingToRedo
	}
	e.doc = next
	e.dropStaleSelectionLocked()
	e.afterChangeLocked(ctx, "redo")
	e.notify(ctx, LevelInfo, "Redo successful")
	return nil
}

func (e *Editor) dropStaleSelectionLocked() {
	if e.selected != "" && e.doc.Find(e.selected) == nil {
		e.selected = ""
	}
}

// HistoryLabels returns the labels of the undo entries, oldest first.
func (e *Editor) HistoryLabels() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Labels()
}

// ── Serialization ───────────────────────────────────────────

// ImportJSON replaces the document with the array encoded in text.
// Malformed or non-array input is rejected and leaves everything untouched.
func (e *Editor) ImportJSON(ctx context.Context, text string) error {
	doc, err := render.ParseJSON(text)
	if err == nil {
		if verr := doc.Validate(); verr != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidDocument, verr)
		}
	}
	if err != nil {
		if errors.Is(err, render.ErrParse) {
			e.notify(ctx, LevelError, "Failed to parse JSON")
		} else {
			e.notify(ctx, LevelError, "Invalid JSON format")
		}
		e.log.Info("import rejected", zap.String("op", "import_json"), zap.Error(err))
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.replaceLocked(ctx, doc, "import_json"); err != nil {
		return err
	}
	e.notify(ctx, LevelSuccess, "Components imported successfully")
	return nil
}

// ExportJSON renders the document as indented JSON.
func (e *Editor) ExportJSON() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return render.JSON(e.doc)
}

// ExportHTML renders the document as a complete page in the current
// output mode.
func (e *Editor) ExportHTML() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return render.HTML(e.doc, e.mode)
}

// ExportHTMLAs renders the page in mode without changing the editor's mode.
func (e *Editor) ExportHTMLAs(mode domain.OutputMode) (string, error) {
	m, ok := domain.ParseOutputMode(string(mode))
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidOutputMode, mode)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return render.HTML(e.doc, m), nil
}

// ── Reads and editor state ──────────────────────────────────

// Document returns a copy of the live document.
func (e *Editor) Document() domain.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return domain.Document{}
	}
	return e.doc.Clone()
}

// FindComponentByID returns a copy of the component with id anywhere in
// the document, or nil.
func (e *Editor) FindComponentByID(id string) *domain.Component {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Find(id).Clone()
}

// SelectedComponent resolves the selection, or returns nil.
func (e *Editor) SelectedComponent() *domain.Component {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected == "" {
		return nil
	}
	return e.doc.Find(e.selected).Clone()
}

// SelectComponent sets the selection id.
func (e *Editor) SelectComponent(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = id
}

// ClearSelection drops the selection.
func (e *Editor) ClearSelection() {
	e.SelectComponent("")
}

// SetDragging records the id of the component being dragged.
func (e *Editor) SetDragging(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dragging = id
}

// TogglePreviewMode flips the preview flag and returns the new value.
func (e *Editor) TogglePreviewMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.preview = !e.preview
	return e.preview
}

// SetOutputType switches the HTML styling strategy. Unknown modes are
// rejected and leave the current one in place.
func (e *Editor) SetOutputType(mode string) error {
	m, ok := domain.ParseOutputMode(mode)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidOutputMode, mode)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = m
	return nil
}

// OutputType returns the current HTML styling strategy.
func (e *Editor) OutputType() domain.OutputMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// State returns a snapshot of the editor.
func (e *Editor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	undo, redo := e.history.Depth()
	return EditorState{
		Components: e.doc.Clone(),
		Selected:   e.selected,
		Dragging:   e.dragging,
		Preview:    e.preview,
		OutputType: e.mode,
		UndoDepth:  undo,
		RedoDepth:  redo,
	}
}

// reject reports a refused add to the user.
func (e *Editor) reject(ctx context.Context, err error) error {
	if OutcomeOf(err) == Rejected {
		e.notify(ctx, LevelError, err.Error())
	}
	return err
}

// ── Helpers ─────────────────────────────────────────────────

// NewComponentID returns a fresh id for a component of kind typ.
func NewComponentID(typ domain.ComponentType) string {
	prefix := string(typ)
	if prefix == "" {
		prefix = "component"
	}
	return prefix + "-" + uuid.NewString()
}

// assignIDs gives every node in the subtree without an id a fresh one.
func assignIDs(c *domain.Component) {
	if c == nil {
		return
	}
	if c.ID == "" {
		c.ID = NewComponentID(c.Type)
	}
	for _, child := range c.Children {
		assignIDs(child)
	}
}

// applyPatch validates the whole patch, then merges it into node.
func applyPatch(doc domain.Document, node *domain.Component, patch map[string]any) error {
	if len(patch) == 0 {
		return ErrNoChange
	}
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		typ         *domain.ComponentType
		styles      map[string]string
		children    []*domain.Component
		setChildren bool
		fields      = make(map[string]any, len(patch))
	)
	for _, k := range keys {
		v := patch[k]
		switch k {
		case domain.KeyID:
			if s, ok := v.(string); !ok || s != node.ID {
				return fmt.Errorf("%w: id cannot be changed", ErrInvalidPatch)
			}
		case domain.KeyType:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("%w: type must be a string", ErrInvalidPatch)
			}
			t := domain.ComponentType(s)
			typ = &t
		case domain.KeyCustomStyles:
			m, err := stylePatch(v)
			if err != nil {
				return err
			}
			styles = m
		case domain.KeyChildren:
			list, err := childrenPatch(doc, node, v)
			if err != nil {
				return err
			}
			children, setChildren = list, true
		default:
			nv, err := domain.NormalizeValue(v)
			if err != nil {
				return fmt.Errorf("%w: field %q: %v", ErrInvalidPatch, k, err)
			}
			fields[k] = nv
		}
	}

	if typ != nil {
		node.Type = *typ
	}
	if styles != nil {
		node.EnsureStyles().Merge(styles)
	}
	if setChildren {
		node.Children = children
	}
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			node.Fields.Set(k, v)
		}
	}
	return nil
}

func stylePatch(v any) (map[string]string, error) {
	switch t := v.(type) {
	case map[string]string:
		return t, nil
	case map[string]any:
		out := make(map[string]string, len(t))
		for k, val := range t {
			s, ok := val.(string)
			if !ok {
				return nil, fmt.Errorf("%w: customStyles.%s must be a string", ErrInvalidPatch, k)
			}
			out[k] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: customStyles must be an object", ErrInvalidPatch)
}

// childrenPatch decodes a replacement children list and checks that its
// ids clash neither with each other nor with anything outside node's
// current subtree.
func childrenPatch(doc domain.Document, node *domain.Component, v any) ([]*domain.Component, error) {
	if v == nil {
		return nil, nil
	}
	var list []*domain.Component
	switch t := v.(type) {
	case []*domain.Component:
		list = domain.Document(t).Clone()
	case domain.Document:
		list = t.Clone()
	default:
		data, err := domain.EncodeJSON(v, "")
		if err != nil {
			return nil, fmt.Errorf("%w: children: %v", ErrInvalidPatch, err)
		}
		parsed, err := render.ParseJSON(string(data))
		if err != nil {
			return nil, fmt.Errorf("%w: children: %v", ErrInvalidPatch, err)
		}
		list = parsed
	}
	for _, c := range list {
		assignIDs(c)
	}
	if list == nil {
		list = []*domain.Component{}
	}

	saved := node.Children
	node.Children = nil
	taken := doc.IDs()
	node.Children = saved

	if err := domain.Document(list).Validate(); err != nil {
		return nil, fmt.Errorf("%w: children: %v", ErrInvalidPatch, err)
	}
	for _, c := range list {
		var clash error
		domain.Document{c}.Walk(func(n *domain.Component, _ int) bool {
			if _, ok := taken[n.ID]; ok && clash == nil {
				clash = fmt.Errorf("%w: %s", domain.ErrDuplicateID, n.ID)
			}
			return true
		})
		if clash != nil {
			return nil, clash
		}
	}
	return list, nil
}
