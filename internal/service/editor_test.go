package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/render"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Editor tests
// ─────────────────────────────────────────────────────────────

func newEditor(t *testing.T) (*service.Editor, *service.MockEmitter) {
	t.Helper()
	emitter := &service.MockEmitter{}
	ed := service.NewEditor(service.EditorOptions{
		Store:   storage.NewMemoryStore(),
		Emitter: emitter,
		Logger:  zaptest.NewLogger(t),
	})
	return ed, emitter
}

func header(id, content string) *domain.Component {
	return domain.NewComponent(id, domain.ComponentHeader, map[string]any{"content": content})
}

func rootIDs(doc domain.Document) []string {
	ids := make([]string, len(doc))
	for i, c := range doc {
		ids[i] = c.ID
	}
	return ids
}

func TestEditor_HeaderExportUndoRedo(t *testing.T) {
	ctx := context.Background()
	ed, _ := newEditor(t)
	require.NoError(t, ed.SetOutputType("inline-styles"))

	_, err := ed.AddComponent(ctx, header("h1", "Hi"))
	require.NoError(t, err)
	require.NoError(t, ed.UpdateComponentStyles(ctx, "h1", map[string]string{"color": "red"}))

	assert.Contains(t, ed.ExportHTML(), `<header style="color: red">Hi</header>`)

	require.NoError(t, ed.Undo(ctx))
	require.NoError(t, ed.Undo(ctx))
	assert.Empty(t, ed.Document())

	require.NoError(t, ed.Redo(ctx))
	got := ed.FindComponentByID("h1")
	require.NotNil(t, got)
	assert.Equal(t, "Hi", got.String("content"))
	assert.NotNil(t, got.CustomStyles, "addComponent initializes customStyles")
	assert.Equal(t, 0, got.CustomStyles.Len())
}

func TestEditor_AddSelectsAndAssignsIDs(t *testing.T) {
	ctx := context.Background()
	ed, emitter := newEditor(t)

	id, err := ed.AddComponent(ctx, domain.NewComponent("", domain.ComponentButton, map[string]any{"content": "Go"}))
	require.NoError(t, err)
	assert.Regexp(t, `^button-[0-9a-f-]{36}$`, id)
	assert.Equal(t, id, ed.SelectedComponent().ID)
	assert.Equal(t, []service.Notice{{Level: service.LevelSuccess, Message: "Component added"}}, emitter.Notices())
	assert.Equal(t, 1, emitter.Count(service.EventChanged))
}

func TestEditor_Uniqueness(t *testing.T) {
	ctx := context.Background()
	ed, _ := newEditor(t)

	box := &domain.Component{ID: "box", Type: domain.ComponentContainer}
	_, err := ed.AddComponent(ctx, box)
	require.NoError(t, err)

	_, err = ed.AddComponent(ctx, header("box", "dup"))
	assert.ErrorIs(t, err, service.ErrDuplicateID)
	assert.Equal(t, service.Rejected, service.OutcomeOf(err))

	_, err = ed.AddChildToContainer(ctx, "box", header("child", "x"))
	require.NoError(t, err)
	_, err = ed.AddChildToContainer(ctx, "box", header("child", "again"))
	assert.ErrorIs(t, err, service.ErrDuplicateID)

	nested := &domain.Component{ID: "outer", Type: domain.ComponentSection, Children: []*domain.Component{header("child", "clash")}}
	_, err = ed.AddComponent(ctx, nested)
	assert.ErrorIs(t, err, service.ErrDuplicateID)

	for i := 0; i < 5; i++ {
		_, err := ed.AddChildToContainer(ctx, "box", domain.NewComponent("", domain.ComponentParagraph, nil))
		require.NoError(t, err)
	}
	doc := ed.Document()
	assert.NoError(t, doc.Validate())
	assert.Equal(t, 7, doc.Count())
}

func TestEditor_RejectedCallsLeaveHistoryAlone(t *testing.T) {
	ctx := context.Background()
	ed, _ := newEditor(t)
	_, err := ed.AddComponent(ctx, header("a", "A"))
	require.NoError(t, err)
	before := ed.State()

	assert.ErrorIs(t, ed.RemoveComponent(ctx, "ghost"), service.ErrNotFound)
	assert.ErrorIs(t, ed.UpdateComponent(ctx, "ghost", map[string]any{"content": "x"}), service.ErrNotFound)
	assert.ErrorIs(t, ed.MoveComponent(ctx, 0, 5), service.ErrIndexOutOfRange)
	assert.ErrorIs(t, ed.MoveComponent(ctx, -1, 0), service.ErrIndexOutOfRange)
	assert.ErrorIs(t, ed.MoveComponent(ctx, 0, 0), service.ErrNoChange)
	assert.ErrorIs(t, ed.RemoveChildFromContainer(ctx, "a", "nope"), service.ErrNotFound)
	assert.ErrorIs(t, ed.SetOutputType("bootstrap"), service.ErrInvalidOutputMode)

	after := ed.State()
	assert.Equal(t, before.UndoDepth, after.UndoDepth)
	assert.Equal(t, domain.OutputTailwind, after.OutputType)
	assert.True(t, before.Components.Equal(after.Components))
}

func TestEditor_UndoRedoInverseLaw(t *testing.T) {
	ctx := context.Background()
	ed, _ := newEditor(t)
	_, err := ed.AddComponent(ctx, header("a", "A"))
	require.NoError(t, err)
	_, err = ed.AddComponent(ctx, &domain.Component{ID: "box", Type: domain.ComponentContainer})
	require.NoError(t, err)

	ops := map[string]func() error{
		"update":    func() error { return ed.UpdateComponent(ctx, "a", map[string]any{"content": "B", "level": 2}) },
		"styles":    func() error { return ed.UpdateComponentStyles(ctx, "a", map[string]string{"margin": "0"}) },
		"move":      func() error { return ed.MoveComponent(ctx, 0, 1) },
		"remove":    func() error { return ed.RemoveComponent(ctx, "a") },
		"clear":     func() error { return ed.ClearCanvas(ctx) },
		"add_child": func() error { _, err := ed.AddChildToContainer(ctx, "box", header("", "c")); return err },
		"import":    func() error { return ed.ImportJSON(ctx, `[{"id":"z","type":"paragraph"}]`) },
		"add":       func() error { _, err := ed.AddComponent(ctx, header("n", "N")); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			d := ed.Document()
			require.NoError(t, op())
			post := ed.Document()
			require.False(t, d.Equal(post))

			require.NoError(t, ed.Undo(ctx))
			assert.True(t, d.Equal(ed.Document()), "undo restores the prior document")
			require.NoError(t, ed.Redo(ctx))
			assert.True(t, post.Equal(ed.Document()), "redo restores the post-op document")
			require.NoError(t, ed.Undo(ctx))
		})
	}
}

func TestEditor_RedoInvalidation(t *testing.T) {
	ctx := context.Background()
	ed, emitter := newEditor(t)
	_, err := ed.AddComponent(ctx, header("a", "A"))
	require.NoError(t, err)
	require.NoError(t, ed.Undo(ctx))
	assert.Equal(t, 1, ed.State().RedoDepth)

	_, err = ed.AddComponent(ctx, header("b", "B"))
	require.NoError(t, err)

	err = ed.Redo(ctx)
	assert.ErrorIs(t, err, service.ErrNothingToRedo)
	assert.Equal(t, service.NoOp, service.OutcomeOf(err))
	notices := emitter.Notices()
	assert.Equal(t, "Nothing to redo", notices[len(notices)-1].Message)
}

func TestEditor_UndoOnEmptyHistory(t *testing.T) {
	ed, _ := newEditor(t)
	err := ed.Undo(context.Background())
	assert.ErrorIs(t, err, service.ErrNothingToUndo)
	assert.Equal(t, service.NoOp, service.OutcomeOf(err))
}

func TestEditor_MoveRootToEnd(t *testing.T) {
	ctx := context.Background()
	ed, _ := newEditor(t)
	for _, id := range []string{"A", "B", "C"} {
		_, err := ed.AddComponent(ctx, header(id, id))
		require.NoError(t, err)
	}

	require.NoError(t, ed.MoveComponent(ctx, 0, 2))
	assert.Equal(t, []string{"B", "C", "A"}, rootIDs(ed.Document()))

	require.NoError(t, ed.MoveComponent(ctx, 2, 0))
	assert.Equal(t, []string{"A", "B", "C"}, rootIDs(ed.Document()))
}

func TestEditor_ImportRejectsObject(t *testing.T) {
	ctx := context.Background()
	ed, emitter := newEditor(t)
	_, err := ed.AddComponent(ctx, header("keep", "K"))
	require.NoError(t, err)
	before := ed.State()

	err = ed.ImportJSON(ctx, "{}")
	assert.ErrorIs(t, err, render.ErrNotArray)
	assert.Equal(t, service.Rejected, service.OutcomeOf(err))

	err = ed.ImportJSON(ctx, "{oops")
	assert.ErrorIs(t, err, render.ErrParse)

	err = ed.ImportJSON(ctx, `[1]`)
	assert.ErrorIs(t, err, render.ErrNotArray)

	err = ed.ImportJSON(ctx, `[{"id":"x"},{"id":"x"}]`)
	assert.ErrorIs(t, err, service.ErrInvalidDocument)

	after := ed.State()
	assert.Equal(t, before.UndoDepth, after.UndoDepth)
	assert.True(t, before.Components.Equal(after.Components))

	var messages []string
	for _, n := range emitter.Notices() {
		messages = append(messages, n.Message)
	}
	assert.Equal(t, []string{"Component added", "Invalid JSON format", "Failed to parse JSON", "Invalid JSON format", "Invalid JSON format"}, messages)
}

func TestEditor_JSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	ed, _ := newEditor(t)
	tmpl := service.NewTemplateService(ed, nil, nil, nil)
	require.NoError(t, tmpl.Load(ctx, service.LandingTemplateID))
	_, err := ed.AddChildToContainer(ctx, "hero-1", header("nested", "deep"))
	require.NoError(t, err)

	original := ed.Document()
	text, err := ed.ExportJSON()
	require.NoError(t, err)

	require.NoError(t, ed.ClearCanvas(ctx))
	require.NoError(t, ed.ImportJSON(ctx, text))
	assert.True(t, original.Equal(ed.Document()))
}

func TestEditor_RecursiveLookup(t *testing.T) {
	ctx := context.Background()
	ed, _ := newEditor(t)
	_, err := ed.AddComponent(ctx, &domain.Component{ID: "l0", Type: domain.ComponentSection})
	require.NoError(t, err)
	parent := "l0"
	for _, id := range []string{"l1", "l2", "l3", "l4"} {
		_, err := ed.AddChildToContainer(ctx, parent, &domain.Component{ID: id, Type: domain.ComponentContainer})
		require.NoError(t, err)
		parent = id
	}

	found := ed.FindComponentByID("l4")
	require.NotNil(t, found)
	assert.Equal(t, domain.ComponentContainer, found.Type)
	assert.Nil(t, ed.FindComponentByID("l5"))

	found.Fields.Set("content", "mutated copy")
	assert.Equal(t, "", ed.FindComponentByID("l4").String("content"), "lookups return copies")

	require.NoError(t, ed.UpdateComponent(ctx, "l4", map[string]any{"content": "deep"}))
	assert.Equal(t, "deep", ed.FindComponentByID("l4").String("content"))

	require.NoError(t, ed.RemoveComponent(ctx, "l2"))
	assert.Nil(t, ed.FindComponentByID("l4"))
	assert.NotNil(t, ed.FindComponentByID("l1"))
}

func TestEditor_StyleMerge(t *testing.T) {
	ctx := context.Background()
	ed, _ := newEditor(t)
	_, err := ed.AddComponent(ctx, header("h", "x"))
	require.NoError(t, err)

	require.NoError(t, ed.UpdateComponentStyles(ctx, "h", map[string]string{"a": "1"}))
	require.NoError(t, ed.UpdateComponentStyles(ctx, "h", map[string]string{"b": "2"}))
	require.NoError(t, ed.UpdateComponent(ctx, "h", map[string]any{"customStyles": map[string]any{"c": "3"}}))

	styles := ed.FindComponentByID("h").CustomStyles.Map()
	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": "3"}, styles)

	assert.ErrorIs(t, ed.UpdateComponentStyles(ctx, "h", map[string]string{"a": "1"}), service.ErrNoChange)
}

func TestEditor_UpdatePatchValidation(t *testing.T) {
	ctx := context.Background()
	ed, _ := newEditor(t)
	_, err := ed.AddComponent(ctx, &domain.Component{ID: "box", Type: domain.ComponentContainer, Children: []*domain.Component{header("kid", "k")}})
	require.NoError(t, err)
	_, err = ed.AddComponent(ctx, header("other", "o"))
	require.NoError(t, err)
	depth := ed.State().UndoDepth

	err = ed.UpdateComponent(ctx, "box", map[string]any{"id": "renamed", "content": "x"})
	assert.ErrorIs(t, err, service.ErrInvalidPatch)
	err = ed.UpdateComponent(ctx, "box", map[string]any{"customStyles": map[string]any{"color": 3}, "content": "x"})
	assert.ErrorIs(t, err, service.ErrInvalidPatch)
	err = ed.UpdateComponent(ctx, "box", map[string]any{"children": []any{map[string]any{"id": "other", "type": "p"}}})
	assert.ErrorIs(t, err, service.ErrDuplicateID)
	assert.Equal(t, depth, ed.State().UndoDepth)
	assert.Equal(t, "", ed.FindComponentByID("box").String("content"), "a rejected patch applies nothing")

	// replacing children may reuse the ids being replaced
	err = ed.UpdateComponent(ctx, "box", map[string]any{"children": []any{
		map[string]any{"id": "kid", "type": "paragraph", "content": "new"},
		map[string]any{"type": "button"},
	}})
	require.NoError(t, err)
	box := ed.FindComponentByID("box")
	require.Len(t, box.Children, 2)
	assert.Equal(t, "new", box.Children[0].String("content"))
	assert.NotEmpty(t, box.Children[1].ID)

	require.NoError(t, ed.UpdateComponent(ctx, "box", map[string]any{"id": "box", "title": "T"}))
	assert.Equal(t, "T", ed.FindComponentByID("box").String("title"))
}

func TestEditor_RemoveChildFromContainer(t *testing.T) {
	ctx := context.Background()
	ed, _ := newEditor(t)
	inner := &domain.Component{ID: "inner", Type: domain.ComponentFlexbox, Children: []*domain.Component{header("grandchild", "g")}}
	_, err := ed.AddComponent(ctx, &domain.Component{ID: "box", Type: domain.ComponentContainer, Children: []*domain.Component{inner}})
	require.NoError(t, err)

	err = ed.RemoveChildFromContainer(ctx, "box", "grandchild")
	assert.ErrorIs(t, err, service.ErrNotFound, "only immediate children are searched")

	ed.SelectComponent("inner")
	require.NoError(t, ed.RemoveChildFromContainer(ctx, "box", "inner"))
	assert.Nil(t, ed.SelectedComponent())
	box := ed.FindComponentByID("box")
	assert.NotNil(t, box.Children)
	assert.Empty(t, box.Children)
}

func TestEditor_ClearCanvas(t *testing.T) {
	ctx := context.Background()
	ed, _ := newEditor(t)
	assert.ErrorIs(t, ed.ClearCanvas(ctx), service.ErrNoChange)

	_, err := ed.AddComponent(ctx, header("a", "A"))
	require.NoError(t, err)
	require.NoError(t, ed.ClearCanvas(ctx))
	state := ed.State()
	assert.Empty(t, state.Components)
	assert.Empty(t, state.Selected)
}

func TestEditor_StateSetters(t *testing.T) {
	ed, _ := newEditor(t)
	ed.SetDragging("x")
	ed.SelectComponent("ghost")
	assert.True(t, ed.TogglePreviewMode())
	require.NoError(t, ed.SetOutputType("css-classes"))

	state := ed.State()
	assert.Equal(t, "x", state.Dragging)
	assert.Equal(t, "ghost", state.Selected)
	assert.True(t, state.Preview)
	assert.Equal(t, domain.OutputCSSClasses, state.OutputType)
	assert.Nil(t, ed.SelectedComponent(), "selection of an absent id resolves to none")

	ed.ClearSelection()
	assert.Empty(t, ed.State().Selected)
	assert.False(t, ed.TogglePreviewMode())
}

func TestEditor_PersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	opts := service.EditorOptions{Store: store, PersistHistory: true, Logger: zaptest.NewLogger(t)}

	ed := service.NewEditor(opts)
	_, err := ed.AddComponent(ctx, header("a", "A"))
	require.NoError(t, err)
	_, err = ed.AddComponent(ctx, header("b", "B"))
	require.NoError(t, err)

	raw, ok, err := store.Get(ctx, domain.SlotComponents)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(raw), `"id":"b"`)

	again := service.NewEditor(opts)
	require.NoError(t, again.Restore(ctx))
	assert.Equal(t, []string{"a", "b"}, rootIDs(again.Document()))
	assert.Equal(t, 2, again.State().UndoDepth)

	require.NoError(t, again.Undo(ctx))
	assert.Equal(t, []string{"a"}, rootIDs(again.Document()))
	assert.Equal(t, []string{"add_component"}, again.HistoryLabels())
}

func TestEditor_RestoreRejectsCorruptSlot(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, domain.SlotComponents, []byte(`{"not":"an array"}`)))

	ed := service.NewEditor(service.EditorOptions{Store: store})
	assert.ErrorIs(t, ed.Restore(ctx), service.ErrInvalidDocument)
	assert.Empty(t, ed.Document())
}

func TestEditor_ExportHTMLAs(t *testing.T) {
	ctx := context.Background()
	ed, _ := newEditor(t)
	_, err := ed.AddComponent(ctx, header("h", "Hi"))
	require.NoError(t, err)

	html, err := ed.ExportHTMLAs(domain.OutputCSSClasses)
	require.NoError(t, err)
	assert.Contains(t, html, `<header class="component-h">Hi</header>`)
	assert.Equal(t, domain.OutputTailwind, ed.OutputType())

	_, err = ed.ExportHTMLAs("nope")
	assert.ErrorIs(t, err, service.ErrInvalidOutputMode)
}
