package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/service"
)

// ─────────────────────────────────────────────────────────────
// History tests
// ─────────────────────────────────────────────────────────────

func docOf(ids ...string) domain.Document {
	doc := domain.Document{}
	for _, id := range ids {
		doc = append(doc, header(id, id))
	}
	return doc
}

func TestHistory_SnapshotsAreIndependent(t *testing.T) {
	h := service.NewHistory(0)
	live := docOf("a")
	h.Checkpoint("edit", live)

	live[0].Fields.Set("content", "changed after checkpoint")

	restored, ok := h.Undo(docOf("b"))
	require.True(t, ok)
	assert.Equal(t, "a", restored[0].String("content"))
}

func TestHistory_UndoRedoSymmetry(t *testing.T) {
	h := service.NewHistory(0)
	h.Checkpoint("one", docOf())
	h.Checkpoint("two", docOf("a"))
	current := docOf("a", "b")

	prev, ok := h.Undo(current)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, rootIDs(prev))
	assert.True(t, h.CanRedo())

	next, ok := h.Redo(prev)
	require.True(t, ok)
	assert.True(t, current.Equal(next))

	undo, redo := h.Depth()
	assert.Equal(t, 2, undo)
	assert.Equal(t, 0, redo)
}

func TestHistory_CheckpointClearsRedo(t *testing.T) {
	h := service.NewHistory(0)
	h.Checkpoint("one", docOf())
	_, ok := h.Undo(docOf("a"))
	require.True(t, ok)
	require.True(t, h.CanRedo())

	h.Checkpoint("two", docOf())
	assert.False(t, h.CanRedo())
	_, ok = h.Redo(docOf())
	assert.False(t, ok)
}

func TestHistory_MaxEntriesDropsOldest(t *testing.T) {
	h := service.NewHistory(2)
	h.Checkpoint("first", docOf())
	h.Checkpoint("second", docOf("a"))
	h.Checkpoint("third", docOf("a", "b"))

	assert.Equal(t, []string{"second", "third"}, h.Labels())
}

func TestHistory_ExportImport(t *testing.T) {
	h := service.NewHistory(0)
	h.Checkpoint("one", docOf())
	h.Checkpoint("two", docOf("a"))
	_, ok := h.Undo(docOf("a", "b"))
	require.True(t, ok)

	data, err := h.Export()
	require.NoError(t, err)

	restored := service.NewHistory(0)
	require.NoError(t, restored.Import(data))
	undo, redo := restored.Depth()
	assert.Equal(t, 1, undo)
	assert.Equal(t, 1, redo)

	next, ok := restored.Redo(docOf("a"))
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, rootIDs(next))

	assert.Error(t, restored.Import([]byte(`{"undo":[{"label":"x","document":[{"id":"d"},{"id":"d"}]}]}`)))
	assert.Equal(t, []string{"one", "two"}, restored.Labels(), "failed import leaves history untouched")
}
