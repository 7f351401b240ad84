package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pagebuilder/internal/config"
	"pagebuilder/internal/domain"
	"pagebuilder/internal/storage"
)

// testApp wires an App over store, as a fresh process would.
func testApp(t *testing.T, store domain.KVStore, notices *bytes.Buffer) *App {
	t.Helper()
	var w io.Writer
	if notices != nil {
		w = notices
	}
	app := &App{}
	require.NoError(t, app.wire(context.Background(), config.Default(), zaptest.NewLogger(t), store, NewNoticePrinter(w)))
	return app
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestCLI_UndoAcrossInvocations(t *testing.T) {
	store := storage.NewMemoryStore()

	out, err := executeCmd(t, testApp(t, store, nil), "add", "header", "--id", "h1", "-f", "content=Hi")
	require.NoError(t, err)
	assert.Equal(t, "h1\n", out)

	_, err = executeCmd(t, testApp(t, store, nil), "style", "h1", "color=red")
	require.NoError(t, err)

	out, err = executeCmd(t, testApp(t, store, nil), "export", "html", "--mode", "inline-styles")
	require.NoError(t, err)
	assert.Contains(t, out, `<header style="color: red">Hi</header>`)

	out, err = executeCmd(t, testApp(t, store, nil), "show", "h1", "--css")
	require.NoError(t, err)
	assert.Equal(t, "color: red;\n", out)

	_, err = executeCmd(t, testApp(t, store, nil), "undo")
	require.NoError(t, err)
	_, err = executeCmd(t, testApp(t, store, nil), "undo")
	require.NoError(t, err)

	out, err = executeCmd(t, testApp(t, store, nil), "show")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	_, err = executeCmd(t, testApp(t, store, nil), "redo")
	require.NoError(t, err)
	out, err = executeCmd(t, testApp(t, store, nil), "show", "h1")
	require.NoError(t, err)
	assert.Contains(t, out, `"content": "Hi"`)
}

func TestCLI_Notices(t *testing.T) {
	var notices bytes.Buffer
	app := testApp(t, storage.NewMemoryStore(), &notices)

	_, err := executeCmd(t, app, "undo")
	assert.Error(t, err)
	_, err = executeCmd(t, app, "add", "paragraph")
	require.NoError(t, err)

	assert.Equal(t, "· Nothing to undo\n✓ Component added\n", notices.String())
}

func TestCLI_StructureCommands(t *testing.T) {
	app := testApp(t, storage.NewMemoryStore(), nil)

	_, err := executeCmd(t, app, "add", "container", "--id", "box")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "add-child", "box", "button", "--id", "b1", "-f", "content=Go")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "add", "--json", `{"id":"p1","type":"paragraph"}`)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "[button]  b1")

	_, err = executeCmd(t, app, "move", "1", "0")
	require.NoError(t, err)
	assert.Equal(t, "p1", app.Editor.Document()[0].ID)

	_, err = executeCmd(t, app, "update", "b1", "-f", "content=Stop", "-f", "disabled=true")
	require.NoError(t, err)
	b1 := app.Editor.FindComponentByID("b1")
	assert.Equal(t, "Stop", b1.String("content"))
	assert.True(t, b1.Bool("disabled"))

	_, err = executeCmd(t, app, "remove-child", "box", "b1")
	require.NoError(t, err)
	assert.Nil(t, app.Editor.FindComponentByID("b1"))

	_, err = executeCmd(t, app, "move", "x", "0")
	assert.Error(t, err)
	_, err = executeCmd(t, app, "remove", "ghost")
	assert.Error(t, err)

	out, err = executeCmd(t, app, "history")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "  1  remove_child\n"), out)

	_, err = executeCmd(t, app, "clear")
	require.NoError(t, err)
	assert.Empty(t, app.Editor.Document())
}

func TestCLI_ImportExportFiles(t *testing.T) {
	app := testApp(t, storage.NewMemoryStore(), nil)
	dir := t.TempDir()

	in := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(in, []byte(`[{"id":"a","type":"header","content":"A"}]`), 0o644))
	_, err := executeCmd(t, app, "import", in)
	require.NoError(t, err)

	out := filepath.Join(dir, "out.json")
	_, err = executeCmd(t, app, "export", "json", "-o", out)
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a","type":"header","content":"A"}]`, string(data))

	app.Stdin = strings.NewReader(`{"not":"array"}`)
	_, err = executeCmd(t, app, "import", "-")
	assert.Error(t, err)
	assert.Len(t, app.Editor.Document(), 1)
}

func TestCLI_Templates(t *testing.T) {
	app := testApp(t, storage.NewMemoryStore(), nil)

	out, err := executeCmd(t, app, "template", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Simple Landing Page")
	assert.Contains(t, out, "template-1")

	_, err = executeCmd(t, app, "template", "load", "template-2")
	require.NoError(t, err)
	assert.Len(t, app.Editor.Document(), 4)

	out, err = executeCmd(t, app, "template", "save", "Mine")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(id, "template-"))

	_, err = executeCmd(t, app, "template", "delete", id)
	require.NoError(t, err)
	_, err = executeCmd(t, app, "template", "load", id)
	assert.Error(t, err)
}

func TestCLI_Properties(t *testing.T) {
	app := testApp(t, storage.NewMemoryStore(), nil)
	out, err := executeCmd(t, app, "properties")
	require.NoError(t, err)
	assert.Contains(t, out, "Typography")
	assert.Contains(t, out, "fontSize")
}

func TestParseFieldPairs(t *testing.T) {
	got, err := parseFieldPairs([]string{"content=Hello world", "level=2", "required=true", "items=[1,2]", "empty="})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", got["content"])
	assert.Equal(t, "2", got["level"].(interface{ String() string }).String())
	assert.Equal(t, true, got["required"])
	assert.Len(t, got["items"], 2)
	assert.Equal(t, "", got["empty"])

	_, err = parseFieldPairs([]string{"novalue"})
	assert.Error(t, err)
}

func TestCLI_AddRoutesReservedFields(t *testing.T) {
	store := storage.NewMemoryStore()

	_, err := executeCmd(t, testApp(t, store, nil), "add", "container", "--id", "c1")
	require.NoError(t, err)

	_, err = executeCmd(t, testApp(t, store, nil), "add", "header", "--id", "h2",
		"-f", `children=[{"id":"c1","type":"paragraph"}]`, "-f", "id=zzz")
	assert.ErrorIs(t, err, domain.ErrDuplicateID)

	out, err := executeCmd(t, testApp(t, store, nil), "add", "section", "--id", "s1",
		"-f", "id=ignored", "-f", "type=footer",
		"-f", `children=[{"id":"p1","type":"paragraph"}]`,
		"-f", `customStyles={"color":"red"}`)
	require.NoError(t, err)
	assert.Equal(t, "s1\n", out)

	app := testApp(t, store, nil)
	s := app.Editor.FindComponentByID("s1")
	require.NotNil(t, s)
	assert.Equal(t, domain.ComponentType("section"), s.Type)
	require.Len(t, s.Children, 1)
	assert.Equal(t, "p1", s.Children[0].ID)
	color, _ := s.CustomStyles.Get("color")
	assert.Equal(t, "red", color)
	for _, k := range []string{"id", "type", "children", "customStyles"} {
		_, ok := s.Fields.Get(k)
		assert.False(t, ok, k)
	}
	assert.Equal(t, []string{"c1", "s1"}, []string{app.Editor.Document()[0].ID, app.Editor.Document()[1].ID})

	_, err = executeCmd(t, app, "add", "header", "-f", "customStyles=[1]")
	assert.Error(t, err)
}
