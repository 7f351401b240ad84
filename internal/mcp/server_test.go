package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *service.MockEmitter) {
	t.Helper()
	store := storage.NewMemoryStore()
	log := zaptest.NewLogger(t)
	emitter := &service.MockEmitter{}
	ed := service.NewEditor(service.EditorOptions{Store: store, Emitter: emitter, Logger: log})
	tmpl := service.NewTemplateService(ed, store, emitter, log)
	require.NoError(t, tmpl.Restore(context.Background()))
	return New(Deps{Editor: ed, Templates: tmpl, Emitter: emitter, Logger: log}), emitter
}

func callTool(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestTools_AddUpdateExport(t *testing.T) {
	ctx := context.Background()
	s, emitter := newTestServer(t)

	res, err := s.handleAddComponent(ctx, callTool(map[string]any{
		"component": `{"id":"h1","type":"header","content":"Hi"}`,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Component h1 added", resultText(t, res))

	res, err = s.handleUpdateStyles(ctx, callTool(map[string]any{"id": "h1", "styles": `{"color":"red"}`}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.handleExportHTML(ctx, callTool(map[string]any{"mode": "inline-styles"}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), `<header style="color: red">Hi</header>`)

	assert.Equal(t, 2, emitter.Count("mcp:document-changed"))
}

func TestTools_OutcomesAreToolErrors(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServer(t)

	res, err := s.handleRemoveComponent(ctx, callTool(map[string]any{"id": "ghost"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.True(t, strings.HasPrefix(resultText(t, res), "no-op"))

	res, err = s.handleUndo(ctx, callTool(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleImportJSON(ctx, callTool(map[string]any{"json": "{}"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.True(t, strings.HasPrefix(resultText(t, res), "rejected"))
}

func TestTools_ArgumentErrors(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServer(t)

	_, err := s.handleAddComponent(ctx, callTool(map[string]any{}))
	assert.Error(t, err)
	_, err = s.handleAddComponent(ctx, callTool(map[string]any{"component": "[1,2]"}))
	assert.Error(t, err)
	_, err = s.handleMoveComponent(ctx, callTool(map[string]any{"oldIndex": 0.5, "newIndex": 1.0}))
	assert.ErrorIs(t, err, errNotInteger)
	_, err = s.handleUpdateComponent(ctx, callTool(map[string]any{"id": "x", "patch": "[]"}))
	assert.Error(t, err)
}

func TestTools_TemplatesAndHistory(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServer(t)

	res, err := s.handleListTemplates(ctx, callTool(nil))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), `"name": "Simple Landing Page"`)

	res, err = s.handleLoadTemplate(ctx, callTool(map[string]any{"id": service.LandingTemplateID}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.handleMoveComponent(ctx, callTool(map[string]any{"oldIndex": 0.0, "newIndex": 3.0}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.handleGetTree(ctx, callTool(nil))
	require.NoError(t, err)
	tree := resultText(t, res)
	assert.Less(t, strings.Index(tree, "hero-1"), strings.Index(tree, "header-1"))

	res, err = s.handleListHistory(ctx, callTool(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `["load_template","move_component"]`, resultText(t, res))

	res, err = s.handleSaveTemplate(ctx, callTool(map[string]any{"name": " "}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestResources_Document(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestServer(t)

	_, err := s.handleAddComponent(ctx, callTool(map[string]any{"component": `{"id":"p","type":"paragraph"}`}))
	require.NoError(t, err)

	var req mcp.ReadResourceRequest
	req.Params.URI = documentURI
	contents, err := s.handleDocumentResource(ctx, req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text := contents[0].(mcp.TextResourceContents).Text
	assert.Contains(t, text, `"id": "p"`)

	req.Params.URI = componentURIPrefix + "p"
	contents, err = s.handleComponentResource(ctx, req)
	require.NoError(t, err)
	assert.Contains(t, contents[0].(mcp.TextResourceContents).Text, `"type": "paragraph"`)

	req.Params.URI = componentURIPrefix + "missing"
	_, err = s.handleComponentResource(ctx, req)
	assert.Error(t, err)
}

func TestComponentIDFromURI(t *testing.T) {
	assert.Equal(t, "hero-1", componentIDFromURI("pagebuilder://component/hero-1"))
	assert.Equal(t, "", componentIDFromURI("pagebuilder://component/a/b"))
	assert.Equal(t, "", componentIDFromURI("pagebuilder://document"))
}

func TestPrompts_LandingPage(t *testing.T) {
	s, _ := newTestServer(t)
	var req mcp.GetPromptRequest
	req.Params.Arguments = map[string]string{"product": "Rocket Skates"}

	res, err := s.handleLandingPagePrompt(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	text := res.Messages[0].Content.(mcp.TextContent).Text
	assert.Contains(t, text, "Rocket Skates")
	assert.Contains(t, text, `"tailwind"`)
}
