package httpapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pagebuilder/internal/httpapi"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

type apiClient struct {
	t   *testing.T
	srv *httptest.Server
}

func newAPI(t *testing.T) (*apiClient, *service.Editor) {
	t.Helper()
	store := storage.NewMemoryStore()
	log := zaptest.NewLogger(t)
	ed := service.NewEditor(service.EditorOptions{Store: store, Logger: log})
	tmpl := service.NewTemplateService(ed, store, nil, log)
	require.NoError(t, tmpl.Restore(context.Background()))

	srv := httptest.NewServer(httpapi.NewRouter(ed, tmpl, log, nil).Setup())
	t.Cleanup(srv.Close)
	return &apiClient{t: t, srv: srv}, ed
}

func (c *apiClient) do(method, path, body string) (int, string) {
	c.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.srv.URL+path, r)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, string(data)
}

func TestAPI_Health(t *testing.T) {
	api, _ := newAPI(t)
	status, body := api.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"healthy"}`, body)
}

func TestAPI_ComponentLifecycle(t *testing.T) {
	api, ed := newAPI(t)

	status, body := api.do(http.MethodPost, "/api/components", `{"id":"h1","type":"header","content":"Hi"}`)
	require.Equal(t, http.StatusCreated, status, body)
	assert.JSONEq(t, `{"id":"h1"}`, body)

	status, body = api.do(http.MethodPatch, "/api/components/h1/styles", `{"color":"red"}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Contains(t, body, `"customStyles":{"color":"red"}`)

	status, body = api.do(http.MethodGet, "/api/export/html?mode=inline-styles", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `<header style="color: red">Hi</header>`)

	status, _ = api.do(http.MethodPost, "/api/components/h1/children", `{"id":"c1","type":"paragraph"}`)
	require.Equal(t, http.StatusCreated, status)
	status, _ = api.do(http.MethodDelete, "/api/components/h1/children/c1", "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = api.do(http.MethodPatch, "/api/components/h1", `{"content":"Hello","level":2}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hello", ed.FindComponentByID("h1").String("content"))
	assert.Equal(t, 2, ed.FindComponentByID("h1").Int("level", 0))

	status, _ = api.do(http.MethodDelete, "/api/components/h1", "")
	assert.Equal(t, http.StatusNoContent, status)
	status, body = api.do(http.MethodPost, "/api/undo", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"id":"h1"`)
}

func TestAPI_OutcomeStatuses(t *testing.T) {
	api, _ := newAPI(t)

	cases := []struct {
		name, method, path, body string
		want                     int
	}{
		{"missing component", http.MethodDelete, "/api/components/ghost", "", http.StatusNotFound},
		{"nothing to undo", http.MethodPost, "/api/undo", "", http.StatusConflict},
		{"clear empty canvas", http.MethodPost, "/api/clear", "", http.StatusConflict},
		{"import object", http.MethodPut, "/api/document", `{}`, http.StatusBadRequest},
		{"import duplicate ids", http.MethodPut, "/api/document", `[{"id":"a"},{"id":"a"}]`, http.StatusUnprocessableEntity},
		{"move without indices", http.MethodPost, "/api/move", `{}`, http.StatusBadRequest},
		{"move out of range", http.MethodPost, "/api/move", `{"oldIndex":0,"newIndex":4}`, http.StatusUnprocessableEntity},
		{"bad output type", http.MethodPut, "/api/state", `{"outputType":"bootstrap"}`, http.StatusBadRequest},
		{"missing template", http.MethodPost, "/api/templates/template-x/load", "", http.StatusNotFound},
		{"blank template name", http.MethodPost, "/api/templates", `{"name":"  "}`, http.StatusUnprocessableEntity},
		{"patch not object", http.MethodPatch, "/api/components/x", `[1]`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := api.do(tc.method, tc.path, tc.body)
			assert.Equal(t, tc.want, status, body)
			assert.Contains(t, body, `"error":true`)
		})
	}
}

func TestAPI_ImportMoveExport(t *testing.T) {
	api, _ := newAPI(t)

	status, _ := api.do(http.MethodPut, "/api/document", `[{"id":"A","type":"paragraph"},{"id":"B","type":"paragraph"},{"id":"C","type":"paragraph"}]`)
	require.Equal(t, http.StatusOK, status)

	status, body := api.do(http.MethodPost, "/api/move", `{"oldIndex":0,"newIndex":2}`)
	require.Equal(t, http.StatusOK, status)
	var doc []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	require.Len(t, doc, 3)
	assert.Equal(t, "B", doc[0]["id"])
	assert.Equal(t, "A", doc[2]["id"])

	status, body = api.do(http.MethodGet, "/api/export/json", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "\n  {\n    \"id\": \"B\"")

	status, body = api.do(http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"undo":["import_json","move_component"]}`, body)
}

func TestAPI_StateAndTemplates(t *testing.T) {
	api, ed := newAPI(t)

	status, body := api.do(http.MethodPut, "/api/state", `{"outputType":"css-classes","isPreviewMode":true,"selectedComponent":"x"}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.Contains(t, body, `"outputType":"css-classes"`)
	assert.Contains(t, body, `"isPreviewMode":true`)

	status, _ = api.do(http.MethodPost, "/api/templates/"+service.LandingTemplateID+"/load", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, ed.Document(), 4)

	status, body = api.do(http.MethodPost, "/api/templates", `{"name":"Mine"}`)
	require.Equal(t, http.StatusCreated, status)
	var saved struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &saved))

	status, _ = api.do(http.MethodDelete, "/api/templates/"+saved.ID, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, body = api.do(http.MethodGet, "/api/templates", "")
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, body, saved.ID)

	status, body = api.do(http.MethodGet, "/api/tree", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "hero-1")
}
