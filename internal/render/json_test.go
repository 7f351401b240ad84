package render_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebuilder/internal/domain"
	"pagebuilder/internal/render"
)

func TestParseJSON_RejectsNonArrays(t *testing.T) {
	for _, text := range []string{"{}", "null", `"x"`, "42"} {
		_, err := render.ParseJSON(text)
		assert.ErrorIs(t, err, render.ErrNotArray, text)
	}

	_, err := render.ParseJSON("not json")
	assert.ErrorIs(t, err, render.ErrParse)

	for _, text := range []string{`[1]`, `[{"id":"a"},"b"]`, `[{"id":3}]`} {
		_, err = render.ParseJSON(text)
		assert.ErrorIs(t, err, render.ErrNotArray, text)
		assert.NotErrorIs(t, err, render.ErrParse, text)
	}
}

func TestParseJSON_EmptyArray(t *testing.T) {
	doc, err := render.ParseJSON(" [] ")
	require.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Empty(t, doc)
}

func TestJSON_RoundTrip(t *testing.T) {
	src := domain.Document{styledHeader(), &domain.Component{
		ID:   "box",
		Type: domain.ComponentContainer,
		Children: []*domain.Component{
			domain.NewComponent("p", domain.ComponentParagraph, map[string]any{"content": "<b>&</b>", "ratio": json.Number("1.50")}),
		},
	}}

	text, err := render.JSON(src)
	require.NoError(t, err)
	assert.Contains(t, text, "\n  {\n    \"id\": \"header-1\",\n    \"type\": \"header\",")
	assert.Contains(t, text, `"<b>&</b>"`)
	assert.Contains(t, text, `1.50`)

	back, err := render.ParseJSON(text)
	require.NoError(t, err)

	again, err := render.JSON(back)
	require.NoError(t, err)
	assert.Equal(t, text, again)
}

func TestJSON_NilDocument(t *testing.T) {
	text, err := render.JSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", text)
}
