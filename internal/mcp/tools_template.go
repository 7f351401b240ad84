package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTemplateTools() {
	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List saved templates (id, name, component count)"),
	), s.handleListTemplates)

	s.mcp.AddTool(mcp.NewTool("save_template",
		mcp.WithDescription("Save a copy of the current document as a named template"),
		mcp.WithString("name", mcp.Description("Template name"), mcp.Required()),
	), s.handleSaveTemplate)

	s.mcp.AddTool(mcp.NewTool("load_template",
		mcp.WithDescription("Replace the document with a copy of a template. Undo restores the previous document."),
		mcp.WithString("id", mcp.Description("Template id"), mcp.Required()),
	), s.handleLoadTemplate)

	s.mcp.AddTool(mcp.NewTool("delete_template",
		mcp.WithDescription("Delete a template"),
		mcp.WithString("id", mcp.Description("Template id"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteTemplate)
}

type templateSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Components int    `json:"components"`
}

func (s *Server) templateSummaries() []templateSummary {
	list := s.templates.List()
	out := make([]templateSummary, len(list))
	for i, t := range list {
		out[i] = templateSummary{ID: t.ID, Name: t.Name, Components: t.Components.Count()}
	}
	return out
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.templateSummaries())
}

func (s *Server) handleSaveTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	t, err := s.templates.Save(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult(fmt.Sprintf("Template %q saved as %s", t.Name, t.ID)), nil
}

func (s *Server) handleLoadTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "id")
	if err != nil {
		return nil, err
	}
	err = s.templates.Load(ctx, id)
	return s.engineResult(ctx, "load_template", err, "Template loaded")
}

func (s *Server) handleDeleteTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "id")
	if err != nil {
		return nil, err
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult("Template deleted"), nil
}
