package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/domain"
)

func (s *Server) registerExportTools() {
	s.mcp.AddTool(mcp.NewTool("export_html",
		mcp.WithDescription("Render the document as a standalone HTML page"),
		mcp.WithString("mode",
			mcp.Description("Output mode (defaults to the editor's current mode)"),
			mcp.Enum("tailwind", "inline-styles", "css-classes"),
		),
	), s.handleExportHTML)

	s.mcp.AddTool(mcp.NewTool("export_json",
		mcp.WithDescription("Serialize the document as an indented JSON array"),
	), s.handleExportJSON)

	s.mcp.AddTool(mcp.NewTool("import_json",
		mcp.WithDescription("Replace the whole document with a JSON array of components. Undo restores the previous one."),
		mcp.WithString("json", mcp.Description("JSON array of components"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleImportJSON)

	s.mcp.AddTool(mcp.NewTool("set_output_type",
		mcp.WithDescription("Select the styling strategy used by export_html"),
		mcp.WithString("mode",
			mcp.Description("Output mode"),
			mcp.Enum("tailwind", "inline-styles", "css-classes"),
			mcp.Required(),
		),
	), s.handleSetOutputType)

	s.mcp.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Return the document plus selection, preview and output settings"),
	), s.handleGetState)

	s.mcp.AddTool(mcp.NewTool("list_style_properties",
		mcp.WithDescription("List the stylable CSS properties grouped as in the property panel"),
	), s.handleListStyleProperties)
}

func (s *Server) handleExportHTML(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode := req.GetString("mode", "")
	if mode == "" {
		return textResult(s.editor.ExportHTML()), nil
	}
	html, err := s.editor.ExportHTMLAs(domain.OutputMode(mode))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult(html), nil
}

func (s *Server) handleExportJSON(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := s.editor.ExportJSON()
	if err != nil {
		return nil, err
	}
	return textResult(text), nil
}

func (s *Server) handleImportJSON(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := requireString(req.GetArguments(), "json")
	if err != nil {
		return nil, err
	}
	err = s.editor.ImportJSON(ctx, text)
	return s.engineResult(ctx, "import_json", err, "Components imported successfully")
}

func (s *Server) handleSetOutputType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode, err := requireString(req.GetArguments(), "mode")
	if err != nil {
		return nil, err
	}
	if err := s.editor.SetOutputType(mode); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult("Output type set to " + mode), nil
}

func (s *Server) handleGetState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.editor.State())
}

func (s *Server) handleListStyleProperties(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]any{
		"groups":     domain.PropertyGroups,
		"properties": domain.StyleProperties,
	})
}
