package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerHistoryTools() {
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Restore the document as it was before the last change"),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Re-apply the last undone change"),
	), s.handleRedo)

	s.mcp.AddTool(mcp.NewTool("list_history",
		mcp.WithDescription("List the undoable operations, oldest first"),
	), s.handleListHistory)
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.engineResult(ctx, "undo", s.editor.Undo(ctx), "Undo successful")
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.engineResult(ctx, "redo", s.editor.Redo(ctx), "Redo successful")
}

func (s *Server) handleListHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	labels := s.editor.HistoryLabels()
	if labels == nil {
		labels = []string{}
	}
	return jsonResult(labels)
}
