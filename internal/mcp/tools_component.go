package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/render"
)

func (s *Server) registerComponentTools() {
	// ── add_component ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_component",
		mcp.WithDescription("Append a component to the end of the document and select it. The id is generated when omitted."),
		mcp.WithString("component",
			mcp.Description(`Component JSON object, e.g. {"type":"header","content":"Hello","customStyles":{"color":"red"}}`),
			mcp.Required(),
		),
	), s.handleAddComponent)

	// ── add_child ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_child",
		mcp.WithDescription("Append a component to the children of an existing component"),
		mcp.WithString("parentId", mcp.Description("Id of the parent component"), mcp.Required()),
		mcp.WithString("component", mcp.Description("Child component JSON object"), mcp.Required()),
	), s.handleAddChild)

	// ── update_component ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_component",
		mcp.WithDescription("Shallow-merge fields into a component. customStyles merges, children replaces, id cannot change."),
		mcp.WithString("id", mcp.Description("Component id"), mcp.Required()),
		mcp.WithString("patch", mcp.Description(`JSON object of fields, e.g. {"content":"New text","level":2}`), mcp.Required()),
	), s.handleUpdateComponent)

	// ── update_styles ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_styles",
		mcp.WithDescription("Merge CSS properties (camelCase keys) into a component's customStyles"),
		mcp.WithString("id", mcp.Description("Component id"), mcp.Required()),
		mcp.WithString("styles", mcp.Description(`JSON object of strings, e.g. {"fontSize":"24px"}`), mcp.Required()),
	), s.handleUpdateStyles)

	// ── remove_component (destructive) ─────────────────
	s.mcp.AddTool(mcp.NewTool("remove_component",
		mcp.WithDescription("Remove a component and its subtree from wherever it lives in the document"),
		mcp.WithString("id", mcp.Description("Component id"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRemoveComponent)

	// ── remove_child (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("remove_child",
		mcp.WithDescription("Remove an immediate child of a component"),
		mcp.WithString("parentId", mcp.Description("Parent component id"), mcp.Required()),
		mcp.WithString("childId", mcp.Description("Child component id"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRemoveChild)

	// ── move_component ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_component",
		mcp.WithDescription("Reorder a root component so it ends up at newIndex"),
		mcp.WithNumber("oldIndex", mcp.Description("Current root index"), mcp.Required()),
		mcp.WithNumber("newIndex", mcp.Description("Target root index"), mcp.Required()),
	), s.handleMoveComponent)

	// ── clear_canvas (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("clear_canvas",
		mcp.WithDescription("Remove every component. Undo restores them."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleClearCanvas)

	// ── get_component ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_component",
		mcp.WithDescription("Return one component, searched at any depth"),
		mcp.WithString("id", mcp.Description("Component id"), mcp.Required()),
	), s.handleGetComponent)

	// ── get_tree ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_tree",
		mcp.WithDescription("Show the document as an indented tree of ids and types"),
	), s.handleGetTree)
}

func boolPtr(v bool) *bool { return &v }

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleAddComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := requireString(req.GetArguments(), "component")
	if err != nil {
		return nil, err
	}
	c, err := parseComponent(raw)
	if err != nil {
		return nil, err
	}
	id, err := s.editor.AddComponent(ctx, c)
	return s.engineResult(ctx, "add_component", err, fmt.Sprintf("Component %s added", id))
}

func (s *Server) handleAddChild(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	parentID, err := requireString(args, "parentId")
	if err != nil {
		return nil, err
	}
	raw, err := requireString(args, "component")
	if err != nil {
		return nil, err
	}
	c, err := parseComponent(raw)
	if err != nil {
		return nil, err
	}
	id, err := s.editor.AddChildToContainer(ctx, parentID, c)
	return s.engineResult(ctx, "add_child", err, fmt.Sprintf("Component %s added to %s", id, parentID))
}

func (s *Server) handleUpdateComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "id")
	if err != nil {
		return nil, err
	}
	raw, err := requireString(args, "patch")
	if err != nil {
		return nil, err
	}
	patch, err := parseObject(raw)
	if err != nil {
		return nil, fmt.Errorf("patch: %w", err)
	}
	err = s.editor.UpdateComponent(ctx, id, patch)
	return s.engineResult(ctx, "update_component", err, fmt.Sprintf("Component %s updated", id))
}

func (s *Server) handleUpdateStyles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "id")
	if err != nil {
		return nil, err
	}
	raw, err := requireString(args, "styles")
	if err != nil {
		return nil, err
	}
	styles, err := parseStyles(raw)
	if err != nil {
		return nil, err
	}
	err = s.editor.UpdateComponentStyles(ctx, id, styles)
	return s.engineResult(ctx, "update_styles", err, fmt.Sprintf("Styles of %s updated", id))
}

func (s *Server) handleRemoveComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "id")
	if err != nil {
		return nil, err
	}
	err = s.editor.RemoveComponent(ctx, id)
	return s.engineResult(ctx, "remove_component", err, fmt.Sprintf("Component %s removed", id))
}

func (s *Server) handleRemoveChild(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	parentID, err := requireString(args, "parentId")
	if err != nil {
		return nil, err
	}
	childID, err := requireString(args, "childId")
	if err != nil {
		return nil, err
	}
	err = s.editor.RemoveChildFromContainer(ctx, parentID, childID)
	return s.engineResult(ctx, "remove_child", err, fmt.Sprintf("Component %s removed from %s", childID, parentID))
}

func (s *Server) handleMoveComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	from, err := requireInt(args, "oldIndex")
	if err != nil {
		return nil, err
	}
	to, err := requireInt(args, "newIndex")
	if err != nil {
		return nil, err
	}
	err = s.editor.MoveComponent(ctx, from, to)
	return s.engineResult(ctx, "move_component", err, fmt.Sprintf("Moved root %d to %d", from, to))
}

func (s *Server) handleClearCanvas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	err := s.editor.ClearCanvas(ctx)
	return s.engineResult(ctx, "clear_canvas", err, "Canvas cleared")
}

func (s *Server) handleGetComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "id")
	if err != nil {
		return nil, err
	}
	c := s.editor.FindComponentByID(id)
	if c == nil {
		return mcp.NewToolResultError(fmt.Sprintf("component %s not found", id)), nil
	}
	return jsonResult(c)
}

func (s *Server) handleGetTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return textResult(render.Tree(s.editor.Document())), nil
}
