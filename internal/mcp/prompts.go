package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("landing_page",
		mcp.WithPromptDescription("Guide through building a landing page from components"),
		mcp.WithArgument("product",
			mcp.ArgumentDescription("Product or topic the page promotes"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("outputMode",
			mcp.ArgumentDescription("tailwind, inline-styles or css-classes (default tailwind)"),
		),
	), s.handleLandingPagePrompt)
}

func (s *Server) handleLandingPagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	product := req.Params.Arguments["product"]
	mode := req.Params.Arguments["outputMode"]
	if mode == "" {
		mode = "tailwind"
	}
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build a landing page for: %s", product),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a landing page for "%s". Follow these steps:

1. Call list_templates. If "Simple Landing Page" exists, load_template it as a starting point; otherwise clear_canvas.
2. Use update_component to rewrite the header, hero and cta copy for %s.
3. Add a features component with three items ({"title","description"}) and a testimonial or two with add_component.
4. Put related buttons or links inside a flexbox using add_child.
5. Tune spacing and colors with update_styles; list_style_properties shows the supported properties.
6. Call set_output_type with "%s", then export_html and return the result.

Check get_tree after structural changes. If a step goes wrong, use undo rather than rebuilding.`, product, product, mode),
				},
			},
		},
	}, nil
}
