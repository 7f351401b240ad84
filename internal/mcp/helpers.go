package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/domain"
)

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to indented JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := domain.EncodeJSON(v, "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// parseComponent decodes a component node from a JSON object string.
func parseComponent(data string) (*domain.Component, error) {
	var c domain.Component
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("component must be a JSON object: %w", err)
	}
	return &c, nil
}

// parseObject decodes a JSON object string, keeping numbers exact.
func parseObject(data string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(data), &m); err != nil || m == nil {
		return nil, fmt.Errorf("expected a JSON object")
	}
	return m, nil
}

// parseStyles decodes a flat {property: value} JSON object.
func parseStyles(data string) (map[string]string, error) {
	var m map[string]string
	if err := json.Unmarshal([]byte(data), &m); err != nil || m == nil {
		return nil, fmt.Errorf("styles must be a JSON object of strings")
	}
	return m, nil
}
