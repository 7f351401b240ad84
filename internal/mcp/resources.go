package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"pagebuilder/internal/domain"
)

const (
	documentURI          = "pagebuilder://document"
	templatesURI         = "pagebuilder://templates"
	componentURIPrefix   = "pagebuilder://component/"
	componentURITemplate = componentURIPrefix + "{id}"
)

func (s *Server) registerResources() {
	// ── pagebuilder://document ─────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		documentURI,
		"Current Document",
		mcp.WithResourceDescription("The component tree as a JSON array"),
		mcp.WithMIMEType("application/json"),
	), s.handleDocumentResource)

	// ── pagebuilder://templates ────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		templatesURI,
		"Templates",
		mcp.WithMIMEType("application/json"),
	), s.handleTemplatesResource)

	// ── pagebuilder://component/{id} ───────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			componentURITemplate,
			"One Component",
		),
		s.handleComponentResource,
	)
}

func (s *Server) handleDocumentResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text, err := s.editor.ExportJSON()
	if err != nil {
		return nil, err
	}
	return jsonContents(documentURI, text), nil
}

func (s *Server) handleTemplatesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := domain.EncodeJSON(s.templateSummaries(), "  ")
	if err != nil {
		return nil, err
	}
	return jsonContents(templatesURI, string(data)), nil
}

func (s *Server) handleComponentResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id := componentIDFromURI(uri)
	if id == "" {
		return nil, fmt.Errorf("could not extract component id from URI: %s", uri)
	}
	c := s.editor.FindComponentByID(id)
	if c == nil {
		return nil, fmt.Errorf("component %s not found", id)
	}
	data, err := domain.EncodeJSON(c, "  ")
	if err != nil {
		return nil, err
	}
	return jsonContents(uri, string(data)), nil
}

// componentIDFromURI extracts the id from "pagebuilder://component/{id}".
func componentIDFromURI(uri string) string {
	id, ok := strings.CutPrefix(uri, componentURIPrefix)
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}

func jsonContents(uri, text string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		},
	}
}
