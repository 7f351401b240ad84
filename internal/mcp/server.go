package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"pagebuilder/internal/service"
)

// Server is the MCP server for the page builder.
// It exposes tools, resources, and prompts so AI agents can edit the document.
type Server struct {
	mcp       *server.MCPServer
	emitter   service.EventEmitter
	editor    *service.Editor
	templates *service.TemplateService
	log       *zap.Logger
}

// Deps holds all dependencies passed from the command layer to the MCP server.
type Deps struct {
	Editor    *service.Editor
	Templates *service.TemplateService
	Emitter   service.EventEmitter
	Logger    *zap.Logger
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		emitter:   deps.Emitter,
		editor:    deps.Editor,
		templates: deps.Templates,
		log:       deps.Logger,
	}
	if s.emitter == nil {
		s.emitter = service.NopEmitter{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}

	s.mcp = server.NewMCPServer(
		"pagebuilder-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerComponentTools()
	s.registerHistoryTools()
	s.registerExportTools()
	s.registerTemplateTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("starting MCP stdio server")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// emitChanged tells listeners that an agent changed the document.
func (s *Server) emitChanged(ctx context.Context, tool string) {
	s.emitter.Emit(ctx, "mcp:document-changed", map[string]string{"tool": tool})
}

// engineResult turns an engine error into a tool result the agent can read.
// No-ops and rejections are reported as tool errors rather than protocol
// failures so the agent sees why nothing happened.
func (s *Server) engineResult(ctx context.Context, tool string, err error, okText string) (*mcp.CallToolResult, error) {
	outcome := service.OutcomeOf(err)
	s.log.Debug("mcp tool", zap.String("tool", tool), zap.Stringer("outcome", outcome), zap.Error(err))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", outcome, err)), nil
	}
	s.emitChanged(ctx, tool)
	return textResult(okText), nil
}

// requireString reads a mandatory string argument.
func requireString(args map[string]any, key string) (string, error) {
	v, _ := args[key].(string)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

var errNotInteger = errors.New("must be an integer")

// requireInt reads a mandatory integral number argument.
func requireInt(args map[string]any, key string) (int, error) {
	f, ok := args[key].(float64)
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%s %w", key, errNotInteger)
	}
	return int(f), nil
}
