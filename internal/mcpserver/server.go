package mcpserver

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/edvin/cdcadmin/internal/cdc"
	"github.com/edvin/cdcadmin/internal/core"
)

// Server exposes console operations as MCP tools over streamable HTTP. It is
// mounted behind the API's auth middleware; tool calls reach the backend with
// the caller's token.
type Server struct {
	mcp    *server.MCPServer
	http   *server.StreamableHTTPServer
	tools  []server.ServerTool
	logger zerolog.Logger
}

// New registers the console tools on a new MCP server.
func New(cfg *Config, services *core.Services, pageSize int, logger zerolog.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	t := &tools{svc: services, pageSize: pageSize}
	built := buildTools(t.defs(), cfg)

	mcpSrv := server.NewMCPServer(
		"cdc-console",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithInstructions(cfg.Instructions),
	)
	mcpSrv.AddTools(built...)

	httpSrv := server.NewStreamableHTTPServer(mcpSrv,
		server.WithEndpointPath("/mcp"),
		server.WithHTTPContextFunc(forwardToken),
	)

	logger.Info().Int("tools", len(built)).Msg("mounted MCP endpoint at /mcp")

	return &Server{mcp: mcpSrv, http: httpSrv, tools: built, logger: logger}
}

// forwardToken carries the operator token from the HTTP request into the
// tool call context.
func forwardToken(ctx context.Context, r *http.Request) context.Context {
	if token := cdc.TokenFromContext(r.Context()); token != "" {
		return cdc.WithToken(ctx, token)
	}
	return ctx
}

// ToolNames lists the registered tools.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, len(s.tools))
	for _, t := range s.tools {
		names = append(names, t.Tool.Name)
	}
	return names
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.http.ServeHTTP(w, r)
}
