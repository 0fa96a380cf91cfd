// Package mcp exposes debug target discovery and launch as Model Context Protocol tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/standardbeagle/jsinspect/internal/inspector"
)

// NewServer creates an MCP server with the inspector tools registered.
// defaultURL is used when a tool call does not name a dev server.
func NewServer(insp *inspector.Inspector, defaultURL, version string) *server.MCPServer {
	srv := server.NewMCPServer(
		"jsinspect",
		version,
		server.WithToolCapabilities(true),
	)
	RegisterTools(srv, insp, defaultURL)
	return srv
}

// ServeStdio runs the server on stdin/stdout until the client disconnects
func ServeStdio(srv *server.MCPServer) error {
	return server.ServeStdio(srv)
}
