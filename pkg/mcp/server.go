// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

// Package mcp exposes the ability registry to MCP clients: every public
// ability becomes a tool, schema and annotations advertised verbatim, every
// call routed through the invocation pipeline.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the mcp-go server around an ability registry.
type Server struct {
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server.
func NewServer(name, version string) *Server {
	return &Server{
		mcpServer: server.NewMCPServer(name, version),
	}
}

// ServeStdio starts the server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeStreamableHTTP starts the server as a streamable HTTP endpoint.
func (s *Server) ServeStreamableHTTP(addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.mcpServer)
	return httpServer.Start(addr)
}
