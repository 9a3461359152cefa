//go:build !mcp

// Package mcpserver exports the tool registry over the Model Context Protocol.
package mcpserver

import (
	"context"
	"errors"

	"github.com/tripsmith/tripsmith/pkg/tool"
)

// Server is a placeholder MCP server when the mcp build tag is not set.
// It allows the rest of the repo to compile without the SDK.
type Server struct{}

type Option func(*Server)

// New creates a new MCP server (no-op without mcp tag).
func New(_ context.Context, _ ...Option) (*Server, error) { return &Server{}, nil }

// Export is a no-op that would export the registry's tools to MCP clients.
func (s *Server) Export(_ *tool.Registry) error { return nil }

// Serve starts the MCP server (no-op without mcp tag).
func (s *Server) Serve(_ context.Context, _ string) error {
	return errors.New("mcp server not enabled in this build")
}
