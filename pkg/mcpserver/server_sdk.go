//go:build mcp

// Package mcpserver exports the tool registry over the Model Context Protocol.
package mcpserver

import (
	"context"
	"net"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tripsmith/tripsmith/pkg/tool"
)

type Server struct {
	srv *mcp.Server
}

type Option func(*Server)

func New(ctx context.Context, _ ...Option) (*Server, error) {
	return &Server{srv: mcp.NewServer()}, nil
}

// Export registers every tool in the registry with the MCP server. Tool
// results map to a single text content block, with IsError carried through.
func (s *Server) Export(reg *tool.Registry) error {
	for _, t := range reg.List() {
		t := t
		desc := t.Describe()
		if err := s.srv.RegisterTool(mcp.Tool{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: desc.InputSchema,
			Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
				res := t.Invoke(ctx, args)
				return map[string]any{
					"content":  res.Content,
					"is_error": res.IsError,
				}, nil
			},
		}); err != nil {
			return err
		}
	}
	return nil
}

// Serve accepts TCP connections and speaks MCP over each.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()
	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		go func() { _ = s.srv.Serve(ctx, conn) }()
	}
}

// ServeConn serves a single pre-established connection.
func (s *Server) ServeConn(ctx context.Context, conn net.Conn) error {
	return s.srv.Serve(ctx, conn)
}
