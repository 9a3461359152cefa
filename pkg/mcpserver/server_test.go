//go:build !mcp

package mcpserver

import (
	"context"
	"testing"

	"github.com/tripsmith/tripsmith/pkg/tool"
)

func TestNoopServer(t *testing.T) {
	s, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Export(tool.NewRegistry()); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if err := s.Serve(context.Background(), "127.0.0.1:0"); err == nil {
		t.Fatal("Serve succeeded without mcp build tag")
	}
}
