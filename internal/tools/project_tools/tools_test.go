package project_tools

import (
	"context"
	"path/filepath"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ivantohelpyou/vikunja-mcp/internal/config"
	"github.com/ivantohelpyou/vikunja-mcp/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	store := config.NewStoreAt(filepath.Join(t.TempDir(), "config.yaml"))
	store.SetEnvLookup(func(string) string { return "" })
	sc := server.NewServerContext(context.Background(), store, nil)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestRegisterProjectTools(t *testing.T) {
	sc := newTestServerContext(t)

	mcpSrv := mcpserver.NewMCPServer("test-server", "1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	tests := []struct {
		name     string
		readOnly bool
	}{
		{name: "register in read-write mode", readOnly: false},
		{name: "register in read-only mode", readOnly: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := RegisterProjectTools(mcpSrv, sc, tt.readOnly); err != nil {
				t.Errorf("RegisterProjectTools() error = %v", err)
			}
		})
	}
}
