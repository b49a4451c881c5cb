package cmd

import (
	"context"
	"log/slog"
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

func TestRegisterAllTools(t *testing.T) {
	tests := []struct {
		name     string
		readOnly bool
	}{
		{name: "register in read-write mode", readOnly: false},
		{name: "register in read-only mode", readOnly: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newTestServerContext(t)
			mcpSrv := mcpserver.NewMCPServer("test-server", "1.0.0",
				mcpserver.WithToolCapabilities(true),
			)

			if err := registerAllTools(mcpSrv, sc, tt.readOnly); err != nil {
				t.Fatalf("registerAllTools() error = %v", err)
			}

			registered := make(map[string]bool)
			for _, serverTool := range mcpSrv.ListTools() {
				registered[serverTool.Tool.Name] = true
			}
			if len(registered) == 0 {
				t.Fatal("registerAllTools() registered no tools")
			}

			// Write tools must not be registered in read-only mode
			if tt.readOnly && registered["create_task"] {
				t.Error("create_task registered in read-only mode")
			}
			if !tt.readOnly && !registered["create_task"] {
				t.Error("create_task not registered in read-write mode")
			}

			// Read tools are always available
			if !registered["list_tasks"] {
				t.Error("list_tasks not registered")
			}
			if !registered["check_xq"] {
				t.Error("check_xq not registered")
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		transport string
		level     slog.Level
		quieter   slog.Level
	}{
		{
			name:      "stdio defaults to warn",
			transport: "stdio",
			level:     slog.LevelWarn,
			quieter:   slog.LevelInfo,
		},
		{
			name:      "http defaults to info",
			transport: "streamable-http",
			level:     slog.LevelInfo,
			quieter:   slog.LevelDebug,
		},
		{
			name:      "debug overrides stdio quietness",
			debugMode: true,
			transport: "stdio",
			level:     slog.LevelDebug,
			quieter:   slog.LevelDebug - 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := newLogger(tt.debugMode, tt.transport)
			if logger == nil {
				t.Fatal("newLogger() returned nil")
			}
			ctx := context.Background()
			if !logger.Enabled(ctx, tt.level) {
				t.Errorf("newLogger(%v, %q) should log at %v", tt.debugMode, tt.transport, tt.level)
			}
			if logger.Enabled(ctx, tt.quieter) {
				t.Errorf("newLogger(%v, %q) should not log at %v", tt.debugMode, tt.transport, tt.quieter)
			}
		})
	}
}
