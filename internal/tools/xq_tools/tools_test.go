package xq_tools

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ivantohelpyou/vikunja-mcp/internal/config"
	"github.com/ivantohelpyou/vikunja-mcp/internal/server"
	"github.com/ivantohelpyou/vikunja-mcp/internal/xq"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	store := config.NewStoreAt(filepath.Join(t.TempDir(), "config.yaml"))
	store.SetEnvLookup(func(string) string { return "" })
	sc := server.NewServerContext(context.Background(), store, nil)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestQueueError_IncludesKind(t *testing.T) {
	sc := newTestServerContext(t)
	ctx := context.Background()

	err := &xq.Error{
		Kind:     xq.KindAlreadyClaimed,
		Op:       "claim",
		Instance: "work",
		TaskID:   42,
		Message:  "task already claimed by session other",
	}

	result := queueError(ctx, sc, "claim", err)

	if !result.IsError {
		t.Error("expected error result")
	}
	text := resultText(t, result)
	if !strings.Contains(text, "[already_claimed]") {
		t.Errorf("expected kind tag in message, got %q", text)
	}
	if !strings.Contains(text, "42") {
		t.Errorf("expected task ID in message, got %q", text)
	}
}

func TestQueueError_PlainError(t *testing.T) {
	sc := newTestServerContext(t)

	result := queueError(context.Background(), sc, "check", errors.New("boom"))

	if !result.IsError {
		t.Error("expected error result")
	}
	text := resultText(t, result)
	if strings.Contains(text, "[") {
		t.Errorf("did not expect kind tag for untyped error, got %q", text)
	}
}

func TestRegisterXQTools(t *testing.T) {
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
			if err := RegisterXQTools(mcpSrv, sc, tt.readOnly); err != nil {
				t.Errorf("RegisterXQTools() error = %v", err)
			}
		})
	}
}
