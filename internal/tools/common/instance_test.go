package common

import (
	"context"
	"path/filepath"
	"testing"

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

func TestGetInstanceFromArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		expected string
	}{
		{
			name:     "no instance specified returns empty",
			args:     map[string]interface{}{},
			expected: "",
		},
		{
			name: "instance specified returns instance",
			args: map[string]interface{}{
				"instance": "work",
			},
			expected: "work",
		},
		{
			name: "instance with other params",
			args: map[string]interface{}{
				"instance": "personal",
				"other":    "value",
			},
			expected: "personal",
		},
		{
			name:     "nil args returns empty",
			args:     nil,
			expected: "",
		},
		{
			name: "non-string instance type returns empty",
			args: map[string]interface{}{
				"instance": 123,
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetInstanceFromArgs(tt.args)
			if result != tt.expected {
				t.Errorf("GetInstanceFromArgs() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestResolveInstance(t *testing.T) {
	sc := newTestServerContext(t)
	if err := sc.Store().AddInstance("work", config.Instance{URL: "https://vikunja.example.com", Token: "tok"}); err != nil {
		t.Fatalf("failed to add instance: %v", err)
	}

	tests := []struct {
		name     string
		args     map[string]interface{}
		expected string
	}{
		{
			name: "explicit instance wins",
			args: map[string]interface{}{
				"instance": "other",
			},
			expected: "other",
		},
		{
			name:     "no instance falls back to current",
			args:     map[string]interface{}{},
			expected: "work",
		},
		{
			name: "empty instance falls back to current",
			args: map[string]interface{}{
				"instance": "",
			},
			expected: "work",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ResolveInstance(tt.args, sc)
			if result != tt.expected {
				t.Errorf("ResolveInstance() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestResolveInstance_NothingConfigured(t *testing.T) {
	sc := newTestServerContext(t)

	if result := ResolveInstance(map[string]interface{}{}, sc); result != "" {
		t.Errorf("expected empty instance, got %q", result)
	}
}

func TestGetInt64Arg(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]interface{}
		arg       string
		expected  int64
		expectErr bool
	}{
		{
			name:     "whole float64 accepted",
			args:     map[string]interface{}{"project_id": float64(42)},
			arg:      "project_id",
			expected: 42,
		},
		{
			name:      "missing argument errors",
			args:      map[string]interface{}{},
			arg:       "project_id",
			expectErr: true,
		},
		{
			name:      "nil argument errors",
			args:      map[string]interface{}{"project_id": nil},
			arg:       "project_id",
			expectErr: true,
		},
		{
			name:      "string argument errors",
			args:      map[string]interface{}{"project_id": "42"},
			arg:       "project_id",
			expectErr: true,
		},
		{
			name:      "fractional number errors",
			args:      map[string]interface{}{"project_id": 42.5},
			arg:       "project_id",
			expectErr: true,
		},
		{
			name:     "zero is valid",
			args:     map[string]interface{}{"project_id": float64(0)},
			arg:      "project_id",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := GetInt64Arg(tt.args, tt.arg)
			if tt.expectErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
			if result != tt.expected {
				t.Errorf("GetInt64Arg() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestGetOptionalInt64Arg(t *testing.T) {
	v, ok, err := GetOptionalInt64Arg(map[string]interface{}{}, "bucket_id")
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if ok {
		t.Error("expected ok=false for absent argument")
	}
	if v != 0 {
		t.Errorf("expected 0, got %d", v)
	}

	v, ok, err = GetOptionalInt64Arg(map[string]interface{}{"bucket_id": float64(7)}, "bucket_id")
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if !ok {
		t.Error("expected ok=true for present argument")
	}
	if v != 7 {
		t.Errorf("expected 7, got %d", v)
	}

	if _, _, err = GetOptionalInt64Arg(map[string]interface{}{"bucket_id": "7"}, "bucket_id"); err == nil {
		t.Error("expected error for non-numeric argument")
	}
}

func TestGetStringArg(t *testing.T) {
	v, err := GetStringArg(map[string]interface{}{"title": "Inbox"}, "title")
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if v != "Inbox" {
		t.Errorf("GetStringArg() = %q, expected %q", v, "Inbox")
	}

	if _, err = GetStringArg(map[string]interface{}{}, "title"); err == nil {
		t.Error("expected error for missing argument")
	}

	if _, err = GetStringArg(map[string]interface{}{"title": ""}, "title"); err == nil {
		t.Error("expected error for empty argument")
	}
}
