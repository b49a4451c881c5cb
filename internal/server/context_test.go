package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivantohelpyou/vikunja-mcp/internal/config"
)

func TestClientForInstanceCaches(t *testing.T) {
	sc := newTestServerContext(t)
	require.NoError(t, sc.Store().AddInstance("work", config.Instance{URL: "https://w.example.com", Token: "tk"}))

	first, err := sc.ClientForInstance("work")
	require.NoError(t, err)
	second, err := sc.ClientForInstance("work")
	require.NoError(t, err)
	assert.Same(t, first, second, "client should be cached per instance")

	sc.InvalidateClient("work")
	third, err := sc.ClientForInstance("work")
	require.NoError(t, err)
	assert.NotSame(t, first, third, "invalidation should force a fresh client")
}

func TestClientForInstanceDefaultsToCurrent(t *testing.T) {
	sc := newTestServerContext(t)
	require.NoError(t, sc.Store().AddInstance("work", config.Instance{URL: "https://w.example.com", Token: "tk"}))

	client, err := sc.ClientForInstance("")
	require.NoError(t, err)
	assert.Contains(t, client.BaseURL(), "w.example.com")
}

func TestClientForInstanceUnknown(t *testing.T) {
	sc := newTestServerContext(t)

	_, err := sc.ClientForInstance("missing")
	assert.Error(t, err)
}

func TestShutdownIsIdempotent(t *testing.T) {
	sc := newTestServerContext(t)

	assert.False(t, sc.IsShutdown())
	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	require.NoError(t, sc.Shutdown())

	select {
	case <-sc.Context().Done():
	default:
		t.Fatal("expected context to be cancelled after shutdown")
	}
}

func TestQueueIsWired(t *testing.T) {
	sc := newTestServerContext(t)
	require.NotNil(t, sc.Queue())
	assert.NotEmpty(t, sc.Queue().Session())
}
