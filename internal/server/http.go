package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// HTTPServerConfig holds configuration for the MCP HTTP transport.
type HTTPServerConfig struct {
	// Addr is the address to bind to (e.g., ":8080").
	Addr string

	// DisableStreaming serves plain JSON responses instead of SSE
	// streams, for clients behind buffering proxies.
	DisableStreaming bool
}

// HTTPServer serves the MCP protocol over streamable HTTP at /mcp,
// alongside the health endpoints used by deployment probes.
type HTTPServer struct {
	mcpServer  *mcpserver.MCPServer
	httpServer *http.Server
	health     *HealthChecker
	config     HTTPServerConfig
}

// NewHTTPServer creates an HTTP transport for the given MCP server.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, health *HealthChecker, config HTTPServerConfig) *HTTPServer {
	return &HTTPServer{
		mcpServer: mcpServer,
		health:    health,
		config:    config,
	}
}

// Start starts the HTTP server in a blocking manner.
func (s *HTTPServer) Start() error {
	mux := http.NewServeMux()

	var mcpHandler http.Handler
	if s.config.DisableStreaming {
		mcpHandler = mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath("/mcp"),
			mcpserver.WithDisableStreaming(true),
		)
	} else {
		mcpHandler = mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath("/mcp"),
		)
	}
	mux.Handle("/mcp", mcpHandler)

	if s.health != nil {
		s.health.RegisterHealthEndpoints(mux)
	}

	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("starting HTTP server", "addr", s.config.Addr, "endpoint", "/mcp")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		slog.Info("shutting down HTTP server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
