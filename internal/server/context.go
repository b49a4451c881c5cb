package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ivantohelpyou/vikunja-mcp/internal/config"
	"github.com/ivantohelpyou/vikunja-mcp/internal/instrumentation"
	"github.com/ivantohelpyou/vikunja-mcp/internal/vikunja"
	"github.com/ivantohelpyou/vikunja-mcp/internal/xq"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	store    *config.Store
	clients  map[string]*vikunja.Client // Maps instance name to client
	queue    *xq.Queue
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
	audit    *instrumentation.AuditLogger
	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, store *config.Store, logger *slog.Logger) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)
	if logger == nil {
		logger = slog.Default()
	}

	sc := &ServerContext{
		ctx:     shutdownCtx,
		cancel:  cancel,
		store:   store,
		clients: make(map[string]*vikunja.Client),
		logger:  logger,
	}
	sc.queue = xq.New(store, sc.queueService, xq.WithLogger(logger))
	return sc
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Store returns the configuration store.
func (sc *ServerContext) Store() *config.Store {
	return sc.store
}

// Logger returns the server's logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Queue returns the exchange queue bound to this server's instances.
func (sc *ServerContext) Queue() *xq.Queue {
	return sc.queue
}

// SetInstrumentation attaches the metrics recorder and audit logger.
func (sc *ServerContext) SetInstrumentation(metrics *instrumentation.Metrics, audit *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
	sc.audit = audit
}

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil when instrumentation is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.audit
}

// ClientForInstance returns the Vikunja client for a named instance,
// creating and caching it on first use. An empty name resolves the
// current instance.
func (sc *ServerContext) ClientForInstance(instance string) (*vikunja.Client, error) {
	if instance == "" {
		current, err := sc.store.CurrentInstance()
		if err != nil {
			return nil, err
		}
		instance = current
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.clients[instance]; ok {
		return client, nil
	}

	inst, err := sc.store.Resolve(instance)
	if err != nil {
		return nil, err
	}

	client := vikunja.NewClient(inst.URL, inst.Token, vikunja.WithLogger(sc.logger))
	sc.clients[instance] = client
	return client, nil
}

// InvalidateClient drops the cached client for an instance, forcing the
// next call to re-resolve credentials. Used after connect/switch when
// tokens change.
func (sc *ServerContext) InvalidateClient(instance string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	delete(sc.clients, instance)
}

// queueService adapts the client cache to the queue's service lookup.
func (sc *ServerContext) queueService(instance string) (xq.TaskService, error) {
	return sc.ClientForInstance(instance)
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
