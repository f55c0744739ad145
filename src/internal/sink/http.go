// FILE: pidcat/src/internal/sink/http.go
package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"pidcat/src/internal/limit"
	"pidcat/src/internal/version"

	"github.com/charmbracelet/x/ansi"
	"github.com/lixenwraith/log"
	"github.com/lixenwraith/log/compat"
	"github.com/valyala/fasthttp"
)

// HTTPOptions configures the relay server
type HTTPOptions struct {
	Host           string
	Port           int64
	BufferSize     int64
	RequestsPerSec float64
	Burst          int64
	StreamPath     string
	StatusPath     string
	AllowIPs       []string
	DenyIPs        []string
}

// StatusFunc supplies pipeline statistics for the status endpoint
type StatusFunc func() map[string]any

// HTTPSink relays rendered output, stripped of escape sequences, to HTTP
// clients as a chunked plain-text stream. Write never blocks: chunks are
// dropped when the broker or a client falls behind.
type HTTPSink struct {
	opts HTTPOptions

	// Runtime
	input         chan []byte
	server        *fasthttp.Server
	listener      net.Listener
	activeClients atomic.Int64
	startTime     time.Time
	done          chan struct{}
	stopOnce      sync.Once
	wg            sync.WaitGroup
	logger        *log.Logger
	limiter       *limit.RateLimiter
	access        *limit.AccessList
	status        StatusFunc

	// Broker architecture
	clients      map[uint64]chan []byte
	clientsMu    sync.RWMutex
	unregister   chan uint64
	nextClientID atomic.Uint64

	// Statistics
	totalProcessed atomic.Uint64
	totalDropped   atomic.Uint64
	totalDenied    atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

// NewHTTPSink creates a relay sink. status may be nil.
func NewHTTPSink(opts HTTPOptions, status StatusFunc, logger *log.Logger) (*HTTPSink, error) {
	if opts.Port < 0 || opts.Port > 65535 {
		return nil, fmt.Errorf("invalid relay port: %d", opts.Port)
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.StreamPath == "" {
		opts.StreamPath = "/stream"
	}
	if opts.StatusPath == "" {
		opts.StatusPath = "/status"
	}

	access, err := limit.NewAccessList(opts.AllowIPs, opts.DenyIPs, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid relay access list: %w", err)
	}

	h := &HTTPSink{
		opts:       opts,
		input:      make(chan []byte, opts.BufferSize),
		startTime:  time.Now(),
		done:       make(chan struct{}),
		logger:     logger,
		limiter:    limit.NewRateLimiter(opts.RequestsPerSec, int(opts.Burst), time.Minute),
		access:     access,
		status:     status,
		clients:    make(map[uint64]chan []byte),
		unregister: make(chan uint64),
	}
	h.lastProcessed.Store(time.Time{})

	return h, nil
}

// Write queues a chunk for broadcast without blocking
func (h *HTTPSink) Write(chunk []byte) error {
	plain := []byte(ansi.Strip(string(chunk)))

	select {
	case h.input <- plain:
	default:
		h.totalDropped.Add(1)
	}
	return nil
}

// Start binds the listener and serves in the background
func (h *HTTPSink) Start(ctx context.Context) error {
	addr := net.JoinHostPort(h.opts.Host, fmt.Sprintf("%d", h.opts.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	h.listener = ln

	// Start central broker goroutine
	h.wg.Add(1)
	go h.brokerLoop(ctx)

	// Create fasthttp adapter for logging
	fasthttpLogger := compat.NewFastHTTPAdapter(h.logger)

	h.server = &fasthttp.Server{
		Name:    fmt.Sprintf("%s/%s", version.Name, version.Short()),
		Handler: h.requestHandler,
		Logger:  fasthttpLogger,
	}

	go func() {
		if err := h.server.Serve(ln); err != nil {
			h.logger.Error("msg", "Relay server stopped with error",
				"component", "http_sink",
				"error", err)
		}
	}()

	// Monitor context for shutdown signal
	go func() {
		select {
		case <-ctx.Done():
			h.Stop()
		case <-h.done:
		}
	}()

	h.logger.Info("msg", "HTTP relay started",
		"component", "http_sink",
		"addr", ln.Addr().String(),
		"stream_path", h.opts.StreamPath,
		"status_path", h.opts.StatusPath)
	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (h *HTTPSink) Addr() string {
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

// Broadcasts only to active clients
func (h *HTTPSink) brokerLoop(ctx context.Context) {
	defer h.wg.Done()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("msg", "Broker loop stopping due to context cancellation",
				"component", "http_sink")
			return
		case <-h.done:
			h.logger.Debug("msg", "Broker loop stopping due to shutdown signal",
				"component", "http_sink")
			return

		case clientID := <-h.unregister:
			// Broker owns channel cleanup
			h.clientsMu.Lock()
			if clientChan, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				close(clientChan)
				h.logger.Debug("msg", "Unregistered client",
					"component", "http_sink",
					"client_id", clientID)
			}
			h.clientsMu.Unlock()

		case chunk := <-h.input:
			h.totalProcessed.Add(1)
			h.lastProcessed.Store(time.Now())

			h.clientsMu.RLock()
			slowClients := 0
			for id, ch := range h.clients {
				select {
				case ch <- chunk:
				default:
					slowClients++
					h.totalDropped.Add(1)
					if slowClients == 1 { // Log only once per broadcast
						h.logger.Debug("msg", "Dropped chunk for slow client(s)",
							"component", "http_sink",
							"client_id", id,
							"total_clients", len(h.clients))
					}
				}
			}
			// If no clients connected, chunk is discarded (no buffering)
			h.clientsMu.RUnlock()
		}
	}
}

// Stop shuts down the server and disconnects clients
func (h *HTTPSink) Stop() {
	h.stopOnce.Do(func() {
		h.logger.Info("msg", "Stopping HTTP relay", "component", "http_sink")

		// Signal all client handlers to stop
		close(h.done)

		if h.server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := h.server.ShutdownWithContext(ctx); err != nil {
				h.logger.Debug("msg", "Relay server shutdown incomplete",
					"component", "http_sink",
					"error", err)
			}
		}

		h.wg.Wait()
		h.limiter.Stop()

		h.logger.Info("msg", "HTTP relay stopped", "component", "http_sink")
	})
}

func (h *HTTPSink) GetStats() SinkStats {
	lastProc, _ := h.lastProcessed.Load().(time.Time)

	return SinkStats{
		Type:              "http",
		TotalProcessed:    h.totalProcessed.Load(),
		TotalDropped:      h.totalDropped.Load(),
		ActiveConnections: h.activeClients.Load(),
		StartTime:         h.startTime,
		LastProcessed:     lastProc,
		Details: map[string]any{
			"addr":         h.Addr(),
			"buffer_size":  h.opts.BufferSize,
			"total_denied": h.totalDenied.Load(),
			"endpoints": map[string]string{
				"stream": h.opts.StreamPath,
				"status": h.opts.StatusPath,
			},
			"rate_limit":  h.limiter.GetStats(),
			"access_list": h.access.GetStats(),
		},
	}
}

func (h *HTTPSink) requestHandler(ctx *fasthttp.RequestCtx) {
	remoteAddr := ctx.RemoteAddr().String()

	if !h.access.Allowed(remoteAddr) {
		h.totalDenied.Add(1)
		writeJSON(ctx, fasthttp.StatusForbidden, map[string]any{
			"error": "Forbidden",
		})
		return
	}

	if !h.limiter.Allow(remoteAddr) {
		h.totalDenied.Add(1)
		h.logger.Warn("msg", "Rate limited",
			"component", "http_sink",
			"remote_addr", remoteAddr)
		writeJSON(ctx, fasthttp.StatusTooManyRequests, map[string]any{
			"error": "Too many requests",
		})
		return
	}

	switch string(ctx.Path()) {
	case h.opts.StatusPath:
		h.handleStatus(ctx)
	case h.opts.StreamPath:
		h.handleStream(ctx)
	default:
		writeJSON(ctx, fasthttp.StatusNotFound, map[string]any{
			"error": "Not Found",
		})
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, body any) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	data, _ := json.Marshal(body)
	ctx.SetBody(data)
}

func (h *HTTPSink) handleStream(ctx *fasthttp.RequestCtx) {
	remoteAddr := ctx.RemoteAddr().String()

	ctx.SetContentType("text/plain; charset=utf-8")
	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("X-Accel-Buffering", "no")

	// Register new client with broker
	clientID := h.nextClientID.Add(1)
	clientChan := make(chan []byte, h.opts.BufferSize)

	h.clientsMu.Lock()
	h.clients[clientID] = clientChan
	h.clientsMu.Unlock()

	streamFunc := func(w *bufio.Writer) {
		connectCount := h.activeClients.Add(1)
		h.logger.Debug("msg", "HTTP client connected",
			"component", "http_sink",
			"remote_addr", remoteAddr,
			"client_id", clientID,
			"active_clients", connectCount)

		// Cleanup signals unregister
		defer func() {
			disconnectCount := h.activeClients.Add(-1)
			h.logger.Debug("msg", "HTTP client disconnected",
				"component", "http_sink",
				"remote_addr", remoteAddr,
				"client_id", clientID,
				"active_clients", disconnectCount)

			select {
			case h.unregister <- clientID:
			case <-h.done:
				// Shutting down, don't block
			}
		}()

		for {
			select {
			case chunk, ok := <-clientChan:
				if !ok {
					return
				}
				if _, err := w.Write(chunk); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}
			case <-h.done:
				return
			}
		}
	}

	ctx.SetBodyStreamWriter(streamFunc)
}

func (h *HTTPSink) handleStatus(ctx *fasthttp.RequestCtx) {
	status := map[string]any{
		"service": version.Name,
		"version": version.Short(),
		"server": map[string]any{
			"type":           "http",
			"addr":           h.Addr(),
			"active_clients": h.activeClients.Load(),
			"buffer_size":    h.opts.BufferSize,
			"uptime_seconds": int(time.Since(h.startTime).Seconds()),
		},
		"endpoints": map[string]string{
			"stream": h.opts.StreamPath,
			"status": h.opts.StatusPath,
		},
		"rate_limit": h.limiter.GetStats(),
		"statistics": map[string]any{
			"total_processed": h.totalProcessed.Load(),
			"total_dropped":   h.totalDropped.Load(),
			"total_denied":    h.totalDenied.Load(),
		},
	}
	if h.status != nil {
		status["pipeline"] = h.status()
	}

	writeJSON(ctx, fasthttp.StatusOK, status)
}
