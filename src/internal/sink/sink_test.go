// FILE: pidcat/src/internal/sink/sink_test.go
package sink

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink("stdout", &buf, newTestLogger())
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Write([]byte("first\n")))
	require.NoError(t, s.Write([]byte("second\n")))
	assert.Equal(t, "first\nsecond\n", buf.String())

	stats := s.GetStats()
	assert.Equal(t, "console", stats.Type)
	assert.Equal(t, uint64(2), stats.TotalProcessed)
	s.Stop()

	t.Run("WriteError", func(t *testing.T) {
		s := NewConsoleSink("stdout", brokenWriter{}, newTestLogger())
		err := s.Write([]byte("x"))
		assert.ErrorContains(t, err, "stdout write")
		assert.Equal(t, uint64(1), s.GetStats().Details["total_errors"])
	})
}

func startRelay(t *testing.T, opts HTTPOptions, status StatusFunc) *HTTPSink {
	t.Helper()
	opts.Host = "127.0.0.1"
	opts.Port = 0
	h, err := NewHTTPSink(opts, status, newTestLogger())
	require.NoError(t, err)
	require.NoError(t, h.Start(context.Background()))
	t.Cleanup(h.Stop)
	return h
}

func TestHTTPSink_Status(t *testing.T) {
	h := startRelay(t, HTTPOptions{}, func() map[string]any {
		return map[string]any{"lines": 42}
	})

	resp, err := http.Get("http://" + h.Addr() + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "pidcat", body["service"])
	assert.Equal(t, map[string]any{"lines": float64(42)}, body["pipeline"])
}

func TestHTTPSink_NotFound(t *testing.T) {
	h := startRelay(t, HTTPOptions{}, nil)

	resp, err := http.Get("http://" + h.Addr() + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPSink_RateLimited(t *testing.T) {
	h := startRelay(t, HTTPOptions{RequestsPerSec: 0.001, Burst: 1}, nil)

	resp, err := http.Get("http://" + h.Addr() + "/status")
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get("http://" + h.Addr() + "/status")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestHTTPSink_StreamStripsEscapes(t *testing.T) {
	h := startRelay(t, HTTPOptions{}, nil)

	lines := make(chan string, 1)
	errs := make(chan error, 1)
	go func() {
		resp, err := http.Get("http://" + h.Addr() + "/stream")
		if err != nil {
			errs <- err
			return
		}
		defer resp.Body.Close()
		line, err := bufio.NewReader(resp.Body).ReadString('\n')
		if err != nil {
			errs <- err
			return
		}
		lines <- line
	}()

	require.Eventually(t, func() bool {
		return h.GetStats().ActiveConnections == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, h.Write([]byte("\x1b[31m   MyTag\x1b[0m \x1b[30;42m I \x1b[0m hello\n")))

	select {
	case line := <-lines:
		assert.Equal(t, "   MyTag  I  hello\n", line)
	case err := <-errs:
		t.Fatalf("stream failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no data received")
	}
}

func TestHTTPSink_WriteNeverBlocks(t *testing.T) {
	h, err := NewHTTPSink(HTTPOptions{BufferSize: 1}, nil, newTestLogger())
	require.NoError(t, err)
	defer h.limiter.Stop()

	// No broker running: the second chunk has nowhere to go.
	require.NoError(t, h.Write([]byte("a\n")))
	require.NoError(t, h.Write([]byte("b\n")))
	assert.Equal(t, uint64(1), h.GetStats().TotalDropped)
}

func TestNewHTTPSink_InvalidPort(t *testing.T) {
	_, err := NewHTTPSink(HTTPOptions{Port: 70000}, nil, newTestLogger())
	assert.Error(t, err)
}

func TestHTTPSink_AccessList(t *testing.T) {
	t.Run("Denied", func(t *testing.T) {
		h := startRelay(t, HTTPOptions{DenyIPs: []string{"127.0.0.0/8"}}, nil)

		resp, err := http.Get("http://" + h.Addr() + "/status")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Allowed", func(t *testing.T) {
		h := startRelay(t, HTTPOptions{AllowIPs: []string{"127.0.0.1"}}, nil)

		resp, err := http.Get("http://" + h.Addr() + "/status")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("InvalidEntry", func(t *testing.T) {
		_, err := NewHTTPSink(HTTPOptions{AllowIPs: []string{"nope"}}, nil, newTestLogger())
		assert.ErrorContains(t, err, "access list")
	})
}
