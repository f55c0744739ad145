// FILE: pidcat/src/internal/limit/ratelimiter.go
package limit

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter provides per-client rate limiting keyed by remote IP
type RateLimiter struct {
	clients         sync.Map // map[string]*clientLimiter
	requestsPerSec  float64
	burstSize       int
	cleanupInterval time.Duration
	done            chan struct{}
	stopOnce        sync.Once

	// Statistics
	totalAllowed atomic.Uint64
	totalDenied  atomic.Uint64
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// NewRateLimiter creates a limiter and starts its cleanup routine.
// A non-positive rate disables limiting.
func NewRateLimiter(requestsPerSec float64, burstSize int, cleanupInterval time.Duration) *RateLimiter {
	if burstSize < 1 {
		burstSize = 1
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	rl := &RateLimiter{
		requestsPerSec:  requestsPerSec,
		burstSize:       burstSize,
		cleanupInterval: cleanupInterval,
		done:            make(chan struct{}),
	}

	// Start cleanup routine
	go rl.cleanup()

	return rl
}

// Allow reports whether a request from remoteAddr may proceed. The port, if
// any, is ignored.
func (rl *RateLimiter) Allow(remoteAddr string) bool {
	if rl.requestsPerSec <= 0 {
		rl.totalAllowed.Add(1)
		return true
	}

	if !rl.getLimiter(clientIP(remoteAddr)).Allow() {
		rl.totalDenied.Add(1)
		return false
	}
	rl.totalAllowed.Add(1)
	return true
}

func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

// getLimiter returns the rate limiter for a client
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	now := time.Now().UnixNano()

	// Try to get existing limiter
	if val, ok := rl.clients.Load(ip); ok {
		client := val.(*clientLimiter)
		client.lastSeen.Store(now)
		return client.limiter
	}

	// Create new limiter
	client := &clientLimiter{
		limiter: rate.NewLimiter(rate.Limit(rl.requestsPerSec), rl.burstSize),
	}
	client.lastSeen.Store(now)

	actual, _ := rl.clients.LoadOrStore(ip, client)
	return actual.(*clientLimiter).limiter
}

// cleanup removes old client limiters
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.removeOldClients(time.Now())
		}
	}
}

// removeOldClients removes limiters that haven't been seen recently
func (rl *RateLimiter) removeOldClients(now time.Time) {
	threshold := now.Add(-rl.cleanupInterval * 2).UnixNano() // Keep for 2x cleanup interval

	rl.clients.Range(func(key, value any) bool {
		client := value.(*clientLimiter)
		if client.lastSeen.Load() < threshold {
			rl.clients.Delete(key)
		}
		return true
	})
}

// Stop gracefully shuts down the rate limiter
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.done)
	})
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() map[string]any {
	count := 0
	rl.clients.Range(func(_, _ any) bool {
		count++
		return true
	})
	return map[string]any{
		"enabled":          rl.requestsPerSec > 0,
		"requests_per_sec": rl.requestsPerSec,
		"burst":            rl.burstSize,
		"active_clients":   count,
		"total_allowed":    rl.totalAllowed.Load(),
		"total_denied":     rl.totalDenied.Load(),
	}
}
