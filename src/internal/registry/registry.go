// FILE: pidcat/src/internal/registry/registry.go
package registry

import (
	"bufio"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"pidcat/src/internal/match"
	"pidcat/src/internal/pattern"
)

// Registry tracks the process ids currently in scope for the package filter
// and the pid most recently announced as started.
// Mutation happens on the pipeline loop only; the lock exists so the status
// endpoint can read a consistent snapshot.
type Registry struct {
	mu            sync.RWMutex
	pids          map[string]struct{}
	lastAnnounced string

	// Statistics
	totalStarted atomic.Uint64
	totalEnded   atomic.Uint64
	totalSeeded  atomic.Uint64
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		pids: make(map[string]struct{}),
	}
}

// Track adds pid to the tracked set and records it as last announced.
// It returns false without changes if pid is already tracked.
func (r *Registry) Track(pid string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pids[pid]; ok {
		return false
	}
	r.pids[pid] = struct{}{}
	r.lastAnnounced = pid
	r.totalStarted.Add(1)
	return true
}

// Untrack removes pid. It returns false if pid was not tracked.
func (r *Registry) Untrack(pid string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pids[pid]; !ok {
		return false
	}
	delete(r.pids, pid)
	r.totalEnded.Add(1)
	return true
}

// Contains reports whether pid is in scope.
func (r *Registry) Contains(pid string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.pids[pid]
	return ok
}

// LastAnnounced returns the pid of the most recently started tracked process,
// or "" if none has started during this run.
func (r *Registry) LastAnnounced() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastAnnounced
}

// Seed parses a process listing and tracks every pid whose name passes the
// filter. Seeding does not touch the last announced pid. It returns the pids
// that were added, in listing order.
func (r *Registry) Seed(snapshot string, filter match.PackageFilter) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var added []string
	scanner := bufio.NewScanner(strings.NewReader(snapshot))
	for scanner.Scan() {
		pid, name, ok := pattern.ParseSnapshotLine(scanner.Text())
		if !ok || !filter.Matches(name) {
			continue
		}
		if _, exists := r.pids[pid]; exists {
			continue
		}
		r.pids[pid] = struct{}{}
		added = append(added, pid)
	}
	r.totalSeeded.Add(uint64(len(added)))
	return added
}

// PIDs returns the tracked pids, sorted.
func (r *Registry) PIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.pids))
	for pid := range r.pids {
		out = append(out, pid)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of tracked pids.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pids)
}

// GetStats returns registry statistics
func (r *Registry) GetStats() map[string]any {
	return map[string]any{
		"tracked":        r.PIDs(),
		"last_announced": r.LastAnnounced(),
		"total_started":  r.totalStarted.Load(),
		"total_ended":    r.totalEnded.Load(),
		"total_seeded":   r.totalSeeded.Load(),
	}
}
