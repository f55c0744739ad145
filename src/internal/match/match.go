// FILE: pidcat/src/internal/match/match.go
package match

import (
	"sort"
	"strings"
)

// PackageFilter decides whether a process name belongs to the configured
// packages. Plain package names match the package and all its sub-processes;
// qualified "pkg:proc" names match only that sub-process.
type PackageFilter struct {
	catchAll       map[string]struct{}
	namedProcesses map[string]struct{}
}

// New splits the package list into catch-all and named-process sets.
// A trailing ':' on a qualified name is dropped.
func New(packages []string) PackageFilter {
	f := PackageFilter{
		catchAll:       make(map[string]struct{}),
		namedProcesses: make(map[string]struct{}),
	}
	for _, p := range packages {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, ":") {
			f.catchAll[p] = struct{}{}
			continue
		}
		f.namedProcesses[strings.TrimSuffix(p, ":")] = struct{}{}
	}
	return f
}

// IsEmpty reports whether no packages were configured, in which case every
// process matches.
func (f PackageFilter) IsEmpty() bool {
	return len(f.catchAll) == 0 && len(f.namedProcesses) == 0
}

// Matches reports whether a process name passes the filter.
func (f PackageFilter) Matches(name string) bool {
	if f.IsEmpty() {
		return true
	}
	if _, ok := f.namedProcesses[name]; ok {
		return true
	}
	idx := strings.IndexByte(name, ':')
	if idx < 0 {
		_, ok := f.catchAll[name]
		return ok
	}
	_, ok := f.catchAll[name[:idx]]
	return ok
}

// Packages returns the configured names, catch-all first, for status output.
// Each group is sorted.
func (f PackageFilter) Packages() []string {
	out := make([]string, 0, len(f.catchAll)+len(f.namedProcesses))
	out = appendSorted(out, f.catchAll)
	return appendSorted(out, f.namedProcesses)
}

func appendSorted(out []string, set map[string]struct{}) []string {
	start := len(out)
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out[start:])
	return out
}
