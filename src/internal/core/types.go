// FILE: pidcat/src/internal/core/types.go
package core

import "strings"

// Level is the single-letter logcat priority.
type Level byte

const (
	LevelVerbose Level = 'V'
	LevelDebug   Level = 'D'
	LevelInfo    Level = 'I'
	LevelWarn    Level = 'W'
	LevelError   Level = 'E'
	LevelFatal   Level = 'F'
)

// Levels lists the known priorities in ascending severity.
const Levels = "VDIWEF"

// Rank returns the severity index of l, and false for letters outside Levels.
func (l Level) Rank() (int, bool) {
	idx := strings.IndexByte(Levels, byte(l))
	return idx, idx >= 0
}

// Known reports whether l is one of the six logcat priorities.
func (l Level) Known() bool {
	_, ok := l.Rank()
	return ok
}

func (l Level) String() string {
	return string(rune(l))
}

// ParseLevel accepts a priority letter in either case.
func ParseLevel(s string) (Level, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 1 {
		return 0, false
	}
	l := Level(strings.ToUpper(s)[0])
	return l, l.Known()
}
