// FILE: pidcat/src/internal/color/color.go
package color

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Color is a slot in the 8-color ANSI palette.
type Color int

const (
	Black Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

var names = [...]string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

func (c Color) String() string {
	if c < Black || c > White {
		return "color(" + strconv.Itoa(int(c)) + ")"
	}
	return names[c]
}

// Lip converts the slot to a lipgloss ANSI color.
func (c Color) Lip() lipgloss.Color {
	return lipgloss.Color(strconv.Itoa(int(c)))
}

// rotationPool holds the colors eligible for dynamic tag assignment, front
// first. Black and white stay reserved for badges and fixed tags.
var rotationPool = []Color{Red, Green, Yellow, Blue, Magenta, Cyan}

// knownTags have fixed colors that are never reassigned.
var knownTags = map[string]Color{
	"dalvikvm":        White,
	"Process":         White,
	"ActivityManager": White,
	"ActivityThread":  White,
	"AndroidRuntime":  Cyan,
	"jdwp":            White,
	"StrictMode":      White,
	"DEBUG":           Yellow,
}

// Allocator assigns display colors to tags using a least-recently-used
// rotation. Assignments are never evicted; only the rotation order changes.
type Allocator struct {
	assigned map[string]Color
	rotation []Color
}

// NewAllocator returns an allocator seeded with the fixed tag colors.
func NewAllocator() *Allocator {
	a := &Allocator{
		assigned: make(map[string]Color, len(knownTags)),
		rotation: make([]Color, len(rotationPool)),
	}
	for tag, c := range knownTags {
		a.assigned[tag] = c
	}
	copy(a.rotation, rotationPool)
	return a
}

// Allocate returns the tag's color, assigning the least recently used pool
// color on first sight, and marks the color as most recently used.
func (a *Allocator) Allocate(tag string) Color {
	c, ok := a.assigned[tag]
	if !ok {
		c = a.rotation[0]
		a.assigned[tag] = c
	}

	for i, rc := range a.rotation {
		if rc == c {
			a.rotation = append(a.rotation[:i], a.rotation[i+1:]...)
			a.rotation = append(a.rotation, c)
			break
		}
	}
	return c
}

// Rotation returns the current rotation order, least recently used first.
func (a *Allocator) Rotation() []Color {
	out := make([]Color, len(a.rotation))
	copy(out, a.rotation)
	return out
}
