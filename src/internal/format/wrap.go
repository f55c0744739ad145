// FILE: pidcat/src/internal/format/wrap.go
package format

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Wrap hard-wraps message into chunks of width-headerWidth columns joined by
// newlines. Tabs become four spaces. The message is returned unchanged when
// the width is unknown or leaves no room after the header. Escape sequences
// do not count toward the width.
func Wrap(message string, width, headerWidth int) string {
	area := width - headerWidth
	if width <= 0 || area <= 0 {
		return message
	}
	message = strings.ReplaceAll(message, "\t", "    ")
	return ansi.Hardwrap(message, area, true)
}
