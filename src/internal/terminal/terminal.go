// FILE: pidcat/src/internal/terminal/terminal.go
package terminal

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Terminal wraps a file that may be attached to a tty. The tty state is
// captured on Open so it can be put back on exit.
type Terminal struct {
	fd    int
	isTTY bool
	state *term.State
}

// Open inspects f. A non-tty file yields a Terminal whose operations are
// no-ops.
func Open(f *os.File) *Terminal {
	t := &Terminal{fd: int(f.Fd())}
	t.isTTY = term.IsTerminal(t.fd)
	if t.isTTY {
		if state, err := term.GetState(t.fd); err == nil {
			t.state = state
		}
	}
	return t
}

// IsTerminal reports whether the file is a tty
func (t *Terminal) IsTerminal() bool {
	return t.isTTY
}

// Width returns the column count, or 0 when unknown
func (t *Terminal) Width() int {
	if !t.isTTY {
		return 0
	}
	width, _, err := term.GetSize(t.fd)
	if err != nil || width < 0 {
		return 0
	}
	return width
}

// Profile picks the colour profile: 8-colour ANSI on a tty, plain text
// otherwise.
func (t *Terminal) Profile() termenv.Profile {
	return ProfileFor(t.isTTY)
}

// ProfileFor maps tty-ness to a colour profile
func ProfileFor(isTTY bool) termenv.Profile {
	if isTTY {
		return termenv.ANSI
	}
	return termenv.Ascii
}

// Restore puts back the state captured by Open
func (t *Terminal) Restore() error {
	if t.state == nil {
		return nil
	}
	if err := term.Restore(t.fd, t.state); err != nil {
		return fmt.Errorf("restore terminal: %w", err)
	}
	return nil
}
