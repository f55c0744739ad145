// FILE: pidcat/src/internal/terminal/terminal_test.go
package terminal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_RegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.log"))
	require.NoError(t, err)
	defer f.Close()

	term := Open(f)
	assert.False(t, term.IsTerminal())
	assert.Equal(t, 0, term.Width())
	assert.Equal(t, termenv.Ascii, term.Profile())
	assert.NoError(t, term.Restore())
}

func TestProfileFor(t *testing.T) {
	assert.Equal(t, termenv.ANSI, ProfileFor(true))
	assert.Equal(t, termenv.Ascii, ProfileFor(false))
}
