// FILE: pidcat/src/internal/source/source_test.go
package source

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func collect(t *testing.T, s Source) []string {
	t.Helper()
	var lines []string
	timeout := time.After(5 * time.Second)
	for {
		select {
		case line, ok := <-s.Lines():
			if !ok {
				return lines
			}
			lines = append(lines, line)
		case <-timeout:
			t.Fatal("source did not close")
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestReaderSource(t *testing.T) {
	t.Run("PreservesOrderWithSmallBuffer", func(t *testing.T) {
		input := "I/A( 1): one\n\nI/B( 2): two\nno newline at end"
		s := NewReaderSource("test", strings.NewReader(input), 1, newTestLogger())
		require.NoError(t, s.Start())

		lines := collect(t, s)
		assert.Equal(t, []string{"I/A( 1): one", "", "I/B( 2): two", "no newline at end"}, lines)
		assert.NoError(t, s.Err())

		stats := s.GetStats()
		assert.Equal(t, "test", stats.Type)
		assert.Equal(t, uint64(4), stats.TotalLines)
		assert.False(t, stats.LastLineTime.IsZero())
	})

	t.Run("CarriageReturnsStripped", func(t *testing.T) {
		s := NewReaderSource("test", strings.NewReader("a\r\nb\r\n"), 0, newTestLogger())
		require.NoError(t, s.Start())
		assert.Equal(t, []string{"a", "b"}, collect(t, s))
	})

	t.Run("ReadError", func(t *testing.T) {
		s := NewReaderSource("broken", failingReader{}, 0, newTestLogger())
		require.NoError(t, s.Start())
		assert.Empty(t, collect(t, s))
		assert.ErrorContains(t, s.Err(), "broken read")
	})

	t.Run("OversizeLineDropped", func(t *testing.T) {
		input := "before\n" + strings.Repeat("x", maxLineSize+1) + "\nafter\n"
		s := NewReaderSource("test", strings.NewReader(input), 0, newTestLogger())
		require.NoError(t, s.Start())

		assert.Equal(t, []string{"before", "after"}, collect(t, s))
		assert.NoError(t, s.Err())

		stats := s.GetStats()
		assert.Equal(t, uint64(2), stats.TotalLines)
		assert.Equal(t, uint64(1), stats.Details["dropped_oversize"])
	})

	t.Run("LineAtLimitKept", func(t *testing.T) {
		long := strings.Repeat("y", maxLineSize)
		s := NewReaderSource("test", strings.NewReader(long+"\nnext"), 0, newTestLogger())
		require.NoError(t, s.Start())

		lines := collect(t, s)
		require.Len(t, lines, 2)
		assert.Len(t, lines[0], maxLineSize)
		assert.Equal(t, "next", lines[1])
		assert.Equal(t, uint64(0), s.GetStats().Details["dropped_oversize"])
	})

	t.Run("StopUnblocksReader", func(t *testing.T) {
		s := NewReaderSource("test", strings.NewReader(strings.Repeat("x\n", 100)), 1, newTestLogger())
		require.NoError(t, s.Start())
		<-s.Lines()
		s.Stop()
		s.Stop()

		select {
		case <-s.Done():
		case <-time.After(5 * time.Second):
			t.Fatal("read loop did not exit after Stop")
		}
	})
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.log")
	require.NoError(t, os.WriteFile(path, []byte("I/A( 1): one\nI/A( 1): two\n"), 0o644))

	s, err := NewFileSource(path, 0, newTestLogger())
	require.NoError(t, err)
	require.NoError(t, s.Start())

	assert.Equal(t, []string{"I/A( 1): one", "I/A( 1): two"}, collect(t, s))
	assert.Equal(t, path, s.GetStats().Details["path"])
	s.Stop()

	t.Run("Missing", func(t *testing.T) {
		_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.log"), 0, newTestLogger())
		assert.ErrorContains(t, err, "failed to open input file")
	})
}

func TestProcessSource(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	t.Run("ReadsOutput", func(t *testing.T) {
		s, err := NewProcessSource(exec.Command("sh", "-c", "printf 'one\\ntwo\\n'"), 0, newTestLogger())
		require.NoError(t, err)
		require.NoError(t, s.Start())

		assert.Equal(t, []string{"one", "two"}, collect(t, s))
		assert.NoError(t, s.Err())
		assert.Equal(t, "sh -c printf 'one\\ntwo\\n'", s.GetStats().Details["command"])
	})

	t.Run("NonZeroExit", func(t *testing.T) {
		s, err := NewProcessSource(exec.Command("sh", "-c", "echo x; exit 3"), 0, newTestLogger())
		require.NoError(t, err)
		require.NoError(t, s.Start())

		assert.Equal(t, []string{"x"}, collect(t, s))
		assert.ErrorContains(t, s.Err(), "exited")
	})

	t.Run("StopKills", func(t *testing.T) {
		s, err := NewProcessSource(exec.Command("sh", "-c", "echo ready; exec sleep 30"), 0, newTestLogger())
		require.NoError(t, err)
		require.NoError(t, s.Start())

		assert.Equal(t, "ready", <-s.Lines())
		s.Stop()
		collect(t, s)
		assert.NoError(t, s.Err())
	})

	t.Run("MissingBinary", func(t *testing.T) {
		s, err := NewProcessSource(exec.Command("/nonexistent/adb"), 0, newTestLogger())
		require.NoError(t, err)
		assert.Error(t, s.Start())
	})
}
