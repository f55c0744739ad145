// FILE: pidcat/src/internal/format/color_test.go
package format

import (
	"strings"
	"testing"

	"pidcat/src/internal/core"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainFormatter(opts Options) *ColorFormatter {
	opts.Profile = termenv.Ascii
	return NewColorFormatter(opts, newTestLogger())
}

func render(t *testing.T, f Formatter, rec core.Record) string {
	t.Helper()
	out, err := f.FormatRecord(rec)
	require.NoError(t, err)
	return string(out)
}

func TestColorFormatter_Layout(t *testing.T) {
	rec := core.Record{Level: core.LevelInfo, Tag: "MyTag", Owner: "1234", Message: "hello world"}

	t.Run("TagColumn", func(t *testing.T) {
		f := plainFormatter(Options{TagWidth: 10})
		assert.Equal(t, "     MyTag  I  hello world\n", render(t, f, rec))
	})

	t.Run("RepeatedTagBlanked", func(t *testing.T) {
		f := plainFormatter(Options{TagWidth: 10})
		render(t, f, rec)
		assert.Equal(t, "            I  hello world\n", render(t, f, rec))
	})

	t.Run("AlwaysShowTags", func(t *testing.T) {
		f := plainFormatter(Options{TagWidth: 10, AlwaysShowTags: true})
		render(t, f, rec)
		assert.Equal(t, "     MyTag  I  hello world\n", render(t, f, rec))
	})

	t.Run("TagChangeRedraws", func(t *testing.T) {
		f := plainFormatter(Options{TagWidth: 10})
		render(t, f, rec)
		other := rec
		other.Tag = "Other"
		assert.Equal(t, "     Other  I  hello world\n", render(t, f, other))
	})

	t.Run("TagTruncatedFromLeft", func(t *testing.T) {
		f := plainFormatter(Options{TagWidth: 10})
		long := rec
		long.Tag = "VeryLongTagName123"
		assert.Equal(t, "TagName123  I  hello world\n", render(t, f, long))
	})

	t.Run("NoTagColumn", func(t *testing.T) {
		f := plainFormatter(Options{TagWidth: 0})
		assert.Equal(t, " I  hello world\n", render(t, f, rec))
	})

	t.Run("UnknownLevelFallback", func(t *testing.T) {
		f := plainFormatter(Options{TagWidth: 0})
		odd := rec
		odd.Level = core.Level('S')
		assert.Equal(t, " S  hello world\n", render(t, f, odd))
	})

	t.Run("Wrapped", func(t *testing.T) {
		// header is 5+1+3+1 = 10 columns, leaving 10 for the message
		f := plainFormatter(Options{TagWidth: 5, Width: 20})
		long := rec
		long.Message = "abcdefghijklmnopqrstuvwxy"
		assert.Equal(t, "MyTag  I  abcdefghij\nklmnopqrst\nuvwxy\n", render(t, f, long))
	})
}

func TestColorFormatter_Escapes(t *testing.T) {
	f := NewColorFormatter(Options{TagWidth: 10, Profile: termenv.ANSI}, newTestLogger())

	out := render(t, f, core.Record{Level: core.LevelInfo, Tag: "MyTag", Owner: "1", Message: "hi"})
	assert.Contains(t, out, "\x1b[31m     MyTag\x1b[0m", "first dynamic tag takes red")
	assert.Contains(t, out, "\x1b[30;42m I \x1b[0m")
	assert.True(t, strings.HasSuffix(out, " hi\n"))

	out = render(t, f, core.Record{Level: core.LevelVerbose, Tag: "ActivityManager", Owner: "1", Message: "x"})
	assert.Contains(t, out, "\x1b[37mityManager\x1b[0m")
	assert.Contains(t, out, "\x1b[37;40m V \x1b[0m")
}

func TestColorFormatter_Highlights(t *testing.T) {
	strict := "StrictMode policy violation; ~duration=123 ms: android.os.StrictMode$StrictModeDiskReadViolation"
	gc := "GC_CONCURRENT freed 1234K, 20% free 9876K/12345K, paused 2ms+3ms, total 30ms"

	t.Run("StrictMode", func(t *testing.T) {
		f := NewColorFormatter(Options{Profile: termenv.ANSI}, newTestLogger())
		out := render(t, f, core.Record{Level: core.LevelDebug, Tag: "StrictMode", Owner: "1", Message: strict})
		assert.Contains(t, out, "\x1b[31mStrictMode policy violation\x1b[0m; ~duration=\x1b[33m123 ms\x1b[0m: android.os")
	})

	t.Run("GCDisabled", func(t *testing.T) {
		f := NewColorFormatter(Options{Profile: termenv.ANSI}, newTestLogger())
		out := render(t, f, core.Record{Level: core.LevelDebug, Tag: "dalvikvm", Owner: "1", Message: gc})
		assert.True(t, strings.HasSuffix(out, " "+gc+"\n"))
	})

	t.Run("GCEnabled", func(t *testing.T) {
		f := NewColorFormatter(Options{Profile: termenv.ANSI, ColorGC: true}, newTestLogger())
		out := render(t, f, core.Record{Level: core.LevelDebug, Tag: "dalvikvm", Owner: "1", Message: gc})
		assert.Contains(t, out, "GC_CONCURRENT \x1b[32mfreed 1234K\x1b[0m, 20% free 9876K/12345K, \x1b[33mpaused 2ms+3ms\x1b[0m, total 30ms")
	})

	t.Run("PlainProfileLeavesText", func(t *testing.T) {
		f := plainFormatter(Options{ColorGC: true})
		out := render(t, f, core.Record{Level: core.LevelDebug, Tag: "x", Owner: "1", Message: strict})
		assert.Equal(t, " D  "+strict+"\n", out)
	})
}

func TestColorFormatter_Banners(t *testing.T) {
	bar := strings.Repeat(" ", 27)

	t.Run("Started", func(t *testing.T) {
		f := plainFormatter(Options{TagWidth: 23})
		out, err := f.FormatBanner(core.Banner{
			Kind: core.BannerStarted, Package: "com.foo", Target: "activity com.foo/.Main",
			PID: "42", UID: "10055", GIDs: "3003",
		})
		require.NoError(t, err)
		expected := "\n" + bar + " Process com.foo created for activity com.foo/.Main\n" +
			bar + " PID: 42   UID: 10055   GIDs: 3003\n\n"
		assert.Equal(t, expected, string(out))
	})

	t.Run("Ended", func(t *testing.T) {
		f := plainFormatter(Options{TagWidth: 23})
		out, err := f.FormatBanner(core.Banner{Kind: core.BannerEnded, Package: "com.foo", PID: "42"})
		require.NoError(t, err)
		assert.Equal(t, "\n"+bar+" Process com.foo (PID: 42) ended\n\n", string(out))
	})

	t.Run("BannerResetsTag", func(t *testing.T) {
		f := plainFormatter(Options{TagWidth: 10})
		rec := core.Record{Level: core.LevelInfo, Tag: "MyTag", Owner: "1", Message: "m"}
		render(t, f, rec)
		_, err := f.FormatBanner(core.Banner{Kind: core.BannerEnded, Package: "com.foo", PID: "1"})
		require.NoError(t, err)
		assert.Equal(t, "     MyTag  I  m\n", render(t, f, rec))
	})

	t.Run("ColoredBar", func(t *testing.T) {
		f := NewColorFormatter(Options{TagWidth: 0, Profile: termenv.ANSI}, newTestLogger())
		out, err := f.FormatBanner(core.Banner{Kind: core.BannerEnded, Package: "p", PID: "1"})
		require.NoError(t, err)
		assert.Contains(t, string(out), "\x1b[41m    \x1b[0m Process p (PID: 1) ended")
	})

	t.Run("UnknownKind", func(t *testing.T) {
		f := plainFormatter(Options{})
		_, err := f.FormatBanner(core.Banner{Kind: core.BannerKind(7)})
		assert.Error(t, err)
	})
}
