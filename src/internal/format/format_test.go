// FILE: pidcat/src/internal/format/format_test.go
package format

import (
	"testing"

	"github.com/lixenwraith/log"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func TestNewFormatter(t *testing.T) {
	logger := newTestLogger()

	testCases := []struct {
		name        string
		formatName  string
		expected    string
		expectError bool
	}{
		{name: "ColorFormatter", formatName: "color", expected: "color"},
		{name: "RawFormatter", formatName: "raw", expected: "raw"},
		{name: "JSONFormatter", formatName: "json", expected: "json"},
		{name: "DefaultIsColor", formatName: "", expected: "color"},
		{name: "Unknown", formatName: "xml", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewFormatter(tc.formatName, Options{TagWidth: 23, Profile: termenv.Ascii}, logger)
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, f)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, f.Name())
		})
	}
}

func TestWrap(t *testing.T) {
	msg := "abcdefghijklmnopqrstuvwxy"

	testCases := []struct {
		name     string
		message  string
		width    int
		header   int
		expected string
	}{
		{"ChunksOfContentWidth", msg, 20, 10, "abcdefghij\nklmnopqrst\nuvwxy"},
		{"ExactMultiple", msg[:20], 20, 10, "abcdefghij\nklmnopqrst"},
		{"FitsOnOneLine", "short", 80, 10, "short"},
		{"WidthEqualsHeader", msg, 10, 10, msg},
		{"WidthBelowHeader", msg, 5, 10, msg},
		{"UnknownWidth", msg, -1, 10, msg},
		{"UnknownWidthKeepsTabs", "a\tb", 0, 10, "a\tb"},
		{"TabsExpanded", "a\tb", 80, 10, "a    b"},
		{"LeadingSpacesKept", "  abcdef", 14, 10, "  ab\ncdef"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Wrap(tc.message, tc.width, tc.header))
		})
	}
}

func TestWrap_IgnoresEscapes(t *testing.T) {
	msg := "\x1b[31mabcdefghij\x1b[0mklm"
	assert.Equal(t, "\x1b[31mabcdefghij\x1b[0m\nklm", Wrap(msg, 20, 10))
}
