package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelRank(t *testing.T) {
	testCases := []struct {
		level    Level
		rank     int
		expected bool
	}{
		{LevelVerbose, 0, true},
		{LevelDebug, 1, true},
		{LevelInfo, 2, true},
		{LevelWarn, 3, true},
		{LevelError, 4, true},
		{LevelFatal, 5, true},
		{Level('S'), -1, false},
	}

	for _, tc := range testCases {
		t.Run(tc.level.String(), func(t *testing.T) {
			rank, ok := tc.level.Rank()
			assert.Equal(t, tc.expected, ok)
			assert.Equal(t, tc.rank, rank)
		})
	}
}

func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel("w")
	assert.True(t, ok)
	assert.Equal(t, LevelWarn, l)

	l, ok = ParseLevel(" E ")
	assert.True(t, ok)
	assert.Equal(t, LevelError, l)

	_, ok = ParseLevel("X")
	assert.False(t, ok)

	_, ok = ParseLevel("")
	assert.False(t, ok)

	_, ok = ParseLevel("VD")
	assert.False(t, ok)
}

func TestBannerConstructors(t *testing.T) {
	started := StartedBanner(StartEvent{Package: "com.foo", Target: "activity com.foo/.Main", PID: "42", UID: "10001", GIDs: "3003"})
	assert.Equal(t, BannerStarted, started.Kind)
	assert.Equal(t, "com.foo", started.Package)
	assert.Equal(t, "42", started.PID)
	assert.Equal(t, "10001", started.UID)

	ended := EndedBanner(DeathEvent{PID: "42", Process: "com.foo:svc"})
	assert.Equal(t, BannerEnded, ended.Kind)
	assert.Equal(t, "com.foo:svc", ended.Package)
	assert.Equal(t, "42", ended.PID)
	assert.Equal(t, "ended", ended.Kind.String())
}
