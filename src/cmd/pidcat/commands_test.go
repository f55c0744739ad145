// FILE: pidcat/src/cmd/pidcat/commands_test.go
package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"pidcat/src/internal/adb"
	"pidcat/src/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyFlags(t *testing.T, argv ...string) *config.Config {
	t.Helper()
	fl := &cliFlags{}
	cmd := &cobra.Command{Use: "pidcat"}
	bindFlags(cmd, fl)
	require.NoError(t, cmd.ParseFlags(argv))

	cfg := &config.Config{TagWidth: 23, MinLevel: "V", Format: "color"}
	for _, override := range fl.overrides(cmd, cmd.Flags().Args()) {
		override(cfg)
	}
	return cfg
}

func TestOverrides(t *testing.T) {
	t.Run("UnsetFlagsKeepConfig", func(t *testing.T) {
		cfg := applyFlags(t)
		assert.Equal(t, int64(23), cfg.TagWidth)
		assert.Equal(t, "V", cfg.MinLevel)
		assert.Nil(t, cfg.Packages)
		assert.Nil(t, cfg.Tags)
		assert.False(t, cfg.JSONPretty)
	})

	t.Run("SetFlagsOverride", func(t *testing.T) {
		cfg := applyFlags(t,
			"-w", "0", "-l", "I",
			"-t", "MyTag", "--tag", "Net.*",
			"-i", "chatty",
			"-a", "-s", "emulator-5554",
			"--format", "json", "--json-pretty",
			"com.foo", "com.bar:svc")

		assert.Equal(t, int64(0), cfg.TagWidth)
		assert.Equal(t, "I", cfg.MinLevel)
		assert.Equal(t, []string{"MyTag", "Net.*"}, cfg.Tags)
		assert.Equal(t, []string{"chatty"}, cfg.IgnoredTags)
		assert.True(t, cfg.All)
		assert.Equal(t, "emulator-5554", cfg.Device.Serial)
		assert.Equal(t, "json", cfg.Format)
		assert.True(t, cfg.JSONPretty)
		assert.Equal(t, []string{"com.foo", "com.bar:svc"}, cfg.Packages)
	})
}

func TestPromptDevice(t *testing.T) {
	devices := []adb.Device{{Serial: "emulator-5554", State: "device"}, {Serial: "R58M", State: "device"}}

	t.Run("ValidChoice", func(t *testing.T) {
		var out bytes.Buffer
		serial, err := promptDevice(context.Background(), strings.NewReader("2\n"), &out, devices)
		require.NoError(t, err)
		assert.Equal(t, "R58M", serial)
		assert.Contains(t, out.String(), "[1] emulator-5554")
		assert.Contains(t, out.String(), "[2] R58M")
	})

	t.Run("RetriesInvalid", func(t *testing.T) {
		var out bytes.Buffer
		serial, err := promptDevice(context.Background(), strings.NewReader("x\n0\n3\n1\n"), &out, devices)
		require.NoError(t, err)
		assert.Equal(t, "emulator-5554", serial)
		assert.Equal(t, 3, strings.Count(out.String(), "Invalid selection"))
	})

	t.Run("CancelWhileWaiting", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer pw.Close()

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			_, err := promptDevice(ctx, pr, io.Discard, devices)
			done <- err
		}()
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(5 * time.Second):
			t.Fatal("prompt did not return after cancel")
		}
	})

	t.Run("InputEnds", func(t *testing.T) {
		_, err := promptDevice(context.Background(), strings.NewReader("9\n"), &bytes.Buffer{}, devices)
		assert.ErrorContains(t, err, "no device selected")
	})
}

func TestParseLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "DEBUG"} {
		_, err := parseLogLevel(level)
		assert.NoError(t, err, level)
	}
	_, err := parseLogLevel("trace")
	assert.Error(t, err)
}

func TestRelayAddr(t *testing.T) {
	cfg := &config.Config{Relay: config.RelayConfig{Port: 8790}}
	assert.Equal(t, "0.0.0.0:8790", relayAddr(cfg))

	cfg.Relay.Host = "127.0.0.1"
	assert.Equal(t, "127.0.0.1:8790", relayAddr(cfg))
}
