// FILE: pidcat/src/cmd/pidcat/bootstrap.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"pidcat/src/internal/adb"
	"pidcat/src/internal/config"
	"pidcat/src/internal/filter"
	"pidcat/src/internal/format"
	"pidcat/src/internal/match"
	"pidcat/src/internal/registry"
	"pidcat/src/internal/service"
	"pidcat/src/internal/sink"
	"pidcat/src/internal/source"
	"pidcat/src/internal/terminal"
	"pidcat/src/internal/version"

	"github.com/lixenwraith/log"
)

const sourceBufferSize = 256

// run wires the source, pipeline and sinks for one session and blocks until
// input ends or a signal arrives.
func run(parent context.Context, cfg *config.Config) error {
	if err := initializeLogger(cfg); err != nil {
		return usageError(fmt.Errorf("failed to initialize logger: %w", err))
	}

	logger.Info("msg", "pidcat starting",
		"component", "main",
		"version", version.String(),
		"packages", cfg.Packages,
		"log_output", cfg.Logging.Output)

	ctx, cancel := signalContext(parent)
	defer cancel()

	stdin := terminal.Open(os.Stdin)
	stdout := terminal.Open(os.Stdout)
	defer func() {
		if err := stdout.Restore(); err != nil {
			logger.Warn("msg", "Failed to restore terminal",
				"component", "main",
				"error", err)
		}
	}()

	reg := registry.New()

	src, err := openSource(ctx, cfg, stdin, reg)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("msg", "Interrupted during setup", "component", "main")
			return nil
		}
		return err
	}

	pipeline, err := buildPipeline(cfg, reg, stdout)
	if err != nil {
		return usageError(err)
	}

	svc := service.NewService(ctx, pipeline, logger)
	err = svc.Run(src)
	if ctx.Err() != nil {
		logger.Info("msg", "Interrupted, shutting down", "component", "main")
		return nil
	}
	if err != nil {
		if errors.Is(err, syscall.EPIPE) {
			logger.Debug("msg", "Output closed by reader", "component", "main")
			return nil
		}
		return err
	}
	return nil
}

// openSource selects the line source once: a saved file, redirected stdin,
// or a live adb logcat process.
func openSource(ctx context.Context, cfg *config.Config, stdin *terminal.Terminal, reg *registry.Registry) (source.Source, error) {
	if cfg.Input != "" {
		Print("Reading logs from %s\n", cfg.Input)
		return source.NewFileSource(cfg.Input, sourceBufferSize, logger)
	}

	if !stdin.IsTerminal() {
		logger.Debug("msg", "Standard input is redirected, reading logs from it",
			"component", "main")
		return source.NewStdinSource(sourceBufferSize, logger), nil
	}

	client := adb.NewClient(adb.Options{
		Path:        cfg.Device.AdbPath,
		Serial:      cfg.Device.Serial,
		UseDevice:   cfg.Device.UseDevice,
		UseEmulator: cfg.Device.UseEmulator,
	}, logger)

	if err := selectDevice(ctx, client, stdin, os.Stdin); err != nil {
		return nil, err
	}
	announceTarget(cfg, client)

	if cfg.CurrentApp {
		pkg, err := client.CurrentApp(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to find current app: %w", err)
		}
		Print("Current app: %s\n", pkg)
		cfg.Packages = append(cfg.Packages, pkg)
	}

	if cfg.Clear {
		if err := client.Clear(ctx); err != nil {
			logger.Warn("msg", "Failed to clear device log",
				"component", "main",
				"error", err)
			Warn("could not clear log buffer: %v\n", err)
		}
	}

	if !cfg.AllMode() {
		seedRegistry(ctx, cfg, client, reg)
	}

	src, err := source.NewProcessSource(client.LogcatCommand(ctx), sourceBufferSize, logger)
	if err != nil {
		return nil, err
	}
	Print("Listening on %s\n", strings.Join(client.Logcat(), " "))
	return src, nil
}

func announceTarget(cfg *config.Config, client *adb.Client) {
	switch {
	case client.Serial() != "":
		Print("Targeting device serial: %s\n", client.Serial())
	case cfg.Device.UseDevice:
		Print("Targeting first connected device\n")
	case cfg.Device.UseEmulator:
		Print("Targeting first running emulator\n")
	}
}

// seedRegistry tracks processes already running when the stream starts.
// No banners are produced for them.
func seedRegistry(ctx context.Context, cfg *config.Config, client *adb.Client, reg *registry.Registry) {
	spin := newSpinner(" Looking up running processes...")
	spin.Start()
	snapshot, err := client.Snapshot(ctx)
	spin.Stop()

	if err != nil {
		logger.Warn("msg", "Process snapshot failed",
			"component", "main",
			"error", err)
		Warn("could not list running processes: %v\n", err)
		return
	}

	packages := match.New(cfg.Packages)
	names := strings.Join(packages.Packages(), ", ")
	found := reg.Seed(snapshot, packages)
	if len(found) > 0 {
		Print("Found running PIDs for %s: %s\n", names, strings.Join(found, ", "))
	} else {
		Print("No running process for %s, waiting for it to start\n", names)
	}
}

func buildPipeline(cfg *config.Config, reg *registry.Registry, stdout *terminal.Terminal) (*service.Pipeline, error) {
	sinks := []sink.Sink{sink.NewConsoleSink("stdout", os.Stdout, logger)}

	var pipeline *service.Pipeline
	if cfg.Relay.Enabled {
		relay, err := sink.NewHTTPSink(sink.HTTPOptions{
			Host:           cfg.Relay.Host,
			Port:           cfg.Relay.Port,
			BufferSize:     cfg.Relay.BufferSize,
			RequestsPerSec: cfg.Relay.RequestsPerSec,
			Burst:          cfg.Relay.Burst,
			AllowIPs:       cfg.Relay.AllowIPs,
			DenyIPs:        cfg.Relay.DenyIPs,
		}, func() map[string]any {
			return pipeline.GetStats()
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create relay: %w", err)
		}
		sinks = append(sinks, relay)
		Print("Relaying output on http://%s/stream\n", relayAddr(cfg))
	}

	pipeline, err := service.NewPipeline(service.Options{
		Packages: cfg.Packages,
		Filter: filter.Options{
			All:         cfg.AllMode(),
			MinLevel:    cfg.Level(),
			Tags:        cfg.Tags,
			IgnoredTags: cfg.IgnoredTags,
		},
		Format: cfg.Format,
		FormatOptions: format.Options{
			TagWidth:       int(cfg.TagWidth),
			AlwaysShowTags: cfg.AlwaysShowTags,
			ColorGC:        cfg.ColorGC,
			Pretty:         cfg.JSONPretty,
			Width:          stdout.Width(),
			Profile:        stdout.Profile(),
		},
	}, reg, sinks, logger)
	if err != nil {
		return nil, err
	}
	return pipeline, nil
}

func relayAddr(cfg *config.Config) string {
	host := cfg.Relay.Host
	if host == "" {
		host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", host, cfg.Relay.Port)
}

// initializeLogger sets up the diagnostic logger based on configuration
func initializeLogger(cfg *config.Config) error {
	logger = log.NewLogger()

	levelValue, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	configArgs := []string{fmt.Sprintf("level=%d", levelValue)}

	// Configure based on output mode
	switch cfg.Logging.Output {
	case "none":
		configArgs = append(configArgs, "disable_file=true", "enable_stdout=false")

	case "stderr":
		configArgs = append(configArgs,
			"disable_file=true",
			"enable_stdout=true",
			"stdout_target=stderr")

	case "file":
		configArgs = append(configArgs,
			"enable_stdout=false",
			fmt.Sprintf("directory=%s", cfg.Logging.Directory),
			fmt.Sprintf("name=%s", cfg.Logging.Name))

	default:
		return fmt.Errorf("invalid log output mode: %s", cfg.Logging.Output)
	}

	if cfg.Logging.Format != "" {
		configArgs = append(configArgs, fmt.Sprintf("format=%s", cfg.Logging.Format))
	}

	return logger.InitWithDefaults(configArgs...)
}

func parseLogLevel(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return int(log.LevelDebug), nil
	case "info":
		return int(log.LevelInfo), nil
	case "warn", "warning":
		return int(log.LevelWarn), nil
	case "error":
		return int(log.LevelError), nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}
