// FILE: pidcat/src/cmd/pidcat/commands.go
package main

import (
	"errors"
	"fmt"

	"pidcat/src/internal/config"
	"pidcat/src/internal/version"

	"github.com/spf13/cobra"
)

// cliFlags holds raw flag values. They override the loaded configuration
// only when set on the command line.
type cliFlags struct {
	configFile  string
	tagWidth    int64
	minLevel    string
	colorGC     bool
	alwaysTags  bool
	current     bool
	serial      string
	useDevice   bool
	useEmulator bool
	clear       bool
	tags        []string
	ignoredTags []string
	all         bool
	input       string
	format      string
	jsonPretty  bool
	logLevel    string
	logOutput   string
	quiet       bool
	relay       bool
	relayHost   string
	relayPort   int64
	showVersion bool
}

func newRootCommand() *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "pidcat [flags] [package ...]",
		Short: "Filter and colorize Android logcat output by application package",
		Long: `pidcat follows the processes of the named Android packages through adb logcat,
showing only their log lines with per-tag colors, level badges and banners
when a process starts or dies.

With no package names every line is shown. When standard input is not a
terminal, logs are read from it instead of a device.`,
		Example: `  pidcat com.example.app
  pidcat -l I -t MyTag -t 'Net.*' com.example.app com.example.app:sync
  adb logcat -v brief -d | pidcat com.example.app
  pidcat --input saved.log --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.showVersion {
				fmt.Println(version.String())
				return nil
			}

			output.quiet.Store(flags.quiet)

			cfg, err := config.Load(flags.configFile, flags.overrides(cmd, args)...)
			if err != nil {
				if errors.Is(err, config.ErrConfigNotFound) {
					return usageError(err)
				}
				return usageError(fmt.Errorf("failed to load config: %w", err))
			}
			output.quiet.Store(cfg.Quiet)

			return run(cmd.Context(), cfg)
		},
	}

	bindFlags(cmd, flags)
	return cmd
}

// bindFlags registers the command-line flags onto flags
func bindFlags(cmd *cobra.Command, flags *cliFlags) {
	f := cmd.Flags()
	f.StringVar(&flags.configFile, "config", "", "Config file path (default $PIDCAT_CONFIG_FILE or ~/.config/pidcat.toml)")
	f.Int64VarP(&flags.tagWidth, "tag-width", "w", 23, "Width of log tag column, 0 hides it")
	f.StringVarP(&flags.minLevel, "min-level", "l", "V", "Minimum level to be displayed: V, D, I, W, E, F")
	f.BoolVar(&flags.colorGC, "color-gc", false, "Color garbage collection")
	f.BoolVar(&flags.alwaysTags, "always-display-tags", false, "Always display the tag name")
	f.BoolVar(&flags.current, "current", false, "Filter logcat by the current foreground application")
	f.StringVarP(&flags.serial, "serial", "s", "", "Device serial number (adb -s option)")
	f.BoolVarP(&flags.useDevice, "device", "d", false, "Use first device for log input (adb -d option)")
	f.BoolVarP(&flags.useEmulator, "emulator", "e", false, "Use first emulator for log input (adb -e option)")
	f.BoolVarP(&flags.clear, "clear", "c", false, "Clear the entire log before running")
	f.StringArrayVarP(&flags.tags, "tag", "t", nil, "Filter output by specified tag(s), repeatable")
	f.StringArrayVarP(&flags.ignoredTags, "ignore-tag", "i", nil, "Filter output by ignoring specified tag(s), repeatable")
	f.BoolVarP(&flags.all, "all", "a", false, "Print all log messages regardless of package")
	f.StringVar(&flags.input, "input", "", "Read logs from a saved file instead of stdin or adb")
	f.StringVar(&flags.format, "format", "color", "Output format: color, raw, json")
	f.BoolVar(&flags.jsonPretty, "json-pretty", false, "Indent json output")
	f.StringVar(&flags.logLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error")
	f.StringVar(&flags.logOutput, "log-output", "", "Diagnostic log output: stderr, file, none")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "Suppress status messages")
	f.BoolVar(&flags.relay, "relay", false, "Relay rendered output to HTTP clients")
	f.StringVar(&flags.relayHost, "relay-host", "", "Relay listen address")
	f.Int64Var(&flags.relayPort, "relay-port", 0, "Relay listen port")
	f.BoolVarP(&flags.showVersion, "version", "v", false, "Print the version and exit")
}

// overrides turns explicitly set flags and positional packages into config
// overrides.
func (fl *cliFlags) overrides(cmd *cobra.Command, args []string) []config.Override {
	changed := cmd.Flags().Changed
	var out []config.Override

	add := func(name string, apply config.Override) {
		if changed(name) {
			out = append(out, apply)
		}
	}

	if len(args) > 0 {
		packages := append([]string(nil), args...)
		out = append(out, func(c *config.Config) { c.Packages = packages })
	}

	add("tag-width", func(c *config.Config) { c.TagWidth = fl.tagWidth })
	add("min-level", func(c *config.Config) { c.MinLevel = fl.minLevel })
	add("color-gc", func(c *config.Config) { c.ColorGC = fl.colorGC })
	add("always-display-tags", func(c *config.Config) { c.AlwaysShowTags = fl.alwaysTags })
	add("current", func(c *config.Config) { c.CurrentApp = fl.current })
	add("serial", func(c *config.Config) { c.Device.Serial = fl.serial })
	add("device", func(c *config.Config) { c.Device.UseDevice = fl.useDevice })
	add("emulator", func(c *config.Config) { c.Device.UseEmulator = fl.useEmulator })
	add("clear", func(c *config.Config) { c.Clear = fl.clear })
	add("tag", func(c *config.Config) { c.Tags = fl.tags })
	add("ignore-tag", func(c *config.Config) { c.IgnoredTags = fl.ignoredTags })
	add("all", func(c *config.Config) { c.All = fl.all })
	add("input", func(c *config.Config) { c.Input = fl.input })
	add("format", func(c *config.Config) { c.Format = fl.format })
	add("json-pretty", func(c *config.Config) { c.JSONPretty = fl.jsonPretty })
	add("log-level", func(c *config.Config) { c.Logging.Level = fl.logLevel })
	add("log-output", func(c *config.Config) { c.Logging.Output = fl.logOutput })
	add("quiet", func(c *config.Config) { c.Quiet = fl.quiet })
	add("relay", func(c *config.Config) { c.Relay.Enabled = fl.relay })
	add("relay-host", func(c *config.Config) { c.Relay.Host = fl.relayHost })
	add("relay-port", func(c *config.Config) { c.Relay.Port = fl.relayPort })

	return out
}
