// FILE: pidcat/src/internal/adb/adb.go
package adb

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"pidcat/src/internal/pattern"

	"github.com/lixenwraith/log"
)

var (
	// ErrAdbNotFound is returned when the adb binary cannot be located
	ErrAdbNotFound = errors.New("adb command not found")
	// ErrNoDevice is returned when no authorized device is attached
	ErrNoDevice = errors.New("no authorized device found")
)

// DevicesTimeout bounds the `adb devices` query
const DevicesTimeout = 5 * time.Second

// Runner executes a command and returns its standard output
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Options selects the adb binary and target device
type Options struct {
	Path        string
	Serial      string
	UseDevice   bool
	UseEmulator bool
	Runner      Runner
}

// Device is one line of `adb devices`
type Device struct {
	Serial string
	State  string
}

// Authorized reports whether adb may talk to the device
func (d Device) Authorized() bool {
	return strings.Contains(d.State, "device") && !strings.Contains(d.State, "unauthorized")
}

// Client issues adb commands against the selected device
type Client struct {
	opts   Options
	run    Runner
	logger *log.Logger
}

// NewClient creates a client. An empty path resolves "adb" from PATH.
func NewClient(opts Options, logger *log.Logger) *Client {
	if opts.Path == "" {
		opts.Path = "adb"
	}
	run := opts.Runner
	if run == nil {
		run = execRunner
	}
	return &Client{
		opts:   opts,
		run:    run,
		logger: logger,
	}
}

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// SetSerial pins the client to one device, replacing -d/-e selection.
func (c *Client) SetSerial(serial string) {
	c.opts.Serial = serial
}

// Serial returns the pinned device serial, if any
func (c *Client) Serial() string {
	return c.opts.Serial
}

// Targeted reports whether a device was chosen explicitly
func (c *Client) Targeted() bool {
	return c.opts.Serial != "" || c.opts.UseDevice || c.opts.UseEmulator
}

// BaseArgs returns the device selection flags prefixed to every command
func (c *Client) BaseArgs() []string {
	switch {
	case c.opts.Serial != "":
		return []string{"-s", c.opts.Serial}
	case c.opts.UseDevice:
		return []string{"-d"}
	case c.opts.UseEmulator:
		return []string{"-e"}
	default:
		return nil
	}
}

func (c *Client) args(extra ...string) []string {
	return append(c.BaseArgs(), extra...)
}

func (c *Client) exec(ctx context.Context, args ...string) ([]byte, error) {
	c.logger.Debug("msg", "Running adb",
		"component", "adb",
		"path", c.opts.Path,
		"args", args)

	out, err := c.run(ctx, c.opts.Path, args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAdbNotFound, c.opts.Path)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("adb %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return out, fmt.Errorf("adb %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

// Devices lists attached devices. Selection flags are not applied.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	ctx, cancel := context.WithTimeout(ctx, DevicesTimeout)
	defer cancel()

	out, err := c.exec(ctx, "devices")
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("adb devices timed out after %s, adb server may be unresponsive", DevicesTimeout)
		}
		return nil, err
	}
	return ParseDevices(string(out)), nil
}

// AuthorizedDevices returns only devices adb can talk to, or ErrNoDevice
func (c *Client) AuthorizedDevices(ctx context.Context) ([]Device, error) {
	devices, err := c.Devices(ctx)
	if err != nil {
		return nil, err
	}

	var authorized []Device
	for _, d := range devices {
		if d.Authorized() {
			authorized = append(authorized, d)
		}
	}
	if len(authorized) == 0 {
		return nil, ErrNoDevice
	}
	return authorized, nil
}

// ParseDevices parses `adb devices` output, skipping the header line
func ParseDevices(output string) []Device {
	var devices []Device
	scanner := bufio.NewScanner(strings.NewReader(output))
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			first = false
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		devices = append(devices, Device{Serial: parts[0], State: parts[1]})
	}
	return devices
}

// LogcatCommand builds the streaming logcat process in brief format
func (c *Client) LogcatCommand(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, c.opts.Path, c.args("logcat", "-v", "brief")...)
}

// Logcat returns the argument vector LogcatCommand runs
func (c *Client) Logcat() []string {
	return append([]string{c.opts.Path}, c.args("logcat", "-v", "brief")...)
}

// Clear empties the device log buffer
func (c *Client) Clear(ctx context.Context) error {
	_, err := c.exec(ctx, c.args("logcat", "-c")...)
	return err
}

// Snapshot returns the device's process table
func (c *Client) Snapshot(ctx context.Context) (string, error) {
	out, err := c.exec(ctx, c.args("shell", "ps")...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// CurrentApp returns the package of the foreground task
func (c *Client) CurrentApp(ctx context.Context) (string, error) {
	out, err := c.exec(ctx, c.args("shell", "dumpsys", "activity", "activities")...)
	if err != nil {
		return "", err
	}

	if pkg, ok := pattern.ParseCurrentApp(string(out)); ok {
		return pkg, nil
	}
	return "", fmt.Errorf("no running task found in activity dump")
}
