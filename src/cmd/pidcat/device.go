// FILE: pidcat/src/cmd/pidcat/device.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"pidcat/src/internal/adb"
	"pidcat/src/internal/terminal"
)

// selectDevice makes sure adb has exactly one device to talk to. With several
// authorized devices and no explicit target the user picks one.
func selectDevice(ctx context.Context, client *adb.Client, stdin *terminal.Terminal, in io.Reader) error {
	spin := newSpinner(" Waiting for adb devices...")
	spin.Start()
	devices, err := client.AuthorizedDevices(ctx)
	spin.Stop()

	if err != nil {
		switch {
		case errors.Is(err, adb.ErrAdbNotFound):
			return fmt.Errorf("%w: is the Android SDK Platform-Tools directory in PATH?", err)
		case errors.Is(err, adb.ErrNoDevice):
			return fmt.Errorf("%w: connect a device with USB debugging enabled", err)
		}
		return err
	}

	if len(devices) == 1 || client.Targeted() {
		Print("Found %d device(s)\n", len(devices))
		return nil
	}

	if !stdin.IsTerminal() {
		return fmt.Errorf("multiple devices found (%s), select one with -s", serials(devices))
	}

	serial, err := promptDevice(ctx, in, os.Stderr, devices)
	if err != nil {
		return err
	}
	client.SetSerial(serial)
	Print("Selected device: %s\n", serial)
	return nil
}

// promptDevice asks until a valid number is entered, input ends, or ctx is
// cancelled. The blocking read runs on its own goroutine so an interrupt
// returns immediately.
func promptDevice(ctx context.Context, in io.Reader, out io.Writer, devices []adb.Device) (string, error) {
	fmt.Fprintf(out, "Multiple devices found (%d). Please select one:\n", len(devices))
	for i, d := range devices {
		fmt.Fprintf(out, "  [%d] %s\n", i+1, d.Serial)
	}

	answers := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case answers <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprintf(out, "Enter device number [1-%d]: ", len(devices))

		var answer string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return "", ctx.Err()
		case err := <-readErr:
			if err != nil {
				return "", fmt.Errorf("read device selection: %w", err)
			}
			return "", errors.New("no device selected")
		case answer = <-answers:
		}

		idx, err := strconv.Atoi(strings.TrimSpace(answer))
		if err != nil || idx < 1 || idx > len(devices) {
			fmt.Fprintln(out, "Invalid selection, try again.")
			continue
		}
		return devices[idx-1].Serial, nil
	}
}

func serials(devices []adb.Device) string {
	names := make([]string, len(devices))
	for i, d := range devices {
		names[i] = d.Serial
	}
	return strings.Join(names, ", ")
}
