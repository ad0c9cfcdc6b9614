// pkg/adb/bridge.go
package adb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/arc-language/droidkit/pkg/core"
	"github.com/arc-language/droidkit/pkg/subprocess"
)

// Bridge drives a connected device through the adb command line tool.
// A Bridge is built for one artifact and holds no state between calls.
type Bridge struct {
	adbPath   string
	serial    string
	remoteDir string
	runArgs   []string
	artifact  *core.Artifact
	runner    subprocess.Runner
	stdout    io.Writer
	stderr    io.Writer
	logger    *log.Logger
}

// New creates a Bridge for artifact; artifact may be nil for Verify
func New(cfg *core.Config, artifact *core.Artifact, runner subprocess.Runner) *Bridge {
	return &Bridge{
		adbPath:   Locate(cfg),
		serial:    os.Getenv(SerialEnv),
		remoteDir: cfg.RemoteDir,
		runArgs:   cfg.RunArgs,
		artifact:  artifact,
		runner:    runner,
		stdout:    cfg.Stdout,
		stderr:    cfg.Stderr,
		logger:    cfg.Logger,
	}
}

// Factory returns a core.BridgeFactory producing adb bridges
func Factory(runner subprocess.Runner) core.BridgeFactory {
	return func(cfg *core.Config, artifact *core.Artifact) core.DeviceBridge {
		return New(cfg, artifact, runner)
	}
}

// RemoteDir returns the working directory used on the device
func (b *Bridge) RemoteDir() string {
	return b.remoteDir
}

// Verify checks that adb works, that exactly one device is ready and that
// the device can run at least one supported architecture
func (b *Bridge) Verify(ctx context.Context) error {
	res, err := b.exec(ctx, nil, "version")
	if err != nil {
		return b.fail(core.ErrConnectivity, "verify", fmt.Errorf("running %s: %w", b.adbPath, err), installHint)
	}
	version := firstLine(string(res.Output))
	fmt.Fprintf(b.stdout, "✓ %s (%s)\n", version, b.adbPath)

	res, err = b.exec(ctx, nil, "devices", "-l")
	if err != nil {
		return b.fail(core.ErrConnectivity, "verify", fmt.Errorf("listing devices: %w", err), installHint)
	}
	device, err := b.selectDevice(ParseDevices(string(res.Output)))
	if err != nil {
		return err
	}
	b.serial = device.Serial
	if device.Model != "" {
		fmt.Fprintf(b.stdout, "✓ Device: %s (%s)\n", device.Serial, device.Model)
	} else {
		fmt.Fprintf(b.stdout, "✓ Device: %s\n", device.Serial)
	}

	res, err = b.exec(ctx, nil, "shell", "getprop", ABIListProperty)
	if err != nil {
		return b.fail(core.ErrConnectivity, "verify", fmt.Errorf("reading device ABIs: %w", err), noDeviceHint)
	}
	archs := ParseABIList(string(res.Output))
	if len(archs) == 0 {
		return b.fail(core.ErrConnectivity, "verify",
			fmt.Errorf("device %s reports ABIs %q, none of which is supported", device.Serial, strings.TrimSpace(string(res.Output))), "")
	}
	names := make([]string, len(archs))
	for i, a := range archs {
		names[i] = a.String()
	}
	fmt.Fprintf(b.stdout, "✓ Runnable architectures: %s\n", strings.Join(names, ", "))
	return nil
}

func (b *Bridge) selectDevice(devices []Device) (Device, error) {
	if b.serial != "" {
		for _, d := range devices {
			if d.Serial == b.serial {
				return b.checkState(d)
			}
		}
		return Device{}, b.fail(core.ErrConnectivity, "verify",
			fmt.Errorf("device %s=%s is not connected", SerialEnv, b.serial), noDeviceHint)
	}

	switch len(devices) {
	case 0:
		return Device{}, b.fail(core.ErrConnectivity, "verify", fmt.Errorf("no device connected"), noDeviceHint)
	case 1:
		return b.checkState(devices[0])
	default:
		serials := make([]string, len(devices))
		for i, d := range devices {
			serials[i] = d.Serial
		}
		return Device{}, b.fail(core.ErrConnectivity, "verify",
			fmt.Errorf("%d devices connected (%s)", len(devices), strings.Join(serials, ", ")), multipleDevicesHint)
	}
}

func (b *Bridge) checkState(d Device) (Device, error) {
	switch d.State {
	case StateDevice:
		return d, nil
	case StateUnauthorized:
		return Device{}, b.fail(core.ErrConnectivity, "verify",
			fmt.Errorf("device %s is unauthorized", d.Serial), unauthorizedHint)
	default:
		return Device{}, b.fail(core.ErrConnectivity, "verify",
			fmt.Errorf("device %s is %s", d.Serial, d.State), noDeviceHint)
	}
}

// Push copies libraries and binary into the remote directory and makes the
// binary executable
func (b *Bridge) Push(ctx context.Context, libraries []string, binary string) error {
	if !fileExists(binary) {
		return b.fail(core.ErrTransfer, "push",
			fmt.Errorf("binary %s does not exist, run build first", binary), "")
	}

	if _, err := b.exec(ctx, nil, "shell", "mkdir", "-p", shellQuote(b.remoteDir)); err != nil {
		return b.fail(core.ErrTransfer, "push", fmt.Errorf("creating %s: %w", b.remoteDir, err), noDeviceHint)
	}

	files := (&core.Artifact{LibraryPaths: libraries, BinaryPath: binary}).Files()
	for _, local := range files {
		info, err := os.Stat(local)
		if err != nil {
			return b.fail(core.ErrTransfer, "push", err, "")
		}
		remote := path.Join(b.remoteDir, filepath.Base(local))
		fmt.Fprintf(b.stdout, "  pushing %s (%s)\n", filepath.Base(local), humanize.Bytes(uint64(info.Size())))
		if _, err := b.exec(ctx, nil, "push", local, remote); err != nil {
			return b.fail(core.ErrTransfer, "push", fmt.Errorf("pushing %s: %w", local, err), "")
		}
	}

	remoteBinary := path.Join(b.remoteDir, filepath.Base(binary))
	if _, err := b.exec(ctx, nil, "shell", "chmod", "755", shellQuote(remoteBinary)); err != nil {
		return b.fail(core.ErrTransfer, "push", fmt.Errorf("making %s executable: %w", remoteBinary, err), "")
	}

	b.logger.Printf("  ✓ Pushed %d files to %s", len(files), b.remoteDir)
	return nil
}

// Run launches the pushed binary and streams its output until it exits.
// The remote exit status is returned as is.
func (b *Bridge) Run(ctx context.Context) (int, error) {
	if b.artifact == nil {
		return 0, b.fail(core.ErrRuntime, "run", fmt.Errorf("no artifact to run"), "")
	}

	dir := shellQuote(b.remoteDir)
	parts := []string{"cd", dir, "&&", "LD_LIBRARY_PATH=" + dir, "./" + shellQuote(filepath.Base(b.artifact.BinaryPath))}
	for _, arg := range b.runArgs {
		parts = append(parts, shellQuote(arg))
	}

	res, err := b.exec(ctx, b.stdout, "shell", strings.Join(parts, " "))
	if err != nil {
		var te *core.ToolError
		if errors.As(err, &te) {
			return te.ExitStatus, nil
		}
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, b.fail(core.ErrRuntime, "run", err, noDeviceHint)
	}
	return res.ExitStatus, nil
}

// Clean removes the remote directory and everything in it
func (b *Bridge) Clean(ctx context.Context) error {
	if _, err := b.exec(ctx, nil, "shell", "rm", "-rf", shellQuote(b.remoteDir)); err != nil {
		return b.fail(core.ErrTransfer, "clean", fmt.Errorf("removing %s: %w", b.remoteDir, err), noDeviceHint)
	}
	b.logger.Printf("  ✓ Removed %s from device", b.remoteDir)
	return nil
}

// exec runs adb with args, streaming to stdout when given
func (b *Bridge) exec(ctx context.Context, stdout io.Writer, args ...string) (*subprocess.Result, error) {
	command := []string{b.adbPath}
	if b.serial != "" {
		command = append(command, "-s", b.serial)
	}
	command = append(command, args...)

	c := &subprocess.Command{Args: command}
	if stdout != nil {
		c.Stdout = stdout
		c.Stderr = b.stderr
	}
	return b.runner.Run(ctx, c)
}

func (b *Bridge) fail(kind error, op string, err error, hint string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	e := &core.Error{Kind: kind, Op: op, Err: err, Hint: hint}
	if b.artifact != nil {
		e.Arch = b.artifact.Arch
	}
	return e
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
