// pkg/builder/builder.go
package builder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/arc-language/droidkit/pkg/arch"
	"github.com/arc-language/droidkit/pkg/core"
	"github.com/arc-language/droidkit/pkg/subprocess"
	"github.com/arc-language/droidkit/pkg/toolchain"
)

// interruptCleanupTimeout bounds the best-effort undeploy after a canceled deploy
const interruptCleanupTimeout = 10 * time.Second

// Builder builds and deploys the component for exactly one architecture.
// It owns the architecture's build directory and nothing else.
type Builder struct {
	arch      arch.Architecture
	config    *core.Config
	tools     toolchain.Tools
	runner    subprocess.Runner
	newBridge core.BridgeFactory
	logger    *log.Logger
}

// New creates a Builder for a, resolving its toolchain from cfg
func New(cfg *core.Config, a arch.Architecture, runner subprocess.Runner, newBridge core.BridgeFactory) (*Builder, error) {
	tools, err := toolchain.NewResolver(cfg).Resolve(a)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		arch:      a,
		config:    cfg,
		tools:     tools,
		runner:    runner,
		newBridge: newBridge,
		logger:    cfg.Logger,
	}

	b.logger.Printf("Initialized builder for %s", a)
	b.logger.Printf("  Compiler: %s", tools.Compiler)
	b.logger.Printf("  LibraryCopier: %s", tools.LibraryCopier)
	b.logger.Printf("  BuildDir: %s", b.BuildDir())

	return b, nil
}

// Arch returns the architecture this builder targets
func (b *Builder) Arch() arch.Architecture {
	return b.arch
}

// BuildDir returns the build directory owned by this builder
func (b *Builder) BuildDir() string {
	return b.config.BuildDir(b.arch.String())
}

// BinaryPath returns where the component binary is produced
func (b *Builder) BinaryPath() string {
	return b.config.BinaryPath(b.arch.String())
}

// Build compiles the sources into the component binary. The build
// directory is created if needed; a non-zero compiler exit is a build error.
func (b *Builder) Build(ctx context.Context) error {
	if err := b.tools.Check(b.tools.Compiler); err != nil {
		return b.annotate(err)
	}

	sources, err := b.sources()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(b.BuildDir(), 0755); err != nil {
		return b.fail(core.ErrBuild, "build", fmt.Errorf("creating build directory: %w", err))
	}

	args := []string{b.tools.Compiler}
	args = append(args, b.config.BuildFlags...)
	args = append(args, "-o", b.BinaryPath())
	args = append(args, sources...)

	b.logger.Printf("Building %s from %d source files", b.arch, len(sources))
	_, err = b.runner.Run(ctx, &subprocess.Command{
		Args:   args,
		Dir:    b.config.Root,
		Stdout: b.config.Stdout,
		Stderr: b.config.Stderr,
	})
	if err != nil {
		return b.fail(core.ErrBuild, "build", err)
	}

	b.logger.Printf("  ✓ Built %s", b.BinaryPath())
	return nil
}

// Clean removes the build directory; an absent directory is not an error
func (b *Builder) Clean(ctx context.Context) error {
	b.logger.Printf("Removing %s", b.BuildDir())
	if err := os.RemoveAll(b.BuildDir()); err != nil {
		return b.fail(core.ErrBuild, "clean", fmt.Errorf("removing build directory: %w", err))
	}
	return nil
}

// CollectLibraries repopulates the library staging directory with the
// runtime libraries the binary needs and returns their paths in listing
// order.
func (b *Builder) CollectLibraries(ctx context.Context) ([]string, error) {
	if err := b.tools.Check(b.tools.LibraryCopier); err != nil {
		return nil, b.annotate(err)
	}

	libDir := b.config.LibDir(b.arch.String())
	if err := os.RemoveAll(libDir); err != nil {
		return nil, b.fail(core.ErrBuild, "collect libraries", fmt.Errorf("removing %s: %w", libDir, err))
	}

	b.logger.Printf("Copying runtime libraries into %s", libDir)
	_, err := b.runner.Run(ctx, &subprocess.Command{
		Args:   []string{b.tools.LibraryCopier, libDir},
		Dir:    b.config.Root,
		Stdout: b.config.Stdout,
		Stderr: b.config.Stderr,
	})
	if err != nil {
		return nil, b.fail(core.ErrBuild, "collect libraries", err)
	}

	libs, err := b.libraries()
	if err != nil {
		return nil, b.fail(core.ErrBuild, "collect libraries", err)
	}
	b.logger.Printf("  ✓ %d libraries staged", len(libs))
	return libs, nil
}

// Artifact describes the build output currently on disk
func (b *Builder) Artifact() (*core.Artifact, error) {
	libs, err := b.libraries()
	if err != nil {
		return nil, b.fail(core.ErrBuild, "list artifact", err)
	}
	return &core.Artifact{
		Arch:         b.arch.String(),
		BinaryPath:   b.BinaryPath(),
		LibraryPaths: libs,
	}, nil
}

// Deploy refreshes the libraries, pushes them with the binary to the device
// and runs the binary there, blocking until it exits. A missing binary is
// reported by the bridge. When ctx is canceled mid-deploy an undeploy is
// attempted, without guarantee.
func (b *Builder) Deploy(ctx context.Context) error {
	libs, err := b.CollectLibraries(ctx)
	if err != nil {
		return err
	}

	artifact := &core.Artifact{
		Arch:         b.arch.String(),
		BinaryPath:   b.BinaryPath(),
		LibraryPaths: libs,
	}
	bridge := b.newBridge(b.config, artifact)

	if err := bridge.Push(ctx, artifact.LibraryPaths, artifact.BinaryPath); err != nil {
		return b.interrupted(ctx, bridge, b.annotate(err))
	}

	status, err := bridge.Run(ctx)
	if err != nil {
		return b.interrupted(ctx, bridge, b.annotate(err))
	}
	if status != 0 {
		return b.fail(core.ErrRuntime, "deploy", fmt.Errorf("remote process exited with status %d", status))
	}
	return nil
}

// Undeploy removes previously pushed files from the device. The local
// build directory is left untouched.
func (b *Builder) Undeploy(ctx context.Context) error {
	artifact, err := b.Artifact()
	if err != nil {
		return err
	}
	if err := b.newBridge(b.config, artifact).Clean(ctx); err != nil {
		return b.annotate(err)
	}
	return nil
}

func (b *Builder) interrupted(ctx context.Context, bridge core.DeviceBridge, err error) error {
	if ctx.Err() == nil || !b.config.CleanupOnInterrupt {
		return err
	}

	b.logger.Printf("Deploy of %s interrupted, removing pushed files", b.arch)
	cleanupCtx, cancel := context.WithTimeout(context.Background(), interruptCleanupTimeout)
	defer cancel()
	if cleanErr := bridge.Clean(cleanupCtx); cleanErr != nil {
		b.logger.Printf("  ⚠️  Warning: cleanup after interrupt failed: %v", cleanErr)
	}
	return err
}

// sources lists the files under the sources directory matching the
// configured pattern, in lexical walk order
func (b *Builder) sources() ([]string, error) {
	dir := b.config.SourcesDir()
	var sources []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, err := filepath.Match(b.config.SourcePattern, d.Name())
		if err != nil {
			return err
		}
		if ok {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, b.annotate(core.ConfigError("build", fmt.Errorf("listing sources in %s: %w", dir, err)))
	}
	if len(sources) == 0 {
		return nil, b.annotate(core.ConfigError("build",
			fmt.Errorf("no sources matching %q in %s", b.config.SourcePattern, dir)))
	}
	return sources, nil
}

func (b *Builder) libraries() ([]string, error) {
	libDir := b.config.LibDir(b.arch.String())
	entries, err := os.ReadDir(libDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", libDir, err)
	}

	var libs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		libs = append(libs, filepath.Join(libDir, entry.Name()))
	}
	return libs, nil
}

func (b *Builder) fail(kind error, op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w", op, b.arch, err)
	}
	return &core.Error{Kind: kind, Op: op, Arch: b.arch.String(), Err: err}
}

// annotate fills in the architecture on errors raised below the builder
func (b *Builder) annotate(err error) error {
	var e *core.Error
	if errors.As(err, &e) && e.Arch == "" {
		e.Arch = b.arch.String()
	}
	return err
}
