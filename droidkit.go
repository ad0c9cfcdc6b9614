// droidkit.go
package droidkit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"

	"github.com/arc-language/droidkit/pkg/adb"
	"github.com/arc-language/droidkit/pkg/arch"
	"github.com/arc-language/droidkit/pkg/builder"
	"github.com/arc-language/droidkit/pkg/core"
	"github.com/arc-language/droidkit/pkg/subprocess"
)

// Re-export core types for convenience
type (
	Config        = core.Config
	Artifact      = core.Artifact
	DeviceBridge  = core.DeviceBridge
	BridgeFactory = core.BridgeFactory
)

// Target is the per-architecture lifecycle the dispatcher drives
type Target interface {
	Build(ctx context.Context) error
	Clean(ctx context.Context) error
	Deploy(ctx context.Context) error
	Undeploy(ctx context.Context) error
}

// TargetFactory creates the Target for one architecture
type TargetFactory func(cfg *core.Config, a arch.Architecture) (Target, error)

// Options configures a Project
type Options struct {
	Root         string // Project root (current directory if empty)
	SettingsPath string // Settings file (<root>/local.properties.yml if empty)
	Program      string // Name shown in usage text
	Debug        bool
	KeepGoing    bool // Continue build/clean after a failing architecture
	Stdout       io.Writer
	Stderr       io.Writer

	// Runner executes external tools; defaults to local subprocesses
	Runner subprocess.Runner
	// NewBridge builds device bridges; defaults to adb
	NewBridge core.BridgeFactory
	// NewTarget builds per-architecture targets; defaults to builder.New
	NewTarget TargetFactory
}

// Project dispatches one action per invocation over the fixed architectures
type Project struct {
	opts Options
}

// NewProject creates a Project, filling in defaults
func NewProject(opts Options) *Project {
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Program == "" {
		opts.Program = "droidkit"
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Project{opts: opts}
}

// Perform runs the action named by token. Usage never fails and touches
// nothing; every other action loads the settings once before doing any work.
func (p *Project) Perform(ctx context.Context, token string) error {
	action, err := ParseAction(token)
	if err != nil {
		return err
	}

	switch action.Kind {
	case ActionUsage:
		PrintUsage(p.opts.Stdout, p.opts.Program)
		return nil
	case ActionVerify:
		return p.verify(ctx)
	}

	cfg, err := p.loadConfig()
	if err != nil {
		return err
	}
	cfg.Logger.Printf("Performing %s in %s", action, cfg.Root)

	switch action.Kind {
	case ActionBuild:
		return p.forEach(ctx, cfg, "build", Target.Build)
	case ActionClean:
		return p.forEach(ctx, cfg, "clean", Target.Clean)
	case ActionDeploy:
		return p.one(ctx, cfg, action.Arch, "deploy", Target.Deploy)
	case ActionUndeploy:
		return p.one(ctx, cfg, action.Arch, "undeploy", Target.Undeploy)
	}
	return fmt.Errorf("unhandled action %s", action)
}

func (p *Project) loadConfig() (*core.Config, error) {
	cfg, err := core.LoadConfig(p.opts.Root, p.opts.SettingsPath, p.opts.Debug)
	if err != nil {
		return nil, err
	}
	p.attach(cfg)
	return cfg, nil
}

func (p *Project) attach(cfg *core.Config) {
	cfg.Stdout = p.opts.Stdout
	cfg.Stderr = p.opts.Stderr
	if p.opts.KeepGoing {
		cfg.KeepGoing = true
	}
}

// forEach runs fn for every architecture in build order. The first failure
// stops the loop unless KeepGoing is set, in which case all failures are
// reported together.
func (p *Project) forEach(ctx context.Context, cfg *core.Config, verb string, fn func(Target, context.Context) error) error {
	var errs error
	for _, a := range arch.All {
		err := p.one(ctx, cfg, a, verb, fn)
		if err == nil {
			continue
		}
		if !cfg.KeepGoing || ctx.Err() != nil {
			return err
		}
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (p *Project) one(ctx context.Context, cfg *core.Config, a arch.Architecture, verb string, fn func(Target, context.Context) error) error {
	fmt.Fprintf(p.opts.Stdout, "==> %s %s\n", verb, a)

	target, err := p.newTarget(cfg, a)
	if err == nil {
		err = fn(target, ctx)
	}
	if err != nil {
		fmt.Fprintf(p.opts.Stderr, "✗ %s %s failed: %v\n", verb, a, err)
		return err
	}

	fmt.Fprintf(p.opts.Stdout, "✓ %s %s\n", verb, a)
	return nil
}

// verify only needs the settings to locate adb, so a project without a
// usable settings file still gets checked with defaults
func (p *Project) verify(ctx context.Context) error {
	cfg, err := p.loadConfig()
	if err != nil {
		if !errors.Is(err, core.ErrConfiguration) {
			return err
		}
		cfg = core.DefaultConfig(p.opts.Root, p.opts.Debug)
		p.attach(cfg)
		cfg.Logger.Printf("Settings unavailable, verifying with defaults: %v", err)
	}

	return p.bridgeFactory(cfg)(cfg, nil).Verify(ctx)
}

func (p *Project) runner(cfg *core.Config) subprocess.Runner {
	if p.opts.Runner != nil {
		return p.opts.Runner
	}
	return subprocess.NewExec(cfg.Logger)
}

func (p *Project) bridgeFactory(cfg *core.Config) core.BridgeFactory {
	if p.opts.NewBridge != nil {
		return p.opts.NewBridge
	}
	return adb.Factory(p.runner(cfg))
}

func (p *Project) newTarget(cfg *core.Config, a arch.Architecture) (Target, error) {
	if p.opts.NewTarget != nil {
		return p.opts.NewTarget(cfg, a)
	}
	b, err := builder.New(cfg, a, p.runner(cfg), p.bridgeFactory(cfg))
	if err != nil {
		return nil, err
	}
	return b, nil
}
