// pkg/toolchain/resolver.go
package toolchain

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arc-language/droidkit/pkg/arch"
	"github.com/arc-language/droidkit/pkg/core"
)

const (
	// CompilerTool is the cross-compiler executable prefix
	CompilerTool = "swiftc"

	// LibraryCopierTool copies the runtime libraries a binary depends on
	LibraryCopierTool = "copy-libs"
)

// Tools holds the executables resolved for one architecture
type Tools struct {
	Root          string
	Compiler      string
	LibraryCopier string
}

// Resolver maps architectures to toolchain executables under Root
type Resolver struct {
	Root string
}

// NewResolver creates a resolver for the configured toolchain directory
func NewResolver(cfg *core.Config) *Resolver {
	return &Resolver{Root: cfg.ToolchainDir}
}

// Resolve returns <root>/bin/<tool>-<triple> for both tools. It does no I/O;
// existence is checked by Tools.Check right before invocation.
func (r *Resolver) Resolve(a arch.Architecture) (Tools, error) {
	if r.Root == "" {
		return Tools{}, core.ConfigError("resolve toolchain", fmt.Errorf("toolchain directory is not configured"))
	}
	if !a.IsValid() {
		return Tools{}, core.ConfigError("resolve toolchain", fmt.Errorf("unsupported architecture %q", a))
	}

	bin := filepath.Join(r.Root, "bin")
	return Tools{
		Root:          r.Root,
		Compiler:      filepath.Join(bin, CompilerTool+"-"+a.Triple()),
		LibraryCopier: filepath.Join(bin, LibraryCopierTool+"-"+a.Triple()),
	}, nil
}

// Check verifies that the toolchain root and the given executable exist
func (t Tools) Check(executable string) error {
	info, err := os.Stat(t.Root)
	if err != nil || !info.IsDir() {
		return core.ConfigError("check toolchain",
			fmt.Errorf("toolchain directory %q does not exist", t.Root))
	}
	if _, err := os.Stat(executable); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.ConfigError("check toolchain",
				fmt.Errorf("toolchain executable %q does not exist", executable))
		}
		return core.ConfigError("check toolchain", fmt.Errorf("checking %q: %w", executable, err))
	}
	return nil
}
