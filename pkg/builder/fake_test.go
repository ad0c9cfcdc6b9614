package builder

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/arc-language/droidkit/pkg/core"
)

// fakeDevice is an in-memory stand-in for the device filesystem
type fakeDevice struct {
	files      map[string]bool
	runs       int
	exitStatus int
	onRun      func()
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{files: make(map[string]bool)}
}

func (d *fakeDevice) snapshot() []string {
	var files []string
	for f := range d.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

type fakeBridge struct {
	device    *fakeDevice
	remoteDir string
	artifact  *core.Artifact
}

func (b *fakeBridge) Verify(ctx context.Context) error {
	return nil
}

func (b *fakeBridge) Push(ctx context.Context, libraries []string, binary string) error {
	if _, err := os.Stat(binary); err != nil {
		return &core.Error{Kind: core.ErrTransfer, Op: "push", Err: fmt.Errorf("binary %s not found", binary)}
	}
	for _, f := range append(append([]string(nil), libraries...), binary) {
		b.device.files[path.Join(b.remoteDir, filepath.Base(f))] = true
	}
	return nil
}

func (b *fakeBridge) Run(ctx context.Context) (int, error) {
	b.device.runs++
	if b.device.onRun != nil {
		b.device.onRun()
		return 0, ctx.Err()
	}
	return b.device.exitStatus, nil
}

func (b *fakeBridge) Clean(ctx context.Context) error {
	for f := range b.device.files {
		if path.Dir(f) == b.remoteDir {
			delete(b.device.files, f)
		}
	}
	return nil
}
