package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arc-language/droidkit"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		rootDir, settingsPath, debug, keepGoing = ".", "", false, false
		if f := rootCmd.Flags().Lookup("version"); f != nil {
			f.Value.Set("false")
		}
	})
	err := Execute(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestExecuteUsage(t *testing.T) {
	out, _, err := execute(t, "--root", t.TempDir())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out, "$ droidkit deploy:aarch64") {
		t.Errorf("usage not printed:\n%s", out)
	}
}

func TestExecuteMissingSettings(t *testing.T) {
	_, _, err := execute(t, "--root", t.TempDir(), "build")
	if !errors.Is(err, droidkit.ErrConfiguration) {
		t.Fatalf("got %v, want configuration error", err)
	}
}

func TestExecuteVersion(t *testing.T) {
	out, _, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out, "droidkit version "+Version) {
		t.Errorf("version output = %q", out)
	}
}
