package core

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeSettings(t *testing.T, root, content string) string {
	t.Helper()
	path := filepath.Join(root, SettingsFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	root := filepath.Join(t.TempDir(), "hello")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	writeSettings(t, root, `
toolchain.directory: /opt/swift-android
build.flags: -O -Xlinker "-rpath /system/lib"
deploy.args: --verbose 'two words'
`)

	cfg, err := LoadConfig(root, "", false)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.ToolchainDir != "/opt/swift-android" {
		t.Errorf("ToolchainDir = %q", cfg.ToolchainDir)
	}
	if cfg.Component != "hello" {
		t.Errorf("Component = %q, want base name of root", cfg.Component)
	}
	if cfg.SourcePattern != DefaultSourcePattern {
		t.Errorf("SourcePattern = %q", cfg.SourcePattern)
	}
	if cfg.RemoteDir != "/data/local/tmp/hello" {
		t.Errorf("RemoteDir = %q", cfg.RemoteDir)
	}
	if !cfg.CleanupOnInterrupt {
		t.Errorf("CleanupOnInterrupt should default to true")
	}
	if diff := cmp.Diff([]string{"-O", "-Xlinker", "-rpath /system/lib"}, cfg.BuildFlags); diff != "" {
		t.Errorf("BuildFlags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"--verbose", "two words"}, cfg.RunArgs); diff != "" {
		t.Errorf("RunArgs mismatch (-want +got):\n%s", diff)
	}
	if got, want := cfg.BuildDir("x86"), filepath.Join(root, "build-x86"); got != want {
		t.Errorf("BuildDir = %q, want %q", got, want)
	}
	if got, want := cfg.LibDir("x86"), filepath.Join(root, "build-x86", "lib"); got != want {
		t.Errorf("LibDir = %q, want %q", got, want)
	}
	if got, want := cfg.BinaryPath("x86"), filepath.Join(root, "build-x86", "hello"); got != want {
		t.Errorf("BinaryPath = %q, want %q", got, want)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, `
swiftToolchain.dir: toolchain
component.name: demo
sources.pattern: "*.c"
build.keepGoing: true
deploy.directory: /data/local/tmp/custom
deploy.cleanupOnInterrupt: false
adb.path: tools/adb
`)

	cfg, err := LoadConfig(root, "", true)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	root, _ = filepath.Abs(root)
	want := &Config{
		Root:          root,
		SettingsPath:  filepath.Join(root, SettingsFileName),
		ToolchainDir:  filepath.Join(root, "toolchain"),
		Component:     "demo",
		SourcePattern: "*.c",
		KeepGoing:     true,
		RemoteDir:     "/data/local/tmp/custom",
		ADBPath:       filepath.Join(root, "tools", "adb"),
		Debug:         true,
	}
	got := *cfg
	got.Logger, got.Stdout, got.Stderr = nil, nil, nil
	if diff := cmp.Diff(want, &got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	root := t.TempDir()

	_, err := LoadConfig(root, "", false)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("got %v, want configuration error", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("got %v, want it to wrap fs.ErrNotExist", err)
	}
	if !strings.Contains(err.Error(), SettingsFileName) {
		t.Errorf("error %q does not reference the settings path", err)
	}
}

func TestLoadConfigMissingToolchain(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, "component.name: demo\n")

	_, err := LoadConfig(root, "", false)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("got %v, want configuration error", err)
	}
	if !strings.Contains(err.Error(), "toolchain.directory") {
		t.Errorf("error %q does not name the missing setting", err)
	}
}

func TestLoadConfigBadFlags(t *testing.T) {
	root := t.TempDir()
	writeSettings(t, root, "toolchain.directory: /opt/tc\nbuild.flags: \"-O 'unterminated\"\n")

	_, err := LoadConfig(root, "", false)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("got %v, want configuration error", err)
	}
}

func TestErrorUnwrap(t *testing.T) {
	tool := &ToolError{Command: []string{"swiftc", "-o", "out"}, ExitStatus: 2}
	err := &Error{Kind: ErrBuild, Op: "build", Arch: "x86", Err: tool}

	if !errors.Is(err, ErrBuild) {
		t.Errorf("errors.Is(ErrBuild) = false")
	}
	var te *ToolError
	if !errors.As(err, &te) || te.ExitStatus != 2 {
		t.Errorf("errors.As(*ToolError) did not find the tool error")
	}
	want := `build x86: build error: command "swiftc -o out" exited with status 2`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestHintOf(t *testing.T) {
	inner := &Error{Kind: ErrConnectivity, Op: "verify", Hint: "enable USB debugging"}
	outer := &Error{Kind: ErrConnectivity, Op: "deploy", Arch: "x86", Err: inner}

	if got := HintOf(outer); got != "enable USB debugging" {
		t.Errorf("HintOf = %q", got)
	}
	if got := HintOf(errors.New("plain")); got != "" {
		t.Errorf("HintOf(plain) = %q", got)
	}
}
