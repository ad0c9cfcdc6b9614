// pkg/core/config.go
package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

const (
	// SettingsFileName is the settings document looked up in the project root
	SettingsFileName = "local.properties.yml"

	// SourcesDirName holds the component sources
	SourcesDirName = "Sources"

	// DefaultSourcePattern selects the files handed to the compiler
	DefaultSourcePattern = "*.swift"

	// DefaultRemoteRoot is where deployed components live on the device
	DefaultRemoteRoot = "/data/local/tmp"
)

// Settings mirrors the keys recognized in local.properties.yml
type Settings struct {
	ToolchainDirectory string `yaml:"toolchain.directory"`
	LegacyToolchainDir string `yaml:"swiftToolchain.dir"`
	ComponentName      string `yaml:"component.name"`
	SourcePattern      string `yaml:"sources.pattern"`
	BuildFlags         string `yaml:"build.flags"`
	KeepGoing          bool   `yaml:"build.keepGoing"`
	RemoteDirectory    string `yaml:"deploy.directory"`
	RunArgs            string `yaml:"deploy.args"`
	CleanupOnInterrupt *bool  `yaml:"deploy.cleanupOnInterrupt"`
	ADBPath            string `yaml:"adb.path"`
}

// Config is the immutable context shared by every Builder of one invocation
type Config struct {
	Root               string   // Project root
	SettingsPath       string   // Settings file the config was loaded from
	ToolchainDir       string   // Cross-toolchain installation root
	Component          string   // Name of the built binary
	SourcePattern      string   // Glob matched against file names under Sources
	BuildFlags         []string // Extra compiler arguments
	KeepGoing          bool     // Continue with remaining architectures after a failure
	RemoteDir          string   // Working directory on the device
	RunArgs            []string // Arguments passed to the remote binary
	CleanupOnInterrupt bool     // Undeploy when a running deploy is interrupted
	ADBPath            string   // Explicit adb executable (optional)
	Debug              bool
	Logger             *log.Logger
	Stdout             io.Writer // Progress and remote process output
	Stderr             io.Writer
}

// SettingsPath returns the default settings location for root
func SettingsPath(root string) string {
	return filepath.Join(root, SettingsFileName)
}

// ReadSettings parses the settings document at path
func ReadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ConfigError("load settings", fmt.Errorf("file %q does not exist: %w", path, fs.ErrNotExist))
		}
		return nil, ConfigError("load settings", fmt.Errorf("reading %q: %w", path, err))
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, ConfigError("load settings", fmt.Errorf("parsing %q: %w", path, err))
	}

	return &s, nil
}

// LoadConfig reads the settings file once and derives the shared Config.
// An empty settingsPath means <root>/local.properties.yml.
func LoadConfig(root, settingsPath string, debug bool) (*Config, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, ConfigError("load settings", fmt.Errorf("resolving project root: %w", err))
	}
	if settingsPath == "" {
		settingsPath = SettingsPath(root)
	}

	s, err := ReadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	toolchainDir := s.ToolchainDirectory
	if toolchainDir == "" {
		toolchainDir = s.LegacyToolchainDir
	}
	if toolchainDir == "" {
		return nil, ConfigError("load settings",
			fmt.Errorf("setting \"toolchain.directory\" is missing in file %q", settingsPath))
	}

	cfg := &Config{
		Root:               root,
		SettingsPath:       settingsPath,
		ToolchainDir:       expandPath(root, toolchainDir),
		Component:          s.ComponentName,
		SourcePattern:      s.SourcePattern,
		KeepGoing:          s.KeepGoing,
		RemoteDir:          s.RemoteDirectory,
		CleanupOnInterrupt: true,
		Debug:              debug,
	}
	if s.ADBPath != "" {
		cfg.ADBPath = expandPath(root, s.ADBPath)
	}
	if s.CleanupOnInterrupt != nil {
		cfg.CleanupOnInterrupt = *s.CleanupOnInterrupt
	}

	if cfg.BuildFlags, err = splitArgs("build.flags", s.BuildFlags); err != nil {
		return nil, err
	}
	if cfg.RunArgs, err = splitArgs("deploy.args", s.RunArgs); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

// DefaultConfig returns a configuration without a toolchain, usable for
// operations that only talk to the device
func DefaultConfig(root string, debug bool) *Config {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	cfg := &Config{
		Root:               root,
		SettingsPath:       SettingsPath(root),
		CleanupOnInterrupt: true,
		Debug:              debug,
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Component == "" {
		c.Component = filepath.Base(c.Root)
	}
	if c.SourcePattern == "" {
		c.SourcePattern = DefaultSourcePattern
	}
	if c.RemoteDir == "" {
		c.RemoteDir = DefaultRemoteRoot + "/" + c.Component
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if c.Logger == nil {
		if c.Debug {
			c.Logger = log.New(os.Stdout, "[droidkit] ", log.LstdFlags)
		} else {
			c.Logger = log.New(io.Discard, "", 0)
		}
	}
}

// SourcesDir returns the directory holding the component sources
func (c *Config) SourcesDir() string {
	return filepath.Join(c.Root, SourcesDirName)
}

// BuildDir returns the build directory owned by arch
func (c *Config) BuildDir(arch string) string {
	return filepath.Join(c.Root, "build-"+arch)
}

// LibDir returns the library staging directory of arch
func (c *Config) LibDir(arch string) string {
	return filepath.Join(c.BuildDir(arch), "lib")
}

// BinaryPath returns the component binary built for arch
func (c *Config) BinaryPath(arch string) string {
	return filepath.Join(c.BuildDir(arch), c.Component)
}

func splitArgs(key, value string) ([]string, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	args, err := shlex.Split(value)
	if err != nil {
		return nil, ConfigError("load settings", fmt.Errorf("parsing %q: %w", key, err))
	}
	return args, nil
}

func expandPath(root, path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return filepath.Clean(path)
}
