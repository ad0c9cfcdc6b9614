// pkg/adb/platform.go
package adb

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/arc-language/droidkit/pkg/core"
)

// Locate resolves the adb executable: the configured path first, then the
// SDK pointed at by ANDROID_HOME/ANDROID_SDK_ROOT, then PATH
func Locate(cfg *core.Config) string {
	if cfg.ADBPath != "" {
		return cfg.ADBPath
	}

	for _, env := range sdkEnvVars {
		sdk := os.Getenv(env)
		if sdk == "" {
			continue
		}
		candidate := filepath.Join(sdk, "platform-tools", DefaultExecutable)
		if fileExists(candidate) {
			return candidate
		}
	}

	if path, err := exec.LookPath(DefaultExecutable); err == nil {
		return path
	}
	return DefaultExecutable
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
