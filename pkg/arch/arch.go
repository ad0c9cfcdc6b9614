// pkg/arch/arch.go
package arch

import (
	"fmt"

	"github.com/arc-language/droidkit/pkg/core"
)

// Architecture represents an Android target CPU architecture
type Architecture string

const (
	ArchARMv7a  Architecture = "armv7a"  // ARM 32-bit
	ArchAArch64 Architecture = "aarch64" // ARM 64-bit
	ArchX86     Architecture = "x86"     // x86 32-bit
	ArchX86_64  Architecture = "x86_64"  // x86 64-bit
)

// All contains every supported architecture in build order
var All = []Architecture{
	ArchARMv7a,
	ArchAArch64,
	ArchX86,
	ArchX86_64,
}

type target struct {
	triple string // NDK toolchain triple
	abi    string // Android ABI name reported by the device
}

var targets = map[Architecture]target{
	ArchARMv7a:  {"arm-linux-androideabi", "armeabi-v7a"},
	ArchAArch64: {"aarch64-linux-android", "arm64-v8a"},
	ArchX86:     {"i686-linux-android", "x86"},
	ArchX86_64:  {"x86_64-linux-android", "x86_64"},
}

// Parse converts an architecture tag into an Architecture
func Parse(tag string) (Architecture, error) {
	a := Architecture(tag)
	if !a.IsValid() {
		return "", core.ConfigError("parse architecture",
			fmt.Errorf("unsupported architecture %q (supported: %v)", tag, All))
	}
	return a, nil
}

// FromABI maps an Android ABI name back to its architecture
func FromABI(abi string) (Architecture, bool) {
	for _, a := range All {
		if targets[a].abi == abi {
			return a, true
		}
	}
	return "", false
}

// String returns the string representation of the architecture
func (a Architecture) String() string {
	return string(a)
}

// IsValid checks if the architecture is one of the supported set
func (a Architecture) IsValid() bool {
	_, ok := targets[a]
	return ok
}

// Triple returns the cross-compiler triple, or "" for an invalid architecture
func (a Architecture) Triple() string {
	return targets[a].triple
}

// ABI returns the Android ABI name, or "" for an invalid architecture
func (a Architecture) ABI() string {
	return targets[a].abi
}
