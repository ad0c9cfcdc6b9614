// usage.go
package droidkit

import (
	"fmt"
	"io"
	"strings"

	"github.com/arc-language/droidkit/pkg/arch"
)

// PrintUsage writes the step-by-step workflow guide
func PrintUsage(w io.Writer, program string) {
	var b strings.Builder

	fmt.Fprintf(&b, "\n1. Build project:\n")
	fmt.Fprintf(&b, "   $ %s build\n\n", program)

	fmt.Fprintf(&b, "2. Enable USB Debugging on Android device. Install Android platform tools. Connect Android device and verify adb setup.\n")
	fmt.Fprintf(&b, "   $ %s verify\n\n", program)
	fmt.Fprintf(&b, "   References:\n")
	fmt.Fprintf(&b, "   - How to Install Android Tools for macOS: https://stackoverflow.com/questions/17901692/set-up-adb-on-mac-os-x\n")
	fmt.Fprintf(&b, "   - How to Enable USB Debugging on Android device: https://developer.android.com/studio/debug/dev-options\n\n")

	fmt.Fprintf(&b, "3. Deploy and run project on Android Device or Emulator.\n")
	for _, a := range arch.All {
		fmt.Fprintf(&b, "   $ %s %s%s\n", program, deployPrefix, a)
	}

	fmt.Fprintf(&b, "\n4. (Optional) Clean deployed project from the device (the local build is kept):\n")
	for _, a := range arch.All {
		fmt.Fprintf(&b, "   $ %s %s%s\n", program, undeployPrefix, a)
	}

	fmt.Fprintf(&b, "\n5. (Optional) Clean project:\n")
	fmt.Fprintf(&b, "   $ %s clean\n\n", program)

	io.WriteString(w, b.String())
}
