// pkg/adb/parser.go
package adb

import (
	"bufio"
	"strings"

	"github.com/arc-language/droidkit/pkg/arch"
)

// Device is one entry of `adb devices -l`
type Device struct {
	Serial string
	State  string
	Model  string
}

// ParseDevices parses the output of `adb devices -l`
func ParseDevices(output string) []Device {
	var devices []Device
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Skip the header, blanks and daemon startup chatter.
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		d := Device{Serial: fields[0], State: fields[1]}
		for _, field := range fields[2:] {
			if model, ok := strings.CutPrefix(field, "model:"); ok {
				d.Model = model
			}
		}
		devices = append(devices, d)
	}
	return devices
}

// ParseABIList maps a comma separated ABI list to the supported
// architectures the device can run, in the device's preference order
func ParseABIList(output string) []arch.Architecture {
	var archs []arch.Architecture
	for _, abi := range strings.Split(strings.TrimSpace(output), ",") {
		if a, ok := arch.FromABI(strings.TrimSpace(abi)); ok {
			archs = append(archs, a)
		}
	}
	return archs
}

// shellQuote quotes s for the device shell unless it is plainly safe
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || strings.ContainsRune("-_./=:,+@%", r)) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
