// errors.go
package droidkit

import "github.com/arc-language/droidkit/pkg/core"

// Re-export the error taxonomy so callers can match on it
var (
	// ErrConfiguration indicates missing settings or an unknown architecture
	ErrConfiguration = core.ErrConfiguration

	// ErrBuild indicates the compiler or library copier failed
	ErrBuild = core.ErrBuild

	// ErrTransfer indicates a push to or removal from the device failed
	ErrTransfer = core.ErrTransfer

	// ErrConnectivity indicates adb or the device is not usable
	ErrConnectivity = core.ErrConnectivity

	// ErrRuntime indicates the remote process failed to launch or run
	ErrRuntime = core.ErrRuntime
)

type (
	// Error carries the kind, operation and architecture of a failure
	Error = core.Error

	// ToolError carries the command and exit status of a failed external tool
	ToolError = core.ToolError
)

// Hint returns the actionable guidance attached to err, if any
func Hint(err error) string {
	return core.HintOf(err)
}
