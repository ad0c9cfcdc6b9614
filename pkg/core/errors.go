// pkg/core/errors.go
package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration indicates a missing settings file, a missing required
	// setting or an unrecognized architecture tag
	ErrConfiguration = errors.New("configuration error")

	// ErrBuild indicates the compiler or library copier failed
	ErrBuild = errors.New("build error")

	// ErrTransfer indicates files could not be pushed to or removed from the device
	ErrTransfer = errors.New("transfer error")

	// ErrConnectivity indicates the device bridge or the device is not usable
	ErrConnectivity = errors.New("connectivity error")

	// ErrRuntime indicates the remote process could not be launched or failed
	ErrRuntime = errors.New("runtime error")
)

// Error wraps an error with its kind and additional context
type Error struct {
	Kind error  // One of the ErrXxx kinds above
	Op   string // Operation that failed
	Arch string // Architecture if applicable
	Err  error  // Underlying error
	Hint string // Actionable guidance printed alongside the error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Arch != "" {
		b.WriteString(" ")
		b.WriteString(e.Arch)
	}
	fmt.Fprintf(&b, ": %v", e.Kind)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes both the kind and the underlying error to errors.Is/As
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ToolError is returned for every external command that exits non-zero
type ToolError struct {
	Command    []string
	ExitStatus int
	Output     string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", strings.Join(e.Command, " "), e.ExitStatus)
}

// ConfigError builds a configuration error for op
func ConfigError(op string, err error) *Error {
	return &Error{Kind: ErrConfiguration, Op: op, Err: err}
}

// HintOf returns the first actionable hint found in err's chain
func HintOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Hint != "" {
			return e.Hint
		}
		return HintOf(e.Err)
	}
	return ""
}
