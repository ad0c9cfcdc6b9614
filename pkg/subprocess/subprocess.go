// pkg/subprocess/subprocess.go
package subprocess

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sync"
	"syscall"

	"github.com/arc-language/droidkit/pkg/core"
)

// Command describes one external tool invocation
type Command struct {
	Args   []string  // Executable followed by its arguments
	Dir    string    // Working directory (current if empty)
	Env    []string  // Environment in KEY=VALUE form (inherited if empty)
	Stdout io.Writer // Optional live copy of stdout
	Stderr io.Writer // Optional live copy of stderr
}

// Result is the structured outcome of a command that ran to completion
type Result struct {
	ExitStatus int
	Output     []byte // Combined stdout and stderr
}

// Runner runs external commands
type Runner interface {
	Run(ctx context.Context, cmd *Command) (*Result, error)
}

// Exec runs commands as local subprocesses
type Exec struct {
	Logger *log.Logger
}

// NewExec creates an Exec runner logging through logger
func NewExec(logger *log.Logger) *Exec {
	return &Exec{Logger: logger}
}

// Run runs a command until completion or until ctx is canceled, in which
// case the whole process group is killed and ctx.Err() is returned. A
// non-zero exit yields both a Result and a *core.ToolError.
func (r *Exec) Run(ctx context.Context, c *Command) (*Result, error) {
	if len(c.Args) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	output := &lockedBuffer{}
	cmd := exec.Command(c.Args[0], c.Args[1:]...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdout = tee(output, c.Stdout)
	cmd.Stderr = tee(output, c.Stderr)
	// Own process group so cancellation also reaches grandchildren.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	r.logf("starting: %v", cmd.Args)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", c.Args[0], err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		res := &Result{Output: output.Bytes()}
		if err == nil {
			r.logf("finished: %s", c.Args[0])
			return res, nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitStatus = exitErr.ExitCode()
			r.logf("failed: %s exited with status %d", c.Args[0], res.ExitStatus)
			return res, &core.ToolError{
				Command:    append([]string(nil), c.Args...),
				ExitStatus: res.ExitStatus,
				Output:     output.String(),
			}
		}
		return nil, fmt.Errorf("waiting for %s: %w", c.Args[0], err)
	case <-ctx.Done():
		// Negative pid addresses the process group.
		syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		<-done
		r.logf("canceled: %s", c.Args[0])
		return nil, ctx.Err()
	}
}

func (r *Exec) logf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

// lockedBuffer collects stdout and stderr, which exec copies concurrently.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Bytes()
}

func (b *lockedBuffer) String() string {
	return string(b.Bytes())
}

func tee(buf *lockedBuffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
