// Package toolexec runs external command-line tools and reports their outcome
// in one uniform shape. Every tool Mercury shells out to — capture,
// transcription, synthesis, concatenation, the agent CLI — goes through here,
// so call sites never have to pick apart *exec.ExitError themselves.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Outcome is the uniform result of a finished external process.
type Outcome struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// OK reports whether the process exited zero.
func (o Outcome) OK() bool { return o.ExitCode == 0 }

// Runner executes external tools. The interface exists so domain packages can
// substitute a stub in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Outcome, error)
}

// ExecRunner is the os/exec-backed Runner used in production.
type ExecRunner struct{}

// Run executes name with args and waits for it to exit. stdout and stderr are
// accumulated separately. A non-zero exit is not an error here — it is
// reported through Outcome.ExitCode so callers can attach stderr to their own
// typed failures. The returned error is reserved for spawn problems (binary
// missing, context cancelled before start).
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Outcome, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Outcome{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	return out, fmt.Errorf("run %s: %w", name, err)
}
