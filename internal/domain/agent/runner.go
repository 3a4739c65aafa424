package agent

import (
	"context"
	"fmt"

	"github.com/mercurylabs/mercury/internal/infra/toolexec"
)

// AgentError carries a non-zero agent exit together with whatever the process
// wrote to stderr.
type AgentError struct {
	Stderr string
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent process failed: %s", e.Stderr)
}

// Runner drives the external agent CLI. The agent is a long-running workflow
// binary configured by a YAML file and fed a single --input argument; it
// prints its trace and exits.
type Runner struct {
	command    string
	configFile string
	exec       toolexec.Runner
}

// NewRunner builds a Runner for the given agent binary and workflow config.
func NewRunner(command, configFile string, exec toolexec.Runner) *Runner {
	return &Runner{command: command, configFile: configFile, exec: exec}
}

// Ask runs the agent with message as input, blocks until it exits, and
// extracts the final answer from its trace. stdout and stderr are accumulated
// separately while the process runs — the agent has been observed to print
// its result on either stream — then concatenated stdout-first for parsing.
func (r *Runner) Ask(ctx context.Context, message string) (string, error) {
	out, err := r.exec.Run(ctx, r.command, "run", "--config_file="+r.configFile, "--input", message)
	if err != nil {
		return "", fmt.Errorf("start agent: %w", err)
	}
	if !out.OK() {
		return "", &AgentError{Stderr: string(out.Stderr)}
	}
	return Extract(string(out.Stdout) + string(out.Stderr))
}
