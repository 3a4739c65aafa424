package toolexec

import (
	"context"
	"strings"
	"testing"
)

func TestRun_CapturesStreamsAndExitCode(t *testing.T) {
	var r ExecRunner

	out, err := r.Run(context.Background(), "sh", "-c", "echo hello; echo oops >&2; exit 3")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", out.ExitCode)
	}
	if out.OK() {
		t.Error("OK() should be false for exit 3")
	}
	if got := strings.TrimSpace(string(out.Stdout)); got != "hello" {
		t.Errorf("stdout = %q, want hello", got)
	}
	if got := strings.TrimSpace(string(out.Stderr)); got != "oops" {
		t.Errorf("stderr = %q, want oops", got)
	}
}

func TestRun_ZeroExit(t *testing.T) {
	var r ExecRunner

	out, err := r.Run(context.Background(), "sh", "-c", "echo done")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !out.OK() {
		t.Errorf("exit code = %d, want 0", out.ExitCode)
	}
}

func TestRun_MissingBinary(t *testing.T) {
	var r ExecRunner

	if _, err := r.Run(context.Background(), "mercury-no-such-binary-xyz"); err == nil {
		t.Fatal("expected spawn error for missing binary")
	}
}
