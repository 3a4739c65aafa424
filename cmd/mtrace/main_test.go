package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_FromStdin(t *testing.T) {
	in := strings.NewReader(`2024-05-01 INFO starting workflow
Workflow Result: ['hello from the agent']`)
	var out, errOut bytes.Buffer

	if code := run(nil, in, &out, &errOut); code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut.String())
	}
	if got := strings.TrimSpace(out.String()); got != "hello from the agent" {
		t.Errorf("output = %q", got)
	}
}

func TestRun_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	trace := `Workflow Result: ['<Document source="kb">\nhello world\n</Document>']`
	if err := os.WriteFile(path, []byte(trace), 0o644); err != nil {
		t.Fatal(err)
	}
	var out, errOut bytes.Buffer

	if code := run([]string{"--file", path}, strings.NewReader(""), &out, &errOut); code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, errOut.String())
	}
	if got := strings.TrimSpace(out.String()); got != "hello world" {
		t.Errorf("output = %q", got)
	}
}

func TestRun_UnrecognizedTrace(t *testing.T) {
	var out, errOut bytes.Buffer

	if code := run(nil, strings.NewReader("nothing useful here"), &out, &errOut); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "no workflow result") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestRun_MissingFile(t *testing.T) {
	var out, errOut bytes.Buffer

	if code := run([]string{"--file", "/does/not/exist.log"}, strings.NewReader(""), &out, &errOut); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}
