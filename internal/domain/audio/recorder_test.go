package audio

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func newTestRecorder(t *testing.T, transcribe TranscribeFunc) (*Recorder, *[]*exec.Cmd) {
	t.Helper()
	captureFile := filepath.Join(t.TempDir(), "capture.wav")
	r := NewRecorder(RecorderConfig{
		Command:      "sleep",
		File:         captureFile,
		SampleRateHz: 16000,
		SettleDelay:  0,
	}, transcribe)

	var spawned []*exec.Cmd
	r.newCmd = func() *exec.Cmd {
		cmd := exec.Command("sleep", "60")
		spawned = append(spawned, cmd)
		return cmd
	}
	return r, &spawned
}

func TestRecorder_StartTwiceKeepsOneProcess(t *testing.T) {
	r, spawned := newTestRecorder(t, nil)

	if err := r.Start(); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := r.Start(); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	if len(*spawned) != 2 {
		t.Fatalf("spawned %d processes, want 2", len(*spawned))
	}
	first, second := (*spawned)[0], (*spawned)[1]

	// The first capture was killed and reaped before the second began.
	if first.ProcessState == nil {
		t.Error("first capture process is still running")
	}
	if second.ProcessState != nil {
		t.Error("second capture process already exited")
	}

	// Cleanup: stop without a capture file just kills the process.
	if _, err := r.Stop(context.Background()); !errors.Is(err, ErrRecordingNotFound) {
		t.Fatalf("Stop: got %v, want ErrRecordingNotFound", err)
	}
	if second.ProcessState == nil {
		t.Error("Stop did not reap the capture process")
	}
}

func TestRecorder_StopTranscribesAndDeletesFile(t *testing.T) {
	var gotPath string
	transcribe := func(_ context.Context, path string) (string, error) {
		gotPath = path
		return "## hello from the microphone", nil
	}
	r, _ := newTestRecorder(t, transcribe)

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := os.WriteFile(r.cfg.File, []byte("RIFFdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	text, err := r.Stop(context.Background())
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if text != "## hello from the microphone" {
		t.Errorf("text = %q", text)
	}
	if gotPath != r.cfg.File {
		t.Errorf("transcribed %q, want %q", gotPath, r.cfg.File)
	}
	if _, err := os.Stat(r.cfg.File); !os.IsNotExist(err) {
		t.Error("capture file was not deleted after transcription")
	}
}

func TestRecorder_StopWithoutRecording(t *testing.T) {
	r, _ := newTestRecorder(t, nil)

	if _, err := r.Stop(context.Background()); !errors.Is(err, ErrRecordingNotFound) {
		t.Fatalf("got %v, want ErrRecordingNotFound", err)
	}
}

func TestRecorder_TranscriptionFailureStillDeletesFile(t *testing.T) {
	wantErr := &TranscriptionError{Stderr: "grpc unavailable"}
	transcribe := func(context.Context, string) (string, error) {
		return "", wantErr
	}
	r, _ := newTestRecorder(t, transcribe)

	if err := r.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := os.WriteFile(r.cfg.File, []byte("RIFFdata"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := r.Stop(context.Background())
	var trErr *TranscriptionError
	if !errors.As(err, &trErr) {
		t.Fatalf("got %v, want TranscriptionError", err)
	}
	if _, statErr := os.Stat(r.cfg.File); !os.IsNotExist(statErr) {
		t.Error("capture file survived a failed transcription")
	}
}

func TestRecorder_StopHonorsContextDuringSettle(t *testing.T) {
	r, _ := newTestRecorder(t, nil)
	r.cfg.SettleDelay = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := r.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want DeadlineExceeded", err)
	}
}
