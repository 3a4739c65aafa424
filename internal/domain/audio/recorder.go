package audio

import (
	"context"
	"log"
	"os"
	"os/exec"
	"strconv"
	"time"
)

// TranscribeFunc turns a finished capture file into text. Satisfied by
// (*Transcriber).TranscribeFile.
type TranscribeFunc func(ctx context.Context, path string) (string, error)

// RecorderConfig carries the capture tool invocation details.
type RecorderConfig struct {
	Command      string // e.g. "sox"
	File         string // capture target, e.g. /tmp/mercury_recording.wav
	SampleRateHz int
	SettleDelay  time.Duration // wait for the file flush after killing capture
}

// Recorder owns the single microphone capture slot. At most one capture
// process exists at a time; starting while one is running kills the old
// process and begins a fresh capture.
type Recorder struct {
	cfg        RecorderConfig
	transcribe TranscribeFunc

	startc chan startReq
	stopc  chan stopReq

	// newCmd builds the capture process. Overridden in tests.
	newCmd func() *exec.Cmd
}

type startReq struct {
	reply chan error
}

type stopReq struct {
	ctx   context.Context
	reply chan stopResult
}

type stopResult struct {
	text string
	err  error
}

// NewRecorder wires a Recorder and starts its supervising goroutine. The
// goroutine serializes start/stop so overlapping HTTP requests cannot race on
// the capture process.
func NewRecorder(cfg RecorderConfig, transcribe TranscribeFunc) *Recorder {
	r := &Recorder{
		cfg:        cfg,
		transcribe: transcribe,
		startc:     make(chan startReq),
		stopc:      make(chan stopReq),
	}
	r.newCmd = func() *exec.Cmd {
		// No CommandContext here: the capture outlives any request context
		// and is killed explicitly by the supervising goroutine.
		return exec.Command(cfg.Command,
			"-d",
			"-c", "1",
			"-r", strconv.Itoa(cfg.SampleRateHz),
			"-b", "16",
			cfg.File,
		)
	}
	go r.loop()
	return r
}

// Start begins a capture. If one is already running it is killed first and a
// new capture begins, so the slot always reflects the most recent request.
func (r *Recorder) Start() error {
	req := startReq{reply: make(chan error, 1)}
	r.startc <- req
	return <-req.reply
}

// Stop ends the capture, waits for the file to flush, transcribes it, and
// deletes the capture file. With no capture file present it returns
// ErrRecordingNotFound. The capture file is removed whether or not
// transcription succeeds.
func (r *Recorder) Stop(ctx context.Context) (string, error) {
	req := stopReq{ctx: ctx, reply: make(chan stopResult, 1)}
	r.stopc <- req
	res := <-req.reply
	return res.text, res.err
}

func (r *Recorder) loop() {
	var current *exec.Cmd
	for {
		select {
		case req := <-r.startc:
			if current != nil {
				log.Printf("audio: capture already running (pid %d), restarting", current.Process.Pid)
				r.kill(current)
			}
			cmd := r.newCmd()
			if err := cmd.Start(); err != nil {
				current = nil
				req.reply <- err
				continue
			}
			current = cmd
			req.reply <- nil

		case req := <-r.stopc:
			if current != nil {
				r.kill(current)
				current = nil
			}
			req.reply <- r.finish(req.ctx)
		}
	}
}

func (r *Recorder) kill(cmd *exec.Cmd) {
	if err := cmd.Process.Kill(); err != nil {
		log.Printf("audio: kill capture pid %d: %v", cmd.Process.Pid, err)
	}
	_ = cmd.Wait()
}

// finish waits out the settle delay, transcribes the capture file, and always
// removes it afterwards.
func (r *Recorder) finish(ctx context.Context) stopResult {
	select {
	case <-time.After(r.cfg.SettleDelay):
	case <-ctx.Done():
		return stopResult{err: ctx.Err()}
	}

	if _, err := os.Stat(r.cfg.File); err != nil {
		return stopResult{err: ErrRecordingNotFound}
	}
	defer func() {
		if err := os.Remove(r.cfg.File); err != nil {
			log.Printf("audio: remove capture file %s: %v", r.cfg.File, err)
		}
	}()

	text, err := r.transcribe(ctx, r.cfg.File)
	if err != nil {
		return stopResult{err: err}
	}
	return stopResult{text: text}
}
