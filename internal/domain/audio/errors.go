package audio

import (
	"errors"
	"fmt"
)

// ErrRecordingNotFound means stop was called but no capture file exists —
// either start-recording never ran or the capture produced nothing.
var ErrRecordingNotFound = errors.New("no recording found")

// TranscriptionError wraps a non-zero exit from the ASR tool. Stderr carries
// the tool's own diagnostics for the error response.
type TranscriptionError struct {
	Stderr string
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed: %s", e.Stderr)
}

// SynthesisError reports a failed TTS run: a chunk that errored, a missing or
// empty output file, or a failed concatenation.
type SynthesisError struct {
	Detail string
	Stderr string
}

func (e *SynthesisError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("speech synthesis failed: %s: %s", e.Detail, e.Stderr)
	}
	return fmt.Sprintf("speech synthesis failed: %s", e.Detail)
}
