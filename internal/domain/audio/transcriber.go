package audio

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mercurylabs/mercury/internal/infra/toolexec"
)

// The riva client prefixes each utterance with "## " markers.
var transcriptMarker = regexp.MustCompile(`##\s*`)

// TranscriberConfig carries the ASR tool invocation details.
type TranscriberConfig struct {
	Command      string // interpreter, e.g. "python"
	Script       string // riva transcribe_file.py path
	Server       string // gRPC endpoint
	FunctionID   string // NVCF function id metadata
	LanguageCode string
	APIKey       string // NVIDIA_API_KEY, sent as bearer metadata
}

// Transcriber converts a wav file to text through the riva ASR client script.
type Transcriber struct {
	cfg  TranscriberConfig
	exec toolexec.Runner
}

func NewTranscriber(cfg TranscriberConfig, exec toolexec.Runner) *Transcriber {
	return &Transcriber{cfg: cfg, exec: exec}
}

// TranscribeFile runs the ASR script on path and returns the cleaned
// transcript. A non-zero exit becomes a *TranscriptionError carrying the
// tool's stderr.
func (t *Transcriber) TranscribeFile(ctx context.Context, path string) (string, error) {
	args := []string{
		t.cfg.Script,
		"--server", t.cfg.Server,
		"--use-ssl",
		"--metadata", "function-id", t.cfg.FunctionID,
		"--metadata", "authorization", "Bearer " + t.cfg.APIKey,
		"--language-code", t.cfg.LanguageCode,
		"--input-file", path,
	}

	out, err := t.exec.Run(ctx, t.cfg.Command, args...)
	if err != nil {
		return "", fmt.Errorf("run asr tool: %w", err)
	}
	if !out.OK() {
		return "", &TranscriptionError{Stderr: strings.TrimSpace(string(out.Stderr))}
	}

	transcript := transcriptMarker.ReplaceAllString(string(out.Stdout), "")
	return strings.TrimSpace(transcript), nil
}
