package audio

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mercurylabs/mercury/internal/infra/toolexec"
)

// SynthesizerConfig carries the TTS tool invocation details.
type SynthesizerConfig struct {
	Command      string // interpreter, e.g. "python3"
	Script       string // riva talk.py path
	Server       string // gRPC endpoint
	LanguageCode string
	DefaultVoice string
	SampleRateHz int

	ConcatCommand string // wav concatenation tool, e.g. "sox"
	TempDir       string // defaults to os.TempDir()
}

// Synthesizer renders text to a single wav through the riva TTS client,
// chunking long text and concatenating the per-chunk files. All temp files
// are removed before Synthesize returns, on every path.
type Synthesizer struct {
	cfg  SynthesizerConfig
	exec toolexec.Runner
}

func NewSynthesizer(cfg SynthesizerConfig, exec toolexec.Runner) *Synthesizer {
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	return &Synthesizer{cfg: cfg, exec: exec}
}

// Synthesize renders text with the given voice (the configured default when
// empty) and returns the combined wav bytes. Chunks are rendered sequentially
// in order; the first failure aborts the whole run.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &SynthesisError{Detail: "no text to synthesize"}
	}
	if voice == "" {
		voice = s.cfg.DefaultVoice
	}

	chunks := SplitChunks(text)
	stamp := uuid.NewString()

	var tempFiles []string
	defer func() {
		for _, f := range tempFiles {
			if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
				log.Printf("audio: remove temp file %s: %v", f, err)
			}
		}
	}()

	chunkFiles := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		out := filepath.Join(s.cfg.TempDir, fmt.Sprintf("tts_%s_%d.wav", stamp, i))
		tempFiles = append(tempFiles, out)
		if err := s.renderChunk(ctx, chunk, voice, out, i, len(chunks)); err != nil {
			return nil, err
		}
		chunkFiles = append(chunkFiles, out)
	}

	combined := chunkFiles[0]
	if len(chunkFiles) > 1 {
		combined = filepath.Join(s.cfg.TempDir, fmt.Sprintf("tts_%s_combined.wav", stamp))
		tempFiles = append(tempFiles, combined)
		if err := s.concat(ctx, chunkFiles, combined); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(combined)
	if err != nil {
		return nil, fmt.Errorf("read synthesized audio: %w", err)
	}
	return data, nil
}

func (s *Synthesizer) renderChunk(ctx context.Context, chunk, voice, out string, i, total int) error {
	args := []string{
		s.cfg.Script,
		"--server", s.cfg.Server,
		"--language-code", s.cfg.LanguageCode,
		"--voice", voice,
		"--text", chunk,
		"--output", out,
		"--encoding", "LINEAR_PCM",
		"--sample-rate-hz", strconv.Itoa(s.cfg.SampleRateHz),
	}

	res, err := s.exec.Run(ctx, s.cfg.Command, args...)
	if err != nil {
		return fmt.Errorf("run tts tool: %w", err)
	}
	if !res.OK() {
		return &SynthesisError{
			Detail: fmt.Sprintf("chunk %d/%d exited %d", i+1, total, res.ExitCode),
			Stderr: strings.TrimSpace(string(res.Stderr)),
		}
	}
	return checkWav(out, fmt.Sprintf("chunk %d/%d", i+1, total))
}

func (s *Synthesizer) concat(ctx context.Context, chunkFiles []string, combined string) error {
	args := append(append([]string{}, chunkFiles...), combined)
	res, err := s.exec.Run(ctx, s.cfg.ConcatCommand, args...)
	if err != nil {
		return fmt.Errorf("run concat tool: %w", err)
	}
	if !res.OK() {
		return &SynthesisError{
			Detail: "concatenation failed",
			Stderr: strings.TrimSpace(string(res.Stderr)),
		}
	}
	return checkWav(combined, "combined output")
}

// checkWav guards against a tool that exits zero without producing audio.
func checkWav(path, what string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &SynthesisError{Detail: what + " produced no output file"}
	}
	if info.Size() == 0 {
		return &SynthesisError{Detail: what + " produced an empty file"}
	}
	return nil
}
