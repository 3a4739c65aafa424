// Package audio drives the external capture, transcription, and synthesis
// tools: a single-slot microphone recorder, a gRPC ASR client script, and the
// chunked TTS pipeline.
package audio

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxChunkSize bounds one TTS chunk. The riva client adds per-request
// overhead on top of the text, so this stays below the service's real limit.
const MaxChunkSize = 1500

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

// SplitChunks splits text into ordered TTS chunks of at most MaxChunkSize
// characters. Sentences are packed greedily so chunk boundaries fall on
// natural breaks; a sentence longer than the limit is hard-split. Text with
// no sentence terminators is treated as a single sentence.
func SplitChunks(text string) []string {
	sentences := sentencePattern.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{text}
	}

	var chunks []string
	current := ""
	flush := func() {
		if trimmed := strings.TrimSpace(current); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		current = ""
	}

	for _, sentence := range sentences {
		if len(sentence) > MaxChunkSize {
			flush()
			chunks = append(chunks, hardSplit(sentence)...)
			continue
		}
		if len(current)+len(sentence) > MaxChunkSize {
			flush()
		}
		current += sentence
	}
	flush()
	return chunks
}

// hardSplit cuts an oversized sentence at the chunk limit. Playback order is
// preserved; the cut points are arbitrary but back off to a rune boundary so
// a multi-byte character is never torn across chunks.
func hardSplit(sentence string) []string {
	var parts []string
	for len(sentence) > MaxChunkSize {
		cut := MaxChunkSize
		for cut > 0 && !utf8.RuneStart(sentence[cut]) {
			cut--
		}
		parts = append(parts, strings.TrimSpace(sentence[:cut]))
		sentence = sentence[cut:]
	}
	if trimmed := strings.TrimSpace(sentence); trimmed != "" {
		parts = append(parts, trimmed)
	}
	return parts
}
