package audio

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitChunks_LongProse(t *testing.T) {
	sentence := "The quick brown fox jumps over the lazy dog near the river bank. "
	var b strings.Builder
	for b.Len() < 3000 {
		b.WriteString(sentence)
	}
	text := b.String()

	chunks := SplitChunks(text)

	if len(chunks) < 2 {
		t.Fatalf("chunks = %d, want >= 2 for %d chars", len(chunks), len(text))
	}
	for i, c := range chunks {
		if len(c) > MaxChunkSize {
			t.Errorf("chunk %d length = %d, exceeds %d", i, len(c), MaxChunkSize)
		}
	}

	// Ignoring boundary trimming, the concatenation preserves the sentence
	// sequence.
	joined := strings.Join(chunks, " ")
	wantSentences := strings.Count(text, "fox")
	if got := strings.Count(joined, "fox"); got != wantSentences {
		t.Errorf("sentence count after chunking = %d, want %d", got, wantSentences)
	}
	if !strings.HasPrefix(joined, "The quick brown fox") {
		t.Errorf("first chunk lost the opening sentence: %q", chunks[0][:40])
	}
}

func TestSplitChunks_ShortTextSingleChunk(t *testing.T) {
	chunks := SplitChunks("Hello there. How are you?")
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	if chunks[0] != "Hello there. How are you?" {
		t.Errorf("chunk = %q", chunks[0])
	}
}

func TestSplitChunks_NoSentenceTerminators(t *testing.T) {
	chunks := SplitChunks("just a fragment with no punctuation")
	if len(chunks) != 1 || chunks[0] != "just a fragment with no punctuation" {
		t.Fatalf("chunks = %v, want the whole text as one chunk", chunks)
	}
}

func TestSplitChunks_OversizedSentenceHardSplit(t *testing.T) {
	text := strings.Repeat("a", 2*MaxChunkSize+100) + "."

	chunks := SplitChunks(text)

	if len(chunks) < 3 {
		t.Fatalf("chunks = %d, want >= 3", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > MaxChunkSize {
			t.Errorf("chunk %d length = %d, exceeds %d", i, len(c), MaxChunkSize)
		}
	}
}

func TestSplitChunks_HardSplitKeepsRunesIntact(t *testing.T) {
	// The leading ASCII byte misaligns the 3-byte runes that follow, so a
	// byte-offset cut at MaxChunkSize would land inside a rune.
	text := "a" + strings.Repeat("€", MaxChunkSize) + "."

	chunks := SplitChunks(text)

	if len(chunks) < 2 {
		t.Fatalf("chunks = %d, want >= 2", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > MaxChunkSize {
			t.Errorf("chunk %d length = %d, exceeds %d", i, len(c), MaxChunkSize)
		}
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d contains invalid UTF-8", i)
		}
	}
}

func TestSplitChunks_EmptyText(t *testing.T) {
	if chunks := SplitChunks(""); len(chunks) != 0 {
		t.Fatalf("chunks = %v, want none for empty text", chunks)
	}
}
