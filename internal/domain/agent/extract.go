// Package agent runs the external mercury-agent CLI and parses its printed
// trace into a plain-text answer.
//
// The agent is not a structured-output API: it prints a human-readable run
// trace that ends in a Python-literal-style marker,
//
//	Workflow Result: ['the answer text']
//
// The extractor below is a best-effort parser over that unversioned text
// contract — brittle by construction, so every step degrades to a typed
// failure instead of a wrong answer. Treat the two patterns as a versioned
// mini-grammar: if the agent's output format changes, this file is the only
// thing that needs revision.
package agent

import (
	"errors"
	"regexp"
	"strings"
)

// ErrUnrecognizedFormat means no result marker was found in the trace.
// This is a user-visible error path: never an empty success, never a panic.
var ErrUnrecognizedFormat = errors.New("could not locate a workflow result in the agent output")

var (
	// ANSI CSI color/cursor sequences: ESC [ params letter.
	ansiCSI = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)
	// OSC title-set prefix: ESC ] 0 ;
	ansiOSC = regexp.MustCompile(`\x1b\]0;`)

	// Pattern A: research-tool result wrapped in an XML-like Document tag,
	// e.g. Workflow Result: ['<Document id=1>\ntext\n</Document>'].
	// \\n in the pattern matches a literal backslash-n in the trace.
	documentResult = regexp.MustCompile(`(?s)Workflow Result:\s*\['<Document[^>]*>\\n(.*?)\\n</Document>'\]`)

	// Pattern B: plain quoted payload, single or double quotes.
	plainResult = regexp.MustCompile(`(?s)Workflow Result:\s*\[['"](.*?)['"]\]`)
)

// Extract parses a raw agent trace (stdout+stderr, in that order) and returns
// the answer text. The first marker occurrence wins, deterministically.
func Extract(trace string) (string, error) {
	clean := ansiCSI.ReplaceAllString(trace, "")
	clean = ansiOSC.ReplaceAllString(clean, "")
	clean = strings.ReplaceAll(clean, "\r", "")
	clean = strings.TrimSpace(clean)

	// Both patterns scan the whole trace; the match that starts earliest is
	// the first marker occurrence and wins. On a tie both matched the same
	// marker, and the document form takes precedence so the plain pattern
	// cannot swallow the wrapper tags into the payload.
	docLoc := documentResult.FindStringSubmatchIndex(clean)
	plainLoc := plainResult.FindStringSubmatchIndex(clean)

	var payload string
	switch {
	case docLoc != nil && (plainLoc == nil || docLoc[0] <= plainLoc[0]):
		payload = clean[docLoc[2]:docLoc[3]]
	case plainLoc != nil:
		payload = clean[plainLoc[2]:plainLoc[3]]
	default:
		return "", ErrUnrecognizedFormat
	}

	if text := unescape(payload); text != "" {
		return text, nil
	}
	return "", ErrUnrecognizedFormat
}

// unescape reverses the Python string-literal escaping the agent prints:
// literal \n becomes a newline, escaped quotes become quotes.
func unescape(payload string) string {
	payload = strings.ReplaceAll(payload, `\n`, "\n")
	payload = strings.ReplaceAll(payload, `\'`, "'")
	payload = strings.ReplaceAll(payload, `\"`, `"`)
	return strings.TrimSpace(payload)
}
