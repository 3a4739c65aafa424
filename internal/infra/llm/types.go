// Package llm resolves model identifiers to backend configurations and talks
// to OpenAI-compatible chat-completion APIs. The registry is the single place
// that knows which credential, base URL, and sampling constants each backend
// family uses.
package llm

// Family is a class of LLM backend sharing credential type, base URL, and
// request shape.
type Family string

const (
	FamilyLlama405B Family = "llama-405b"
	FamilyNemotron  Family = "nemotron"
	FamilyNIM       Family = "nim-llm"
	FamilyOpenAI    Family = "openai"
	FamilyClaude    Family = "claude"
	FamilyCustom    Family = "custom"
	FamilyAgent     Family = "mercury-agent"
	// FamilyDefault covers model ids that match no known family: they are
	// passed through verbatim to the OpenAI-compatible endpoint.
	FamilyDefault Family = "openai-compatible"
)

// BackendConfig is the request-scoped configuration for one chat call.
// Resolve returns a fresh value per request; it is never stored in shared
// state, so concurrent requests with different models cannot interfere.
type BackendConfig struct {
	Family  Family
	APIKey  string
	BaseURL string // empty means the default OpenAI endpoint
	Model   string

	// SystemPrimed prepends the family's fixed priming message (nemotron).
	SystemPrimed bool
	// MarkdownHint attaches the shared markdown-formatting instruction.
	MarkdownHint bool

	Temperature float64
	TopP        float64 // 0 omits the field from the request
	MaxTokens   int
}

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant"
	Content string `json:"content"`
}
