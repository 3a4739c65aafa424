package llm

import "strings"

const (
	nvidiaBaseURL = "https://integrate.api.nvidia.com/v1"
	nimBaseURL    = "http://0.0.0.0:8000"

	model405B     = "nvdev/meta/llama-3.1-405b-instruct"
	modelNemotron = "nvdev/nvidia/llama-3.3-nemotron-super-49b-v1"
	modelNIM      = "meta/llama-3.1-8b-instruct"

	// Local NIM servers accept any key; the client still sends a header.
	nimAPIKey = "not-required"
)

// Default sampling constants. Nemotron gets its own; every other HTTP family
// shares the defaults.
const (
	defaultTemperature = 0.2
	defaultTopP        = 0.7
	defaultMaxTokens   = 8192

	nemotronTemperature = 0.6
	nemotronTopP        = 0.95
	nemotronMaxTokens   = 8092
)

// Registry maps a model identifier to a BackendConfig. Resolution is a pure
// function of the model string and the credential set the registry was built
// with — no hidden state, same inputs always route to the same family.
type Registry struct {
	nvidiaKey string
	openaiKey string
	hints     map[Family]bool // per-family markdown-instruction flags
}

// NewRegistry builds a Registry from the process credentials and the
// per-family markdown flags. A nil hints map disables the instruction
// everywhere.
func NewRegistry(nvidiaKey, openaiKey string, hints map[Family]bool) *Registry {
	h := make(map[Family]bool, len(hints))
	for k, v := range hints {
		h[k] = v
	}
	return &Registry{nvidiaKey: nvidiaKey, openaiKey: openaiKey, hints: h}
}

// Resolve selects the backend family for modelID. Predicates are substring and
// prefix matches tested in order — they are not mutually exclusive, so the
// order below is load-bearing.
func (r *Registry) Resolve(modelID string) (BackendConfig, error) {
	switch {
	case strings.Contains(modelID, "llama-3.1-405b") || strings.HasPrefix(modelID, "meta/"):
		if r.nvidiaKey == "" {
			return BackendConfig{}, &MissingCredentialError{Provider: "NVIDIA"}
		}
		return r.withHint(BackendConfig{
			Family:      FamilyLlama405B,
			APIKey:      r.nvidiaKey,
			BaseURL:     nvidiaBaseURL,
			Model:       model405B,
			Temperature: defaultTemperature,
			TopP:        defaultTopP,
			MaxTokens:   defaultMaxTokens,
		}), nil

	case strings.Contains(modelID, "nemotron"):
		if r.nvidiaKey == "" {
			return BackendConfig{}, &MissingCredentialError{Provider: "NVIDIA"}
		}
		return r.withHint(BackendConfig{
			Family:       FamilyNemotron,
			APIKey:       r.nvidiaKey,
			BaseURL:      nvidiaBaseURL,
			Model:        modelNemotron,
			SystemPrimed: true,
			Temperature:  nemotronTemperature,
			TopP:         nemotronTopP,
			MaxTokens:    nemotronMaxTokens,
		}), nil

	case modelID == "nim-llm":
		return r.withHint(BackendConfig{
			Family:      FamilyNIM,
			APIKey:      nimAPIKey,
			BaseURL:     nimBaseURL,
			Model:       modelNIM,
			Temperature: defaultTemperature,
			MaxTokens:   defaultMaxTokens,
		}), nil

	case strings.Contains(modelID, "gpt"):
		if r.openaiKey == "" {
			return BackendConfig{}, &MissingCredentialError{Provider: "OpenAI"}
		}
		return r.withHint(BackendConfig{
			Family:      FamilyOpenAI,
			APIKey:      r.openaiKey,
			Model:       modelID,
			Temperature: defaultTemperature,
			TopP:        defaultTopP,
			MaxTokens:   defaultMaxTokens,
		}), nil

	case strings.Contains(modelID, "claude"):
		return BackendConfig{}, ErrNotImplemented

	case modelID == "custom":
		return BackendConfig{}, ErrNotImplemented

	case modelID == "mercury-agent":
		if r.nvidiaKey == "" {
			return BackendConfig{}, &MissingCredentialError{Provider: "NVIDIA"}
		}
		return BackendConfig{Family: FamilyAgent, APIKey: r.nvidiaKey}, nil

	default:
		// Anything else is treated as a literal OpenAI-compatible model name.
		if r.openaiKey == "" {
			return BackendConfig{}, &MissingCredentialError{Provider: "OpenAI"}
		}
		return r.withHint(BackendConfig{
			Family:      FamilyDefault,
			APIKey:      r.openaiKey,
			Model:       modelID,
			Temperature: defaultTemperature,
			TopP:        defaultTopP,
			MaxTokens:   defaultMaxTokens,
		}), nil
	}
}

func (r *Registry) withHint(cfg BackendConfig) BackendConfig {
	cfg.MarkdownHint = r.hints[cfg.Family]
	return cfg
}
