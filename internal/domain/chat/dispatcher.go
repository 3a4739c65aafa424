// Package chat orchestrates a single chat turn: resolve the model to a
// backend, build the request, invoke the backend, and normalize the response
// to plain text.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/mercurylabs/mercury/internal/infra/eventbus"
	"github.com/mercurylabs/mercury/internal/infra/llm"
)

// ErrEmptyMessage rejects requests with no message text. Maps to 400.
var ErrEmptyMessage = errors.New("message is required")

// nemotronPriming is the fixed system message the nemotron family expects.
const nemotronPriming = "Give me thoughtful and rational input about the following subject:"

// markdownInstruction is attached when a family's markdown_hint flag is set.
const markdownInstruction = "Format your response using markdown. " +
	"Use ### for main headers, ** for bold text, and proper list formatting " +
	"with - for bullet points and 1. for numbered lists. " +
	"Ensure nested lists are properly indented."

// Request is one chat turn from the client.
type Request struct {
	Model   string
	Message string
}

// AgentRunner is the external-agent collaborator (internal/domain/agent).
type AgentRunner interface {
	Ask(ctx context.Context, message string) (string, error)
}

// Dispatcher routes chat requests to the right backend. The BackendConfig for
// each request lives on the stack of Dispatch — it is never stored, so
// concurrent requests with different models cannot leak config into each
// other.
type Dispatcher struct {
	registry  *llm.Registry
	completer llm.Completer
	agent     AgentRunner
	bus       eventbus.EventBus // may be nil
}

// NewDispatcher wires a Dispatcher. bus may be nil to disable events.
func NewDispatcher(registry *llm.Registry, completer llm.Completer, agent AgentRunner, bus eventbus.EventBus) *Dispatcher {
	return &Dispatcher{registry: registry, completer: completer, agent: agent, bus: bus}
}

// Dispatch resolves, invokes, and normalizes one chat turn. Errors pass
// through typed: llm.ErrNotImplemented, *llm.MissingCredentialError,
// *llm.BackendError, *agent.AgentError, agent.ErrUnrecognizedFormat.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Message) == "" {
		return "", ErrEmptyMessage
	}

	cfg, err := d.registry.Resolve(req.Model)
	if err != nil {
		d.publishFailed(req.Model, err)
		return "", err
	}

	var text string
	if cfg.Family == llm.FamilyAgent {
		text, err = d.agent.Ask(ctx, req.Message)
	} else {
		text, err = d.completer.Complete(ctx, cfg, buildMessages(cfg, req.Message))
	}
	if err != nil {
		d.publishFailed(req.Model, err)
		return "", err
	}

	if d.bus != nil {
		d.bus.Publish(eventbus.TopicChatCompleted, map[string]string{
			"model":  req.Model,
			"family": string(cfg.Family),
		})
	}
	return text, nil
}

func (d *Dispatcher) publishFailed(model string, err error) {
	if d.bus == nil {
		return
	}
	d.bus.Publish(eventbus.TopicChatFailed, map[string]string{
		"model": model,
		"error": err.Error(),
	})
}

// buildMessages assembles the message list for an HTTP-family request:
// the family priming message, the optional markdown instruction, then the
// user message.
func buildMessages(cfg llm.BackendConfig, message string) []llm.Message {
	msgs := make([]llm.Message, 0, 3)
	if cfg.SystemPrimed {
		msgs = append(msgs, llm.Message{Role: "system", Content: nemotronPriming})
	}
	if cfg.MarkdownHint {
		msgs = append(msgs, llm.Message{Role: "system", Content: markdownInstruction})
	}
	return append(msgs, llm.Message{Role: "user", Content: message})
}
