package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/mercurylabs/mercury/internal/infra/eventbus"
	"github.com/mercurylabs/mercury/internal/infra/llm"
)

type completerStub struct {
	text    string
	err     error
	gotCfg  llm.BackendConfig
	gotMsgs []llm.Message
}

func (s *completerStub) Complete(_ context.Context, cfg llm.BackendConfig, msgs []llm.Message) (string, error) {
	s.gotCfg = cfg
	s.gotMsgs = msgs
	return s.text, s.err
}

type agentStub struct {
	text   string
	err    error
	called bool
}

func (s *agentStub) Ask(context.Context, string) (string, error) {
	s.called = true
	return s.text, s.err
}

func newTestDispatcher(completer llm.Completer, agentRunner AgentRunner, hints map[llm.Family]bool) *Dispatcher {
	reg := llm.NewRegistry("nv-key", "oa-key", hints)
	return NewDispatcher(reg, completer, agentRunner, nil)
}

func TestDispatch_EmptyMessage(t *testing.T) {
	d := newTestDispatcher(&completerStub{}, &agentStub{}, nil)

	if _, err := d.Dispatch(context.Background(), Request{Model: "gpt-4o", Message: "  "}); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("got %v, want ErrEmptyMessage", err)
	}
}

func TestDispatch_HTTPFamily(t *testing.T) {
	completer := &completerStub{text: "hello there"}
	d := newTestDispatcher(completer, &agentStub{}, nil)

	text, err := d.Dispatch(context.Background(), Request{Model: "gpt-4o", Message: "hi"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if text != "hello there" {
		t.Errorf("text = %q", text)
	}
	if completer.gotCfg.Family != llm.FamilyOpenAI {
		t.Errorf("family = %q", completer.gotCfg.Family)
	}
	if len(completer.gotMsgs) != 1 || completer.gotMsgs[0].Role != "user" || completer.gotMsgs[0].Content != "hi" {
		t.Errorf("messages = %+v, want single user message", completer.gotMsgs)
	}
}

func TestDispatch_NemotronPriming(t *testing.T) {
	completer := &completerStub{text: "ok"}
	d := newTestDispatcher(completer, &agentStub{}, nil)

	if _, err := d.Dispatch(context.Background(), Request{Model: "nemotron", Message: "subject"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if len(completer.gotMsgs) != 2 {
		t.Fatalf("messages = %d, want 2 (priming + user)", len(completer.gotMsgs))
	}
	if completer.gotMsgs[0].Role != "system" || completer.gotMsgs[0].Content != nemotronPriming {
		t.Errorf("first message = %+v, want nemotron priming", completer.gotMsgs[0])
	}
	if completer.gotMsgs[1].Role != "user" {
		t.Errorf("second message = %+v, want user turn", completer.gotMsgs[1])
	}
}

func TestDispatch_MarkdownHintFlag(t *testing.T) {
	completer := &completerStub{text: "ok"}
	d := newTestDispatcher(completer, &agentStub{}, map[llm.Family]bool{llm.FamilyOpenAI: true})

	if _, err := d.Dispatch(context.Background(), Request{Model: "gpt-4o", Message: "hi"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(completer.gotMsgs) != 2 || completer.gotMsgs[0].Content != markdownInstruction {
		t.Errorf("messages = %+v, want markdown instruction + user", completer.gotMsgs)
	}
}

func TestDispatch_AgentFamily(t *testing.T) {
	agentRunner := &agentStub{text: "agent answer"}
	completer := &completerStub{}
	d := newTestDispatcher(completer, agentRunner, nil)

	text, err := d.Dispatch(context.Background(), Request{Model: "mercury-agent", Message: "hi"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if text != "agent answer" {
		t.Errorf("text = %q", text)
	}
	if !agentRunner.called {
		t.Error("agent runner was not invoked")
	}
	if completer.gotMsgs != nil {
		t.Error("completer must not be invoked for the agent family")
	}
}

func TestDispatch_ErrorsPassThroughTyped(t *testing.T) {
	t.Run("not implemented", func(t *testing.T) {
		d := newTestDispatcher(&completerStub{}, &agentStub{}, nil)
		_, err := d.Dispatch(context.Background(), Request{Model: "custom", Message: "hi"})
		if !errors.Is(err, llm.ErrNotImplemented) {
			t.Fatalf("got %v, want ErrNotImplemented", err)
		}
	})

	t.Run("missing credential", func(t *testing.T) {
		reg := llm.NewRegistry("", "", nil)
		d := NewDispatcher(reg, &completerStub{}, &agentStub{}, nil)
		_, err := d.Dispatch(context.Background(), Request{Model: "gpt-4o", Message: "hi"})
		var missing *llm.MissingCredentialError
		if !errors.As(err, &missing) {
			t.Fatalf("got %v, want MissingCredentialError", err)
		}
	})

	t.Run("backend error", func(t *testing.T) {
		backendErr := &llm.BackendError{Status: 502, Body: "bad gateway"}
		d := newTestDispatcher(&completerStub{err: backendErr}, &agentStub{}, nil)
		_, err := d.Dispatch(context.Background(), Request{Model: "gpt-4o", Message: "hi"})
		var be *llm.BackendError
		if !errors.As(err, &be) || be.Status != 502 {
			t.Fatalf("got %v, want the BackendError", err)
		}
	})
}

func TestDispatch_PublishesEvents(t *testing.T) {
	bus := eventbus.New()
	done := bus.Subscribe(eventbus.TopicChatCompleted)
	failed := bus.Subscribe(eventbus.TopicChatFailed)

	reg := llm.NewRegistry("nv-key", "oa-key", nil)
	d := NewDispatcher(reg, &completerStub{text: "ok"}, &agentStub{}, bus)

	if _, err := d.Dispatch(context.Background(), Request{Model: "gpt-4o", Message: "hi"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	select {
	case ev := <-done:
		payload, ok := ev.Payload.(map[string]string)
		if !ok || payload["model"] != "gpt-4o" {
			t.Errorf("payload = %v", ev.Payload)
		}
	default:
		t.Error("expected a chat.completed event")
	}

	if _, err := d.Dispatch(context.Background(), Request{Model: "custom", Message: "hi"}); err == nil {
		t.Fatal("expected error")
	}
	select {
	case <-failed:
	default:
		t.Error("expected a chat.failed event")
	}
}
