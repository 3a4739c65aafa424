// Package eventbus is an in-memory publish/subscribe bus. Request handlers
// publish operation events (chat completed, upload stored, ...) and the audit
// recorder consumes them off the request path.
//
// Design:
//   - Buffered Go channel per topic (buffer=100).
//   - Publish is non-blocking: the event is dropped if a subscriber's buffer
//     is full. Audit is best-effort, never back-pressure on a request.
//   - Subscribe returns a read-only channel; the caller owns the loop.
//   - No persistence: events are fire-and-forget.
package eventbus

import "sync"

// Topics published by Mercury services.
const (
	TopicChatCompleted        = "chat.completed"
	TopicChatFailed           = "chat.failed"
	TopicRecordingTranscribed = "recording.transcribed"
	TopicTTSSynthesized       = "tts.synthesized"
	TopicUploadStored         = "upload.stored"
)

// Event is a single published message.
type Event struct {
	Topic   string
	Payload any
}

// EventBus is the interface for publishing and subscribing to topics.
type EventBus interface {
	Publish(topic string, payload any)
	Subscribe(topic string) <-chan Event
}

const defaultBufferSize = 100

// Bus is the in-memory implementation of EventBus.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event
}

// New returns a new in-memory Bus.
func New() *Bus {
	return &Bus{subscribers: make(map[string][]chan Event)}
}

// Subscribe registers a subscriber for topic and returns a read-only channel.
// The caller must consume the channel to keep receiving events.
func (b *Bus) Subscribe(topic string) <-chan Event {
	ch := make(chan Event, defaultBufferSize)
	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()
	return ch
}

// Publish delivers the event to every subscriber of topic without blocking.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	subs := b.subscribers[topic]
	b.mu.RUnlock()

	ev := Event{Topic: topic, Payload: payload}
	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			// Full buffer: drop. Subscribers are advisory consumers.
		}
	}
}
