package audit

import (
	"context"
	"log"

	"github.com/mercurylabs/mercury/internal/infra/eventbus"
)

// topicOutcome maps each bus topic to the outcome it records.
var topicOutcome = map[string]string{
	eventbus.TopicChatCompleted:        OutcomeSuccess,
	eventbus.TopicChatFailed:           OutcomeError,
	eventbus.TopicRecordingTranscribed: OutcomeSuccess,
	eventbus.TopicTTSSynthesized:       OutcomeSuccess,
	eventbus.TopicUploadStored:         OutcomeSuccess,
}

// Recorder consumes operation events off the bus and appends them to the
// audit trail. Recording is best-effort: a failed insert is logged, never
// retried.
type Recorder struct {
	svc *Service
}

func NewRecorder(svc *Service) *Recorder {
	return &Recorder{svc: svc}
}

// Start subscribes to every known topic and consumes events until ctx is
// cancelled. One goroutine per topic; the bus drops events rather than block,
// so slow inserts shed load instead of stalling requests.
func (r *Recorder) Start(ctx context.Context, bus eventbus.EventBus) {
	for topic, outcome := range topicOutcome {
		go r.consume(ctx, bus.Subscribe(topic), topic, outcome)
	}
}

func (r *Recorder) consume(ctx context.Context, events <-chan eventbus.Event, topic, outcome string) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if err := r.svc.Record(ctx, ev.Topic, outcome, ev.Payload); err != nil {
				log.Printf("audit: record %s: %v", topic, err)
			}
		}
	}
}
