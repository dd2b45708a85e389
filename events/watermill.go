package events

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Bridge republishes every engine event onto a watermill publisher, so
// external consumers (matchmaking front ends, accounting, notifications)
// can subscribe over whatever transport the publisher wraps. The bridge
// is fire-and-forget: publish failures are logged, never propagated back
// into the engine call.
type Bridge struct {
	publisher message.Publisher
	topic     string
}

// NewBridge subscribes a Bridge to every event type on em and forwards
// them to publisher on topic.
func NewBridge(em *Emitter, publisher message.Publisher, topic string) *Bridge {
	b := &Bridge{publisher: publisher, topic: topic}
	for _, typ := range AllTypes {
		em.Subscribe(typ, b.forward)
	}
	return b
}

func (b *Bridge) forward(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("event", string(ev.Type)).Msg("marshal event")
		return
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set("event_type", string(ev.Type))
	if err := b.publisher.Publish(b.topic, msg); err != nil {
		log.Error().Err(err).Str("event", string(ev.Type)).Msg("publish event")
	}
}
