package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janken-games/janken/events"
)

func TestBridgeForwardsEvents(t *testing.T) {
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msgs, err := bus.Subscribe(ctx, "janken.events")
	require.NoError(t, err)

	em := events.NewEmitter()
	events.NewBridge(em, bus, "janken.events")

	em.Emit(events.Event{
		Type:   events.EventGameFinished,
		GameID: 7,
		Data:   map[string]any{"winner": "alice"},
	})

	select {
	case msg := <-msgs:
		msg.Ack()
		assert.Equal(t, string(events.EventGameFinished), msg.Metadata.Get("event_type"))

		var ev events.Event
		require.NoError(t, json.Unmarshal(msg.Payload, &ev))
		assert.Equal(t, events.EventGameFinished, ev.Type)
		assert.Equal(t, uint64(7), ev.GameID)
		assert.Equal(t, "alice", ev.Data["winner"])
	case <-ctx.Done():
		t.Fatal("no message received")
	}
}
