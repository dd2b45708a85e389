// Package events delivers typed notifications for every successful state
// change of the engine. Emission is synchronous and best-effort: a
// subscriber cannot fail the operation that triggered the event.
package events

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// EventType labels what happened.
type EventType string

const (
	EventGameCreated        EventType = "game_created"
	EventPlayerJoined       EventType = "player_joined"
	EventMoveCommitted      EventType = "move_committed"
	EventMoveRevealed       EventType = "move_revealed"
	EventTurnCompleted      EventType = "turn_completed"
	EventGameFinished       EventType = "game_finished"
	EventGameCancelled      EventType = "game_cancelled"
	EventJoinTimeoutChanged EventType = "join_timeout_changed"
	EventAdminChanged       EventType = "admin_changed"
	EventFeeCollected       EventType = "fee_collected"
	EventFeeWithdrawn       EventType = "fee_withdrawn"
)

// AllTypes lists every event type the engine emits, in a stable order.
// The watermill bridge subscribes to all of them.
var AllTypes = []EventType{
	EventGameCreated,
	EventPlayerJoined,
	EventMoveCommitted,
	EventMoveRevealed,
	EventTurnCompleted,
	EventGameFinished,
	EventGameCancelled,
	EventJoinTimeoutChanged,
	EventAdminChanged,
	EventFeeCollected,
	EventFeeWithdrawn,
}

// Event carries a typed payload emitted after a state change. GameID is
// zero for events that are not tied to one game (fee withdrawal, admin
// configuration changes).
type Event struct {
	Type   EventType      `json:"type"`
	GameID uint64         `json:"game_id,omitempty"`
	Data   map[string]any `json:"data"`
}

// Handler is a callback invoked for matching events.
type Handler func(Event)

// Emitter is a simple pub/sub broker. Subscribe before Emit.
type Emitter struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewEmitter creates an Emitter with no subscribers.
func NewEmitter() *Emitter {
	return &Emitter{handlers: make(map[EventType][]Handler)}
}

// Subscribe registers h to be called whenever typ is emitted.
func (e *Emitter) Subscribe(typ EventType, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[typ] = append(e.handlers[typ], h)
}

// Emit delivers ev to all subscribers for ev.Type synchronously.
// Each handler is guarded by panic recovery so a misbehaving subscriber
// cannot fail the engine operation that emitted the event.
func (e *Emitter) Emit(ev Event) {
	e.mu.RLock()
	handlers := e.handlers[ev.Type]
	e.mu.RUnlock()
	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Str("event", string(ev.Type)).
						Uint64("game_id", ev.GameID).
						Interface("panic", r).
						Msg("event handler panicked")
				}
			}()
			h(ev)
		}()
	}
}
