package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitDeliversToSubscribers(t *testing.T) {
	em := NewEmitter()

	var got []Event
	em.Subscribe(EventGameCreated, func(ev Event) { got = append(got, ev) })
	em.Subscribe(EventGameFinished, func(ev Event) { got = append(got, ev) })

	em.Emit(Event{Type: EventGameCreated, GameID: 1})
	em.Emit(Event{Type: EventPlayerJoined, GameID: 1}) // nobody listens
	em.Emit(Event{Type: EventGameFinished, GameID: 1})

	assert.Len(t, got, 2)
	assert.Equal(t, EventGameCreated, got[0].Type)
	assert.Equal(t, EventGameFinished, got[1].Type)
}

func TestEmitSurvivesPanickingHandler(t *testing.T) {
	em := NewEmitter()

	var called bool
	em.Subscribe(EventGameCreated, func(Event) { panic("boom") })
	em.Subscribe(EventGameCreated, func(Event) { called = true })

	assert.NotPanics(t, func() {
		em.Emit(Event{Type: EventGameCreated, GameID: 1})
	})
	assert.True(t, called, "later handlers still run after one panics")
}

func TestAllTypesCoversEveryConstant(t *testing.T) {
	seen := map[EventType]bool{}
	for _, typ := range AllTypes {
		assert.False(t, seen[typ], "duplicate %s", typ)
		seen[typ] = true
	}
	assert.Len(t, AllTypes, 11)
}
