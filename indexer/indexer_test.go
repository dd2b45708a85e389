package indexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janken-games/janken/events"
	"github.com/janken-games/janken/indexer"
	"github.com/janken-games/janken/internal/testutil"
)

func TestGamesByPlayer(t *testing.T) {
	em := events.NewEmitter()
	idx := indexer.New(testutil.NewMemDB(), em)

	em.Emit(events.Event{
		Type:   events.EventGameCreated,
		GameID: 1,
		Data:   map[string]any{"creator": "alice"},
	})
	em.Emit(events.Event{
		Type:   events.EventPlayerJoined,
		GameID: 1,
		Data:   map[string]any{"player": "bob"},
	})
	em.Emit(events.Event{
		Type:   events.EventGameCreated,
		GameID: 2,
		Data:   map[string]any{"creator": "alice"},
	})

	ids, err := idx.GetGamesByPlayer("alice")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, ids)

	ids, err = idx.GetGamesByPlayer("bob")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, ids)

	ids, err = idx.GetGamesByPlayer("carol")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMalformedEventsAreIgnored(t *testing.T) {
	em := events.NewEmitter()
	idx := indexer.New(testutil.NewMemDB(), em)

	em.Emit(events.Event{Type: events.EventGameCreated, GameID: 1, Data: map[string]any{}})
	em.Emit(events.Event{Type: events.EventPlayerJoined, GameID: 0, Data: map[string]any{"player": "bob"}})

	ids, err := idx.GetGamesByPlayer("bob")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
