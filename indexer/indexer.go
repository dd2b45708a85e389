// Package indexer maintains a secondary games-by-player index so front
// ends can list a player's games without scanning every record.
package indexer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/janken-games/janken/core"
	"github.com/janken-games/janken/events"
	"github.com/janken-games/janken/storage"
)

const prefixPlayerGames = "idx:player:game:"

// Indexer subscribes to engine events and updates lookup tables as
// games are created and joined.
type Indexer struct {
	db      storage.DB
	emitter *events.Emitter
}

// New creates an Indexer backed by db and subscribes to the relevant
// events.
func New(db storage.DB, emitter *events.Emitter) *Indexer {
	idx := &Indexer{db: db, emitter: emitter}
	emitter.Subscribe(events.EventGameCreated, idx.onGameCreated)
	emitter.Subscribe(events.EventPlayerJoined, idx.onPlayerJoined)
	return idx
}

// GetGamesByPlayer returns the IDs of every game the given identity
// created or joined, in creation order.
func (idx *Indexer) GetGamesByPlayer(player string) ([]uint64, error) {
	return idx.getList(prefixPlayerGames + player)
}

// ---- event handlers ----

func (idx *Indexer) onGameCreated(ev events.Event) {
	creator, _ := ev.Data["creator"].(string)
	if creator == "" || ev.GameID == 0 {
		return
	}
	_ = idx.addToList(prefixPlayerGames+creator, ev.GameID)
}

func (idx *Indexer) onPlayerJoined(ev events.Event) {
	player, _ := ev.Data["player"].(string)
	if player == "" || ev.GameID == 0 {
		return
	}
	_ = idx.addToList(prefixPlayerGames+player, ev.GameID)
}

// ---- list helpers ----

func (idx *Indexer) getList(key string) ([]uint64, error) {
	data, err := idx.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil // empty list
		}
		return nil, err
	}
	var ids []uint64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("indexer unmarshal: %w", err)
	}
	return ids, nil
}

func (idx *Indexer) addToList(key string, id uint64) error {
	ids, _ := idx.getList(key)
	ids = append(ids, id)
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return idx.db.Set([]byte(key), data)
}
