package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/janken-games/janken/core"
)

// Key prefixes for the engine's durable records. Everything lives in one
// DB so a single backend choice covers games, balances, and config.
const (
	prefixGame     = "game:"
	keyGameSeq     = "meta:game_seq"
	keyFeePool     = "fees:pool"
	keyAdmin       = "meta:admin"
	keyJoinTimeout = "meta:join_timeout"
	keyGenesis     = "meta:genesis_applied"
)

// GameStore persists game records, the monotonic game ID counter, the
// accrued fee pool, and the admin configuration.
type GameStore struct {
	db DB
}

// NewGameStore creates a GameStore backed by db.
func NewGameStore(db DB) *GameStore {
	return &GameStore{db: db}
}

func gameKey(id uint64) []byte {
	return []byte(prefixGame + strconv.FormatUint(id, 10))
}

// GetGame loads a game by ID. Returns core.ErrNotFound if it does not exist.
func (s *GameStore) GetGame(id uint64) (*core.Game, error) {
	data, err := s.db.Get(gameKey(id))
	if err != nil {
		return nil, fmt.Errorf("game %d: %w", id, err)
	}
	var g core.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode game %d: %w", id, err)
	}
	return &g, nil
}

// PutGame writes a game record.
func (s *GameStore) PutGame(g *core.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game %d: %w", g.ID, err)
	}
	return s.db.Set(gameKey(g.ID), data)
}

// NextGameID allocates and persists the next game identifier.
// IDs start at 1 and increase monotonically.
func (s *GameStore) NextGameID() (uint64, error) {
	seq, err := s.getUint(keyGameSeq)
	if err != nil {
		return 0, err
	}
	seq++
	if err := s.setUint(keyGameSeq, seq); err != nil {
		return 0, err
	}
	return seq, nil
}

// GameCount returns how many games have ever been created.
func (s *GameStore) GameCount() (uint64, error) {
	return s.getUint(keyGameSeq)
}

// FeePool returns the accrued, not-yet-withdrawn protocol fees.
func (s *GameStore) FeePool() (uint64, error) {
	return s.getUint(keyFeePool)
}

// SetFeePool overwrites the accrued fee balance.
func (s *GameStore) SetFeePool(v uint64) error {
	return s.setUint(keyFeePool, v)
}

// Admin returns the configured admin identity, or core.ErrNotFound when
// no admin was ever set.
func (s *GameStore) Admin() (string, error) {
	data, err := s.db.Get([]byte(keyAdmin))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SetAdmin persists the admin identity.
func (s *GameStore) SetAdmin(identity string) error {
	return s.db.Set([]byte(keyAdmin), []byte(identity))
}

// JoinTimeout returns the configured join-timeout duration, or
// core.ErrNotFound when it was never set.
func (s *GameStore) JoinTimeout() (time.Duration, error) {
	secs, err := s.db.Get([]byte(keyJoinTimeout))
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(string(secs), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode join timeout: %w", err)
	}
	return time.Duration(n) * time.Second, nil
}

// SetJoinTimeout persists the join-timeout duration with second
// granularity.
func (s *GameStore) SetJoinTimeout(d time.Duration) error {
	return s.db.Set([]byte(keyJoinTimeout), []byte(strconv.FormatInt(int64(d/time.Second), 10)))
}

// GenesisApplied reports whether the one-time genesis allocation ran.
func (s *GameStore) GenesisApplied() (bool, error) {
	_, err := s.db.Get([]byte(keyGenesis))
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkGenesisApplied records that the genesis allocation ran.
func (s *GameStore) MarkGenesisApplied() error {
	return s.db.Set([]byte(keyGenesis), []byte("1"))
}

// ---- counters ----

func (s *GameStore) getUint(key string) (uint64, error) {
	data, err := s.db.Get([]byte(key))
	if errors.Is(err, core.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode counter %q: %w", key, err)
	}
	return n, nil
}

func (s *GameStore) setUint(key string, v uint64) error {
	return s.db.Set([]byte(key), []byte(strconv.FormatUint(v, 10)))
}
