// Package engine implements the escrowed commit-reveal contest: session
// lifecycle, the per-turn commit-reveal sub-protocol, timeout recovery,
// settlement, and fee accounting. The engine is a pure per-call state
// machine; durable storage, value custody, the clock, and event delivery
// are all injected.
package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/janken-games/janken/core"
	"github.com/janken-games/janken/events"
	"github.com/janken-games/janken/storage"
)

const (
	// MinRevealTimeout is the floor for a game's per-turn reveal window.
	MinRevealTimeout = 5 * time.Minute
	// MinJoinTimeout is the floor for the configurable join timeout.
	MinJoinTimeout = time.Hour
	// DefaultJoinTimeout applies when no join timeout was ever configured.
	DefaultJoinTimeout = 24 * time.Hour

	// EscrowAccount is the ledger account holding all stakes currently
	// locked in open games plus the accrued (not yet withdrawn) fees.
	EscrowAccount = "janken:escrow"
)

// Ledger is the value-custody capability the engine depends on. The
// engine never constructs one; cmd/jankend wires the account ledger and
// tests may substitute anything that honors atomic all-or-nothing
// transfers.
type Ledger interface {
	Transfer(from, to string, amount uint64) error
}

// Options configures an Engine. Admin and JoinTimeout seed the durable
// configuration only when the store holds none yet.
type Options struct {
	FeePercent  uint64 // pot percentage skimmed on settlement, 0-100
	MinStake    uint64 // smallest allowed per-player stake
	Admin       string
	JoinTimeout time.Duration
}

// Engine executes contest operations against one GameStore and Ledger.
//
// Calls are serialized by an internal mutex: the contest protocol
// requires that no two operations against the same game interleave, and
// a single coarse lock is the cheapest way to provide that for an
// embedded deployment.
type Engine struct {
	mu      sync.Mutex
	store   *storage.GameStore
	ledger  Ledger
	clock   clock.Clock
	emitter *events.Emitter

	feePercent uint64
	minStake   uint64
}

// New creates an Engine and seeds the durable admin configuration from
// opts if the store has none.
func New(store *storage.GameStore, l Ledger, clk clock.Clock, em *events.Emitter, opts Options) (*Engine, error) {
	if opts.FeePercent > 100 {
		return nil, fmt.Errorf("fee percent %d out of range", opts.FeePercent)
	}
	e := &Engine{
		store:      store,
		ledger:     l,
		clock:      clk,
		emitter:    em,
		feePercent: opts.FeePercent,
		minStake:   opts.MinStake,
	}

	if _, err := store.Admin(); errors.Is(err, core.ErrNotFound) {
		if opts.Admin != "" {
			if err := store.SetAdmin(opts.Admin); err != nil {
				return nil, fmt.Errorf("seed admin: %w", err)
			}
		}
	} else if err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}

	if _, err := store.JoinTimeout(); errors.Is(err, core.ErrNotFound) {
		jt := opts.JoinTimeout
		if jt == 0 {
			jt = DefaultJoinTimeout
		}
		if jt < MinJoinTimeout {
			return nil, fmt.Errorf("join timeout %s: %w", jt, core.ErrBadTimeout)
		}
		if err := store.SetJoinTimeout(jt); err != nil {
			return nil, fmt.Errorf("seed join timeout: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("load join timeout: %w", err)
	}

	return e, nil
}

// GetGame returns a game by ID.
func (e *Engine) GetGame(id uint64) (*core.Game, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.GetGame(id)
}

// FeePool returns the accrued protocol fees.
func (e *Engine) FeePool() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.FeePool()
}

// Admin returns the current admin identity.
func (e *Engine) Admin() (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Admin()
}

// now returns the injected clock's time in unix seconds.
func (e *Engine) now() int64 {
	return e.clock.Now().Unix()
}

func (e *Engine) emit(typ events.EventType, gameID uint64, data map[string]any) {
	if e.emitter != nil {
		e.emitter.Emit(events.Event{Type: typ, GameID: gameID, Data: data})
	}
}

// requireAdmin rejects callers other than the stored admin.
func (e *Engine) requireAdmin(caller string) error {
	admin, err := e.store.Admin()
	if errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("no admin configured: %w", core.ErrNotAdmin)
	}
	if err != nil {
		return err
	}
	if caller != admin {
		return fmt.Errorf("caller %q: %w", caller, core.ErrNotAdmin)
	}
	return nil
}
