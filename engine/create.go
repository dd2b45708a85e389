package engine

import (
	"fmt"
	"time"

	"github.com/janken-games/janken/core"
	"github.com/janken-games/janken/events"
)

// CreateGame opens a new contest. The caller's stake is escrowed
// immediately; an opponent must join with the identical stake before the
// join deadline. totalTurns must be odd so the match cannot end in an
// aggregate tie, and revealTimeout is the per-turn reveal window.
func (e *Engine) CreateGame(caller string, stake uint64, totalTurns uint32, revealTimeout time.Duration) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller == "" {
		return 0, core.ErrBadIdentity
	}
	if totalTurns == 0 || totalTurns%2 == 0 {
		return 0, fmt.Errorf("total turns %d: %w", totalTurns, core.ErrBadTurnCount)
	}
	if stake < e.minStake {
		return 0, fmt.Errorf("stake %d below minimum %d: %w", stake, e.minStake, core.ErrStakeTooLow)
	}
	if revealTimeout < MinRevealTimeout {
		return 0, fmt.Errorf("reveal timeout %s below %s: %w", revealTimeout, MinRevealTimeout, core.ErrBadTimeout)
	}

	joinTimeout, err := e.store.JoinTimeout()
	if err != nil {
		return 0, fmt.Errorf("load join timeout: %w", err)
	}

	// Escrow before writing the record: a failed draw must leave no
	// trace of the game.
	if err := e.ledger.Transfer(caller, EscrowAccount, stake); err != nil {
		return 0, fmt.Errorf("escrow stake: %w", err)
	}

	id, err := e.store.NextGameID()
	if err != nil {
		return 0, fmt.Errorf("allocate game id: %w", err)
	}
	now := e.now()
	g := &core.Game{
		ID:            id,
		PlayerA:       caller,
		Stake:         stake,
		JoinDeadline:  now + int64(joinTimeout/time.Second),
		RevealTimeout: int64(revealTimeout / time.Second),
		TotalTurns:    totalTurns,
		CurrentTurn:   1,
		Phase:         core.PhaseCreated,
		CreatedAt:     now,
	}
	if err := e.store.PutGame(g); err != nil {
		return 0, fmt.Errorf("store game: %w", err)
	}

	e.emit(events.EventGameCreated, id, map[string]any{
		"creator":     caller,
		"stake":       stake,
		"total_turns": totalTurns,
	})
	return id, nil
}

// JoinGame seats the caller as the second player. The supplied stake
// must equal the creator's and is escrowed on success. The phase stays
// Created: it models "open for moves", which begins with the first
// commitment, not with the join.
func (e *Engine) JoinGame(caller string, id uint64, stake uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.store.GetGame(id)
	if err != nil {
		return err
	}
	if g.Phase != core.PhaseCreated {
		return fmt.Errorf("join in phase %s: %w", g.Phase, core.ErrWrongPhase)
	}
	if g.PlayerB != nil {
		return fmt.Errorf("game %d already has an opponent: %w", id, core.ErrWrongPhase)
	}
	if caller == g.PlayerA {
		return core.ErrSelfJoin
	}
	if e.now() > g.JoinDeadline {
		return fmt.Errorf("join deadline: %w", core.ErrDeadlinePassed)
	}
	if stake != g.Stake {
		return fmt.Errorf("stake %d, creator staked %d: %w", stake, g.Stake, core.ErrStakeMismatch)
	}

	if err := e.ledger.Transfer(caller, EscrowAccount, stake); err != nil {
		return fmt.Errorf("escrow stake: %w", err)
	}

	g.PlayerB = &caller
	if err := e.store.PutGame(g); err != nil {
		return fmt.Errorf("store game: %w", err)
	}

	e.emit(events.EventPlayerJoined, id, map[string]any{"player": caller})
	return nil
}

// CancelGame lets the creator abandon a game that has not started (no
// commitment was made yet). All escrowed stakes are refunded in full; no
// fee is taken on a cancellation.
func (e *Engine) CancelGame(caller string, id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.store.GetGame(id)
	if err != nil {
		return err
	}
	if g.Phase != core.PhaseCreated {
		return fmt.Errorf("cancel in phase %s: %w", g.Phase, core.ErrWrongPhase)
	}
	if caller != g.PlayerA {
		return core.ErrNotCreator
	}

	// Terminal phase is durable before any refund moves.
	g.Phase = core.PhaseCancelled
	if err := e.store.PutGame(g); err != nil {
		return fmt.Errorf("store game: %w", err)
	}

	if err := e.ledger.Transfer(EscrowAccount, g.PlayerA, g.Stake); err != nil {
		return fmt.Errorf("refund creator: %w", err)
	}
	if g.PlayerB != nil {
		if err := e.ledger.Transfer(EscrowAccount, *g.PlayerB, g.Stake); err != nil {
			return fmt.Errorf("refund opponent: %w", err)
		}
	}

	e.emit(events.EventGameCancelled, id, map[string]any{"reason": "cancelled_by_creator"})
	return nil
}
