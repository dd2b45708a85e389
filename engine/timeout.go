package engine

import (
	"fmt"

	"github.com/janken-games/janken/core"
	"github.com/janken-games/janken/events"
)

// CanTimeoutJoin reports whether the join timeout of the given game is
// claimable right now: still waiting for an opponent and past the join
// deadline.
func (e *Engine) CanTimeoutJoin(id uint64) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.store.GetGame(id)
	if err != nil {
		return false, err
	}
	return g.Phase == core.PhaseCreated && g.PlayerB == nil && e.now() > g.JoinDeadline, nil
}

// TimeoutJoin cancels a game nobody joined before its join deadline and
// refunds the creator's stake. Any caller may trigger it; the refund
// always goes to the creator.
func (e *Engine) TimeoutJoin(caller string, id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.store.GetGame(id)
	if err != nil {
		return err
	}
	if g.Phase != core.PhaseCreated {
		return fmt.Errorf("join timeout in phase %s: %w", g.Phase, core.ErrWrongPhase)
	}
	if g.PlayerB != nil {
		return fmt.Errorf("game %d has an opponent: %w", id, core.ErrWrongPhase)
	}
	if e.now() <= g.JoinDeadline {
		return fmt.Errorf("join deadline: %w", core.ErrDeadlineNotReached)
	}

	g.Phase = core.PhaseCancelled
	if err := e.store.PutGame(g); err != nil {
		return fmt.Errorf("store game: %w", err)
	}

	if err := e.ledger.Transfer(EscrowAccount, g.PlayerA, g.Stake); err != nil {
		return fmt.Errorf("refund creator: %w", err)
	}

	e.emit(events.EventGameCancelled, id, map[string]any{
		"reason":    "join_timeout",
		"caller":    caller,
		"refund_to": g.PlayerA,
	})
	return nil
}

// CanTimeoutReveal reports whether the reveal timeout of the given game
// is claimable, and by whom. The second return names the player entitled
// to claim; nil means either player may (neither revealed).
func (e *Engine) CanTimeoutReveal(id uint64) (bool, *string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.store.GetGame(id)
	if err != nil {
		return false, nil, err
	}
	if g.Phase != core.PhaseCommitted || g.RevealDeadline == nil || e.now() <= *g.RevealDeadline {
		return false, nil, nil
	}
	switch {
	case g.MoveA != nil && g.MoveB == nil:
		return true, &g.PlayerA, nil
	case g.MoveB != nil && g.MoveA == nil:
		return true, g.PlayerB, nil
	default:
		return true, nil, nil
	}
}

// TimeoutReveal resolves a turn whose reveal deadline expired. A player
// who revealed while the opponent did not wins the whole match by
// forfeit. If neither revealed, the game is cancelled and both stakes
// are refunded in full with no fee.
func (e *Engine) TimeoutReveal(caller string, id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, err := e.store.GetGame(id)
	if err != nil {
		return err
	}
	side, ok := g.SideOf(caller)
	if !ok {
		return core.ErrNotPlayer
	}
	if g.Phase != core.PhaseCommitted {
		return fmt.Errorf("reveal timeout in phase %s: %w", g.Phase, core.ErrWrongPhase)
	}
	if g.RevealDeadline == nil {
		return core.ErrCommitsPending
	}
	if e.now() <= *g.RevealDeadline {
		return fmt.Errorf("reveal deadline: %w", core.ErrDeadlineNotReached)
	}

	mine := g.Move(side)
	theirs := g.Move(side.Opponent())

	switch {
	case mine != nil && theirs == nil:
		// Forfeit: the non-revealing opponent loses the match outright.
		return e.finish(g, side, "reveal_timeout")
	case mine == nil && theirs != nil:
		return core.ErrOpponentRevealed
	default:
		// Neither revealed: nobody is at fault more than the other, so
		// the match unwinds fee-free.
		g.Phase = core.PhaseCancelled
		if err := e.store.PutGame(g); err != nil {
			return fmt.Errorf("store game: %w", err)
		}
		if err := e.ledger.Transfer(EscrowAccount, g.PlayerA, g.Stake); err != nil {
			return fmt.Errorf("refund player a: %w", err)
		}
		if err := e.ledger.Transfer(EscrowAccount, *g.PlayerB, g.Stake); err != nil {
			return fmt.Errorf("refund player b: %w", err)
		}
		e.emit(events.EventGameCancelled, id, map[string]any{
			"reason": "reveal_timeout",
			"caller": caller,
		})
		return nil
	}
}
