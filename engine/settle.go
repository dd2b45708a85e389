package engine

import (
	"fmt"

	"github.com/janken-games/janken/core"
	"github.com/janken-games/janken/events"
)

// settleMatch closes g after its final turn resolved. The higher
// cumulative score wins the pot minus the protocol fee; equal scores
// split it. Caller holds the engine mutex and has not persisted g yet.
func (e *Engine) settleMatch(g *core.Game) error {
	switch {
	case g.ScoreA > g.ScoreB:
		return e.finish(g, core.SideA, "score")
	case g.ScoreB > g.ScoreA:
		return e.finish(g, core.SideB, "score")
	default:
		// Unreachable with an odd turn count unless turns were drawn;
		// drawn turns score nobody, so equal totals can still happen.
		return e.settleTie(g)
	}
}

// finish pays out a decided match: the winner receives the pot minus
// the fee, the fee accrues to the pool. reason distinguishes a score
// win from a forfeit in the emitted event.
func (e *Engine) finish(g *core.Game, winner core.Side, reason string) error {
	pot := g.Pot()
	fee := pot * e.feePercent / 100
	prize := pot - fee

	// Terminal phase is durable before value leaves escrow.
	g.Phase = core.PhaseFinished
	if err := e.store.PutGame(g); err != nil {
		return fmt.Errorf("store game: %w", err)
	}

	if fee > 0 {
		if err := e.accrueFee(g.ID, fee); err != nil {
			return err
		}
	}
	if err := e.ledger.Transfer(EscrowAccount, g.Player(winner), prize); err != nil {
		return fmt.Errorf("pay winner: %w", err)
	}

	e.emit(events.EventGameFinished, g.ID, map[string]any{
		"winner":  g.Player(winner),
		"prize":   prize,
		"fee":     fee,
		"reason":  reason,
		"score_a": g.ScoreA,
		"score_b": g.ScoreB,
	})
	return nil
}

// settleTie splits the pot minus the fee evenly. An odd remainder after
// the split stays in escrow rather than favoring either player.
func (e *Engine) settleTie(g *core.Game) error {
	pot := g.Pot()
	fee := pot * e.feePercent / 100
	share := (pot - fee) / 2

	g.Phase = core.PhaseFinished
	if err := e.store.PutGame(g); err != nil {
		return fmt.Errorf("store game: %w", err)
	}

	if fee > 0 {
		if err := e.accrueFee(g.ID, fee); err != nil {
			return err
		}
	}
	if err := e.ledger.Transfer(EscrowAccount, g.PlayerA, share); err != nil {
		return fmt.Errorf("pay player a: %w", err)
	}
	if err := e.ledger.Transfer(EscrowAccount, *g.PlayerB, share); err != nil {
		return fmt.Errorf("pay player b: %w", err)
	}

	e.emit(events.EventGameFinished, g.ID, map[string]any{
		"winner":  "",
		"prize":   share,
		"fee":     fee,
		"reason":  "tie",
		"score_a": g.ScoreA,
		"score_b": g.ScoreB,
	})
	return nil
}

// accrueFee adds amount to the durable fee pool. The value itself stays
// in the escrow account until an admin withdraws it.
func (e *Engine) accrueFee(gameID uint64, amount uint64) error {
	pool, err := e.store.FeePool()
	if err != nil {
		return fmt.Errorf("load fee pool: %w", err)
	}
	if err := e.store.SetFeePool(pool + amount); err != nil {
		return fmt.Errorf("store fee pool: %w", err)
	}
	e.emit(events.EventFeeCollected, gameID, map[string]any{"amount": amount})
	return nil
}

// WithdrawFees transfers accrued protocol fees from escrow to the given
// destination. Admin only. amount of zero means "everything".
func (e *Engine) WithdrawFees(caller, to string, amount uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireAdmin(caller); err != nil {
		return 0, err
	}
	if to == "" {
		return 0, core.ErrBadIdentity
	}

	pool, err := e.store.FeePool()
	if err != nil {
		return 0, fmt.Errorf("load fee pool: %w", err)
	}
	if amount == 0 {
		amount = pool
	}
	if amount > pool {
		return 0, fmt.Errorf("withdraw %d of %d: %w", amount, pool, core.ErrInsufficientFees)
	}
	if amount == 0 {
		return 0, nil
	}

	// The pool decrement is durable before the payout, mirroring the
	// settlement ordering.
	if err := e.store.SetFeePool(pool - amount); err != nil {
		return 0, fmt.Errorf("store fee pool: %w", err)
	}
	if err := e.ledger.Transfer(EscrowAccount, to, amount); err != nil {
		return 0, fmt.Errorf("pay out fees: %w", err)
	}

	e.emit(events.EventFeeWithdrawn, 0, map[string]any{
		"to":     to,
		"amount": amount,
	})
	return amount, nil
}
