package engine

import (
	"encoding/hex"
	"fmt"

	"github.com/janken-games/janken/core"
	"github.com/janken-games/janken/crypto"
	"github.com/janken-games/janken/events"
)

// CommitMove records the caller's commitment for the current turn. The
// first commitment of the match requires a seated opponent and flips the
// phase to Committed; later commitments require that nobody has revealed
// yet this turn. Each player commits exactly once per turn. Once both
// commitments are in, the reveal deadline is armed.
func (e *Engine) CommitMove(caller string, id uint64, commitment string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(commitment) != 64 {
		return core.ErrBadCommitment
	}
	if _, err := hex.DecodeString(commitment); err != nil {
		return fmt.Errorf("%w: %v", core.ErrBadCommitment, err)
	}

	g, err := e.store.GetGame(id)
	if err != nil {
		return err
	}
	side, ok := g.SideOf(caller)
	if !ok {
		return core.ErrNotPlayer
	}

	switch g.Phase {
	case core.PhaseCreated:
		// Turn-opening commit: the match starts here.
		if g.PlayerB == nil {
			return core.ErrNoOpponent
		}
		g.Phase = core.PhaseCommitted
	case core.PhaseCommitted:
		if g.MoveA != nil || g.MoveB != nil {
			return core.ErrRevealStarted
		}
	default:
		return fmt.Errorf("commit in phase %s: %w", g.Phase, core.ErrWrongPhase)
	}

	if g.Commit(side) != nil {
		return core.ErrAlreadyCommitted
	}
	g.SetCommit(side, &commitment)

	if g.CommitA != nil && g.CommitB != nil {
		deadline := e.now() + g.RevealTimeout
		g.RevealDeadline = &deadline
	}

	if err := e.store.PutGame(g); err != nil {
		return fmt.Errorf("store game: %w", err)
	}

	e.emit(events.EventMoveCommitted, id, map[string]any{
		"player": caller,
		"turn":   g.CurrentTurn,
	})
	return nil
}

// RevealMove discloses the caller's move and secret for the current
// turn. The recomputed commitment must match the stored one. When both
// players have revealed, the turn is scored and the game either advances
// to the next turn or settles after the final one.
func (e *Engine) RevealMove(caller string, id uint64, move core.Move, secret string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !move.Valid() {
		return fmt.Errorf("move %d: %w", move, core.ErrBadMove)
	}

	g, err := e.store.GetGame(id)
	if err != nil {
		return err
	}
	side, ok := g.SideOf(caller)
	if !ok {
		return core.ErrNotPlayer
	}
	if g.Phase != core.PhaseCommitted {
		return fmt.Errorf("reveal in phase %s: %w", g.Phase, core.ErrWrongPhase)
	}
	if g.RevealDeadline == nil {
		return core.ErrCommitsPending
	}
	if e.now() > *g.RevealDeadline {
		return fmt.Errorf("reveal deadline: %w", core.ErrDeadlinePassed)
	}
	if g.Move(side) != nil {
		return core.ErrAlreadyRevealed
	}

	commit := g.Commit(side)
	if commit == nil {
		// Unreachable while the invariant "commit xor move per player
		// per turn" holds; guard anyway.
		return core.ErrCommitsPending
	}
	if !crypto.VerifyCommitment(*commit, move, secret) {
		return core.ErrCommitMismatch
	}

	// The commitment is consumed by the reveal: exactly one of
	// commit/move is present per player at any instant.
	g.SetCommit(side, nil)
	mv := move
	g.SetMove(side, &mv)

	turn := g.CurrentTurn

	if g.MoveA == nil || g.MoveB == nil {
		if err := e.store.PutGame(g); err != nil {
			return fmt.Errorf("store game: %w", err)
		}
		e.emitRevealed(g, caller, move, turn)
		return nil
	}

	// Both revealed: score the turn, then advance or settle.
	winner := e.scoreTurn(g)

	if turn < g.TotalTurns {
		g.CurrentTurn++
		g.MoveA, g.MoveB = nil, nil
		g.CommitA, g.CommitB = nil, nil
		g.RevealDeadline = nil
		if err := e.store.PutGame(g); err != nil {
			return fmt.Errorf("store game: %w", err)
		}
		e.emitRevealed(g, caller, move, turn)
		e.emitTurnCompleted(g, turn, winner)
		return nil
	}

	// Final turn: settlement persists the terminal phase itself.
	e.emitRevealed(g, caller, move, turn)
	e.emitTurnCompleted(g, turn, winner)
	return e.settleMatch(g)
}

// scoreTurn applies the cyclic dominance rule to the two revealed moves
// and returns the winning side, or 0 for a drawn turn.
func (e *Engine) scoreTurn(g *core.Game) core.Side {
	a, b := *g.MoveA, *g.MoveB
	switch {
	case a.Beats(b):
		g.AddScore(core.SideA)
		return core.SideA
	case b.Beats(a):
		g.AddScore(core.SideB)
		return core.SideB
	default:
		return 0
	}
}

func (e *Engine) emitRevealed(g *core.Game, player string, move core.Move, turn uint32) {
	e.emit(events.EventMoveRevealed, g.ID, map[string]any{
		"player": player,
		"move":   move.String(),
		"turn":   turn,
	})
}

func (e *Engine) emitTurnCompleted(g *core.Game, turn uint32, winner core.Side) {
	data := map[string]any{"turn": turn}
	if winner != 0 {
		data["winner"] = g.Player(winner)
	}
	e.emit(events.EventTurnCompleted, g.ID, data)
}
