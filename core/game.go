// Package core defines the domain types of the janken contest engine:
// games, moves, phases, and the error taxonomy shared by every component.
package core

// Move is a player's revealed hand for one turn.
// MoveNone is never a valid revealed move; absence is modeled with nil
// pointers on the Game record, not with the zero value.
type Move uint8

const (
	MoveNone     Move = 0
	MoveRock     Move = 1
	MovePaper    Move = 2
	MoveScissors Move = 3
)

// Valid reports whether m is one of the three playable moves.
func (m Move) Valid() bool {
	return m == MoveRock || m == MovePaper || m == MoveScissors
}

// Beats reports whether m wins against other under the classic cyclic
// dominance: rock beats scissors, scissors beats paper, paper beats rock.
func (m Move) Beats(other Move) bool {
	switch m {
	case MoveRock:
		return other == MoveScissors
	case MoveScissors:
		return other == MovePaper
	case MovePaper:
		return other == MoveRock
	}
	return false
}

// String returns the lowercase move name.
func (m Move) String() string {
	switch m {
	case MoveRock:
		return "rock"
	case MovePaper:
		return "paper"
	case MoveScissors:
		return "scissors"
	default:
		return "none"
	}
}

// MoveFromString parses a lowercase move name. Returns MoveNone for
// anything unrecognised.
func MoveFromString(s string) Move {
	switch s {
	case "rock":
		return MoveRock
	case "paper":
		return MovePaper
	case "scissors":
		return MoveScissors
	default:
		return MoveNone
	}
}

// Phase is the lifecycle state of a game.
type Phase uint8

const (
	// PhaseCreated covers everything before the first commitment of
	// turn 1, including the window where both players have joined but
	// nobody has committed yet.
	PhaseCreated Phase = 0
	// PhaseCommitted is the active match: at least one commitment exists
	// for the current turn, or a turn just advanced.
	PhaseCommitted Phase = 1
	// PhaseRevealed is reserved. A reveal either leaves the game in
	// PhaseCommitted or resolves the turn immediately, so this phase is
	// never actually entered.
	PhaseRevealed Phase = 2
	// PhaseFinished is terminal: the match settled with a winner or tie.
	PhaseFinished Phase = 3
	// PhaseCancelled is terminal: stakes were refunded without a match
	// result.
	PhaseCancelled Phase = 4
)

// Terminal reports whether no further mutation of the game is allowed.
func (p Phase) Terminal() bool {
	return p == PhaseFinished || p == PhaseCancelled
}

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseCommitted:
		return "committed"
	case PhaseRevealed:
		return "revealed"
	case PhaseFinished:
		return "finished"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Side tags which seat of a game an identity occupies.
type Side uint8

const (
	SideA Side = 1
	SideB Side = 2
)

// Opponent returns the other seat.
func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Game is one escrowed commit-reveal contest between two players.
// Optional fields use pointers: nil means "not present yet". Amounts are
// fixed-point with 3 decimal places (1 unit = 1000).
type Game struct {
	ID      uint64  `json:"id"`
	PlayerA string  `json:"player_a"`
	PlayerB *string `json:"player_b,omitempty"` // nil until someone joins

	Stake          uint64 `json:"stake"`          // escrowed per player
	JoinDeadline   int64  `json:"join_deadline"`  // unix seconds
	RevealTimeout  int64  `json:"reveal_timeout"` // seconds per reveal window
	RevealDeadline *int64 `json:"reveal_deadline,omitempty"`

	TotalTurns  uint32 `json:"total_turns"`  // odd, >= 1
	CurrentTurn uint32 `json:"current_turn"` // 1-indexed

	CommitA *string `json:"commit_a,omitempty"` // hex commitment, cleared on reveal
	CommitB *string `json:"commit_b,omitempty"`
	MoveA   *Move   `json:"move_a,omitempty"` // revealed move, cleared on turn advance
	MoveB   *Move   `json:"move_b,omitempty"`

	ScoreA uint32 `json:"score_a"`
	ScoreB uint32 `json:"score_b"`

	Phase     Phase `json:"phase"`
	CreatedAt int64 `json:"created_at"`
}

// SideOf resolves which seat the given identity occupies.
// The second return is false when the identity is not a player.
func (g *Game) SideOf(identity string) (Side, bool) {
	if identity == g.PlayerA {
		return SideA, true
	}
	if g.PlayerB != nil && identity == *g.PlayerB {
		return SideB, true
	}
	return 0, false
}

// Player returns the identity seated at side. Calling this for SideB
// before anyone joined returns the empty string.
func (g *Game) Player(side Side) string {
	if side == SideA {
		return g.PlayerA
	}
	if g.PlayerB != nil {
		return *g.PlayerB
	}
	return ""
}

// Commit returns the stored commitment for side, nil if none this turn.
func (g *Game) Commit(side Side) *string {
	if side == SideA {
		return g.CommitA
	}
	return g.CommitB
}

// SetCommit stores (or clears, with nil) the commitment for side.
func (g *Game) SetCommit(side Side, c *string) {
	if side == SideA {
		g.CommitA = c
	} else {
		g.CommitB = c
	}
}

// Move returns the revealed move for side, nil if not revealed this turn.
func (g *Game) Move(side Side) *Move {
	if side == SideA {
		return g.MoveA
	}
	return g.MoveB
}

// SetMove stores (or clears, with nil) the revealed move for side.
func (g *Game) SetMove(side Side, m *Move) {
	if side == SideA {
		g.MoveA = m
	} else {
		g.MoveB = m
	}
}

// AddScore increments the cumulative turn-win count for side.
func (g *Game) AddScore(side Side) {
	if side == SideA {
		g.ScoreA++
	} else {
		g.ScoreB++
	}
}

// Pot is the total escrowed amount: one stake if the game is still
// waiting for an opponent, two once PlayerB joined.
func (g *Game) Pot() uint64 {
	if g.PlayerB == nil {
		return g.Stake
	}
	return g.Stake * 2
}
