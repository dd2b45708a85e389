package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoveBeats(t *testing.T) {
	wins := map[Move]Move{
		MoveRock:     MoveScissors,
		MoveScissors: MovePaper,
		MovePaper:    MoveRock,
	}
	for m, loser := range wins {
		assert.True(t, m.Beats(loser), "%s should beat %s", m, loser)
		assert.False(t, loser.Beats(m))
		assert.False(t, m.Beats(m))
	}
	assert.False(t, MoveNone.Beats(MoveRock))
	assert.False(t, MoveRock.Beats(MoveNone))
}

func TestMoveValid(t *testing.T) {
	assert.False(t, MoveNone.Valid())
	assert.True(t, MoveRock.Valid())
	assert.True(t, MovePaper.Valid())
	assert.True(t, MoveScissors.Valid())
	assert.False(t, Move(4).Valid())
}

func TestMoveStringRoundTrip(t *testing.T) {
	for _, m := range []Move{MoveRock, MovePaper, MoveScissors} {
		assert.Equal(t, m, MoveFromString(m.String()))
	}
	assert.Equal(t, MoveNone, MoveFromString("lizard"))
}

func TestPhaseTerminal(t *testing.T) {
	assert.False(t, PhaseCreated.Terminal())
	assert.False(t, PhaseCommitted.Terminal())
	assert.True(t, PhaseFinished.Terminal())
	assert.True(t, PhaseCancelled.Terminal())
}

func TestGameSideOf(t *testing.T) {
	bob := "bob"
	g := &Game{PlayerA: "alice"}

	side, ok := g.SideOf("alice")
	assert.True(t, ok)
	assert.Equal(t, SideA, side)

	_, ok = g.SideOf("bob")
	assert.False(t, ok)

	g.PlayerB = &bob
	side, ok = g.SideOf("bob")
	assert.True(t, ok)
	assert.Equal(t, SideB, side)
	assert.Equal(t, SideA, side.Opponent())
}

func TestGamePot(t *testing.T) {
	bob := "bob"
	g := &Game{PlayerA: "alice", Stake: 500}
	assert.Equal(t, uint64(500), g.Pot())
	g.PlayerB = &bob
	assert.Equal(t, uint64(1000), g.Pot())
}

func TestGameSideAccessors(t *testing.T) {
	g := &Game{PlayerA: "alice"}
	c := "deadbeef"
	m := MovePaper

	g.SetCommit(SideB, &c)
	assert.Nil(t, g.Commit(SideA))
	assert.Equal(t, &c, g.Commit(SideB))

	g.SetMove(SideA, &m)
	assert.Equal(t, &m, g.Move(SideA))
	assert.Nil(t, g.Move(SideB))

	g.AddScore(SideA)
	g.AddScore(SideA)
	g.AddScore(SideB)
	assert.Equal(t, uint32(2), g.ScoreA)
	assert.Equal(t, uint32(1), g.ScoreB)
}
