package ledger_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janken-games/janken/core"
	"github.com/janken-games/janken/internal/testutil"
	"github.com/janken-games/janken/ledger"
)

func TestUnknownAccountHasZeroBalance(t *testing.T) {
	l := ledger.New(testutil.NewMemDB())
	b, err := l.Balance("nobody")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), b)
}

func TestCreditAndTransfer(t *testing.T) {
	l := ledger.New(testutil.NewMemDB())
	require.NoError(t, l.Credit("alice", 1000))

	require.NoError(t, l.Transfer("alice", "bob", 300))

	a, err := l.Balance("alice")
	require.NoError(t, err)
	b, err := l.Balance("bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(700), a)
	assert.Equal(t, uint64(300), b)
}

func TestTransferInsufficientFundsLeavesBalancesUntouched(t *testing.T) {
	l := ledger.New(testutil.NewMemDB())
	require.NoError(t, l.Credit("alice", 100))

	err := l.Transfer("alice", "bob", 101)
	assert.ErrorIs(t, err, core.ErrInsufficientFunds)

	a, _ := l.Balance("alice")
	b, _ := l.Balance("bob")
	assert.Equal(t, uint64(100), a)
	assert.Equal(t, uint64(0), b)
}

func TestTransferZeroIsNoop(t *testing.T) {
	l := ledger.New(testutil.NewMemDB())
	require.NoError(t, l.Transfer("alice", "bob", 0))
}

func TestTransferToSelfRejected(t *testing.T) {
	l := ledger.New(testutil.NewMemDB())
	require.NoError(t, l.Credit("alice", 100))
	assert.Error(t, l.Transfer("alice", "alice", 50))
}

func TestOverflowGuards(t *testing.T) {
	l := ledger.New(testutil.NewMemDB())
	require.NoError(t, l.Credit("bob", math.MaxUint64))

	assert.ErrorIs(t, l.Credit("bob", 1), core.ErrBalanceOverflow)

	require.NoError(t, l.Credit("alice", 10))
	assert.ErrorIs(t, l.Transfer("alice", "bob", 10), core.ErrBalanceOverflow)
}
