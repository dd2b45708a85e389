package wallet_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janken-games/janken/core"
	"github.com/janken-games/janken/crypto"
	"github.com/janken-games/janken/wallet"
)

func TestNewCommitmentVerifies(t *testing.T) {
	w, err := wallet.Generate()
	require.NoError(t, err)

	commitment, secret, err := w.NewCommitment(core.MoveScissors)
	require.NoError(t, err)
	assert.Len(t, commitment, 64)
	assert.NotEmpty(t, secret)

	assert.True(t, crypto.VerifyCommitment(commitment, core.MoveScissors, secret))
	assert.False(t, crypto.VerifyCommitment(commitment, core.MoveRock, secret))

	_, _, err = w.NewCommitment(core.MoveNone)
	assert.ErrorIs(t, err, core.ErrBadMove)
}

func TestCommitmentSecretsAreUnique(t *testing.T) {
	w, err := wallet.Generate()
	require.NoError(t, err)

	_, s1, err := w.NewCommitment(core.MoveRock)
	require.NoError(t, err)
	_, s2, err := w.NewCommitment(core.MoveRock)
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)
}

func TestKeystoreRoundTrip(t *testing.T) {
	w, err := wallet.Generate()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "player.key")
	require.NoError(t, wallet.SaveKey(path, "hunter2", w.PrivKey()))

	priv, err := wallet.LoadKey(path, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, w.Address(), wallet.New(priv).Address())

	_, err = wallet.LoadKey(path, "wrong")
	assert.Error(t, err)
}
