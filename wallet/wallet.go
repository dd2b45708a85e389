package wallet

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/janken-games/janken/core"
	"github.com/janken-games/janken/crypto"
)

// Wallet holds a key pair and the commit-reveal helpers a player needs.
type Wallet struct {
	priv crypto.PrivateKey
	pub  crypto.PublicKey
}

// New creates a Wallet from an existing private key.
func New(priv crypto.PrivateKey) *Wallet {
	return &Wallet{priv: priv, pub: priv.Public()}
}

// Generate creates a Wallet with a freshly generated key pair.
func Generate() (*Wallet, error) {
	priv, _, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return New(priv), nil
}

// PrivKey returns the raw private key (handle with care).
func (w *Wallet) PrivKey() crypto.PrivateKey {
	return w.priv
}

// PubKey returns the hex-encoded ed25519 public key.
func (w *Wallet) PubKey() string {
	return w.pub.Hex()
}

// Address returns the identity used as the player address (first 20
// bytes of SHA-256(pubkey), hex).
func (w *Wallet) Address() string {
	return w.pub.Address()
}

// NewCommitment draws a fresh random secret and returns it together
// with the commitment for move. The secret must be kept until the
// reveal.
func (w *Wallet) NewCommitment(move core.Move) (commitment, secret string, err error) {
	if !move.Valid() {
		return "", "", fmt.Errorf("move %d: %w", move, core.ErrBadMove)
	}
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	secret = hex.EncodeToString(raw)
	return crypto.MoveCommitment(move, secret), secret, nil
}
