package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/janken-games/janken/core"
)

// TestCommitmentRoundTrip verifies that every (move, secret) pair
// validates against its own commitment and nothing else.
func TestCommitmentRoundTrip(t *testing.T) {
	moves := []core.Move{core.MoveRock, core.MovePaper, core.MoveScissors}
	secrets := []string{"", "s", "a longer secret with spaces", "0123456789abcdef"}

	for _, m := range moves {
		for _, sec := range secrets {
			c := MoveCommitment(m, sec)
			if len(c) != 64 {
				t.Fatalf("commitment length: got %d want 64", len(c))
			}
			if !VerifyCommitment(c, m, sec) {
				t.Errorf("commitment for (%s, %q) failed to verify", m, sec)
			}
			// Any other move with the same secret must fail.
			for _, other := range moves {
				if other != m && VerifyCommitment(c, other, sec) {
					t.Errorf("commitment for %s verified with %s", m, other)
				}
			}
			// Same move with a different secret must fail.
			if VerifyCommitment(c, m, sec+"x") {
				t.Errorf("commitment for (%s, %q) verified with wrong secret", m, sec)
			}
		}
	}
}

// TestCommitmentPreimage pins the documented preimage format:
// sha256(moveDigit || secret).
func TestCommitmentPreimage(t *testing.T) {
	h := sha256.Sum256([]byte("2hunter2"))
	want := hex.EncodeToString(h[:])
	got := MoveCommitment(core.MovePaper, "hunter2")
	if got != want {
		t.Errorf("commitment preimage format changed: got %s want %s", got, want)
	}
}

func TestKeyGenAndAddress(t *testing.T) {
	priv, pub, err := GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	addr := pub.Address()
	if len(addr) != 40 {
		t.Errorf("address length: got %d want 40", len(addr))
	}
	if priv.Public().Hex() != pub.Hex() {
		t.Error("derived public key does not match")
	}

	roundTripped, err := PrivKeyFromHex(priv.Hex())
	if err != nil {
		t.Fatalf("PrivKeyFromHex: %v", err)
	}
	if roundTripped.Public().Address() != addr {
		t.Error("address changed after hex round trip")
	}
}
