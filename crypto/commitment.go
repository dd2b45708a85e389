// Package crypto provides the move-commitment scheme and player identity
// keys for the janken engine.
package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/janken-games/janken/core"
)

// Hash returns the SHA-256 hash of data as a lowercase hex string.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// HashBytes returns the raw SHA-256 bytes of data.
func HashBytes(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// MoveCommitment computes the one-way commitment binding a player to a
// move before the reveal. The preimage is the move's decimal digit
// ("1"=rock, "2"=paper, "3"=scissors) concatenated with the secret, so a
// player can reproduce it with any SHA-256 tool:
//
//	sha256("2" + "my secret")  ->  commitment for paper
func MoveCommitment(move core.Move, secret string) string {
	buf := make([]byte, 0, 1+len(secret))
	buf = append(buf, byte('0'+move))
	buf = append(buf, secret...)
	return Hash(buf)
}

// VerifyCommitment reports whether (move, secret) is the preimage of
// commitment. Comparison is constant-time; commitments are public but the
// reveal call path should not leak match prefixes either way.
func VerifyCommitment(commitment string, move core.Move, secret string) bool {
	computed := MoveCommitment(move, secret)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(commitment)) == 1
}
