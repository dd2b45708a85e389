package core

import "errors"

// ErrNotFound is returned when a stored record does not exist.
var ErrNotFound = errors.New("not found")

// Input-validation errors: rejected before any state mutation.
var (
	ErrBadTurnCount  = errors.New("total turns must be an odd positive number")
	ErrStakeTooLow   = errors.New("stake below configured minimum")
	ErrBadTimeout    = errors.New("timeout duration below floor")
	ErrBadMove       = errors.New("invalid move")
	ErrBadIdentity   = errors.New("identity must not be empty")
	ErrBadCommitment = errors.New("commitment must be a 64-char hex string")
)

// Authorization errors: wrong caller for the operation.
var (
	ErrNotAdmin   = errors.New("caller is not the admin")
	ErrNotCreator = errors.New("caller is not the game creator")
	ErrNotPlayer  = errors.New("caller is not a player of this game")
	ErrSelfJoin   = errors.New("creator cannot join their own game")
)

// Phase errors: operation invalid for the game's current phase.
var (
	ErrWrongPhase       = errors.New("operation invalid in current phase")
	ErrAlreadyCommitted = errors.New("already committed this turn")
	ErrAlreadyRevealed  = errors.New("already revealed this turn")
	ErrRevealStarted    = errors.New("reveal already started this turn")
	ErrCommitsPending   = errors.New("both players must commit first")
	ErrOpponentRevealed = errors.New("opponent revealed; forfeit not claimable")
	ErrNoOpponent       = errors.New("no opponent has joined")
)

// Temporal errors: deadline not yet reached or already passed.
var (
	ErrDeadlinePassed     = errors.New("deadline has passed")
	ErrDeadlineNotReached = errors.New("deadline not reached yet")
)

// Cryptographic-verification errors.
var ErrCommitMismatch = errors.New("reveal does not match commitment")

// Value errors surfaced by the ledger and settlement paths.
var (
	ErrStakeMismatch     = errors.New("stake does not match creator's stake")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrInsufficientFees  = errors.New("amount exceeds accrued fees")
	ErrBalanceOverflow   = errors.New("balance overflow")
)
