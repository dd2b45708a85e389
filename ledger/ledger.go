// Package ledger provides atomic value custody for the engine: keyed
// accounts with fixed-point balances and a guarded transfer primitive.
// It is the concrete implementation of the value-transfer capability the
// engine depends on; tests may substitute any other implementation.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/janken-games/janken/core"
	"github.com/janken-games/janken/storage"
)

const prefixAccount = "acct:"

// Account holds the balance for one identity. Amounts are fixed-point
// with 3 decimal places, matching the engine's stake units.
type Account struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

// Ledger stores accounts in a storage.DB.
type Ledger struct {
	db storage.DB
}

// New creates a Ledger backed by db.
func New(db storage.DB) *Ledger {
	return &Ledger{db: db}
}

// GetAccount loads an account. Unknown addresses yield a zero-balance
// account rather than an error, so fresh identities just work.
func (l *Ledger) GetAccount(address string) (*Account, error) {
	data, err := l.db.Get([]byte(prefixAccount + address))
	if errors.Is(err, core.ErrNotFound) {
		return &Account{Address: address}, nil
	}
	if err != nil {
		return nil, err
	}
	var acc Account
	if err := json.Unmarshal(data, &acc); err != nil {
		return nil, fmt.Errorf("decode account %q: %w", address, err)
	}
	return &acc, nil
}

// SetAccount persists an account.
func (l *Ledger) SetAccount(acc *Account) error {
	data, err := json.Marshal(acc)
	if err != nil {
		return err
	}
	return l.db.Set([]byte(prefixAccount+acc.Address), data)
}

// Balance returns the current balance of address.
func (l *Ledger) Balance(address string) (uint64, error) {
	acc, err := l.GetAccount(address)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

// Credit mints amount into address. Used only for the one-time genesis
// allocation; everything else moves through Transfer.
func (l *Ledger) Credit(address string, amount uint64) error {
	acc, err := l.GetAccount(address)
	if err != nil {
		return err
	}
	if acc.Balance > math.MaxUint64-amount {
		return fmt.Errorf("credit %q: %w", address, core.ErrBalanceOverflow)
	}
	acc.Balance += amount
	return l.SetAccount(acc)
}

// Transfer moves amount from one account to another. The debit and
// credit are checked before either side is written, so a failed transfer
// leaves both balances untouched.
func (l *Ledger) Transfer(from, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if from == to {
		return fmt.Errorf("transfer from %q to itself", from)
	}
	sender, err := l.GetAccount(from)
	if err != nil {
		return err
	}
	if sender.Balance < amount {
		return fmt.Errorf("transfer from %q: have %d need %d: %w",
			from, sender.Balance, amount, core.ErrInsufficientFunds)
	}
	recipient, err := l.GetAccount(to)
	if err != nil {
		return err
	}
	if recipient.Balance > math.MaxUint64-amount {
		return fmt.Errorf("transfer to %q: %w", to, core.ErrBalanceOverflow)
	}

	sender.Balance -= amount
	recipient.Balance += amount
	if err := l.SetAccount(sender); err != nil {
		return err
	}
	return l.SetAccount(recipient)
}
