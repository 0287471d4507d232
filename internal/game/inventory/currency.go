package inventory

import (
	"errors"
	"fmt"
)

// ErrInsufficientGold is returned when a Spend exceeds the balance.
var ErrInsufficientGold = errors.New("inventory: insufficient gold")

// Wallet holds the party's gold.
// Invariant: Gold() >= 0.
type Wallet struct {
	gold int
}

// NewWallet creates a Wallet holding gold.
//
// Precondition: gold >= 0.
func NewWallet(gold int) *Wallet {
	return &Wallet{gold: max(0, gold)}
}

// Gold returns the current balance.
func (w *Wallet) Gold() int { return w.gold }

// Earn adds amount to the balance. Negative amounts are ignored.
func (w *Wallet) Earn(amount int) {
	if amount > 0 {
		w.gold += amount
	}
}

// Spend removes amount from the balance.
//
// Postcondition: on error the balance is unchanged.
func (w *Wallet) Spend(amount int) error {
	if amount < 0 {
		return fmt.Errorf("inventory: cannot spend negative amount %d", amount)
	}
	if amount > w.gold {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientGold, amount, w.gold)
	}
	w.gold -= amount
	return nil
}

// FormatGold returns a human-readable gold amount using singular/plural forms.
func FormatGold(amount int) string {
	if amount == 1 {
		return "1 gold piece"
	}
	return fmt.Sprintf("%d gold pieces", amount)
}
