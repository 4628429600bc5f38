package models

import "github.com/shopspring/decimal"

// Effect is the signed amount an entry currently contributes to one account.
// An empty AccountID means the entry touches no account.
type Effect struct {
	AccountID string
	Delta     decimal.Decimal
}

// IsZero reports whether applying the effect would change no balance.
func (e Effect) IsZero() bool {
	return e.AccountID == "" || e.Delta.IsZero()
}

// Negate returns the effect that undoes e.
func (e Effect) Negate() Effect {
	return Effect{AccountID: e.AccountID, Delta: e.Delta.Neg()}
}

// Entry is anything whose state implies a balance effect. Effect must be a
// pure function of the entry's own fields.
type Entry interface {
	Effect() Effect
}
