package models

import "github.com/shopspring/decimal"

// Names of the accounts every installation starts with.
const (
	AccountMain   = "Main"
	AccountRetain = "Retain"
)

// DefaultAccountNames returns the accounts created at bootstrap.
func DefaultAccountNames() []string {
	return []string{AccountMain, AccountRetain}
}

// Account is a named balance bucket shared by the business.
// Balance is only ever changed by the ledger services.
type Account struct {
	Base
	Name    string          `gorm:"uniqueIndex;not null" json:"name"`
	Balance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"balance"`
}
