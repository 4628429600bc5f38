package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Transaction is an income or expense recorded by an admin. Account and
// client are weak references and may be empty.
type Transaction struct {
	Base
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Type        TransactionType `gorm:"type:varchar(16);not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Description string          `json:"description"`
	Category    string          `gorm:"index" json:"category"`
	AccountID   *string         `gorm:"type:uuid;index" json:"account_id"`
	ClientID    *string         `gorm:"type:uuid;index" json:"client_id"`
	IsPending   bool            `gorm:"not null" json:"is_pending"`

	// Relationships
	Account *Account `gorm:"foreignKey:AccountID;constraint:OnDelete:SET NULL" json:"account,omitempty"`
	Client  *Client  `gorm:"foreignKey:ClientID;constraint:OnDelete:SET NULL" json:"client,omitempty"`
}

// Effect is zero while the transaction is pending or has no account;
// otherwise income adds and expense subtracts the amount.
func (t *Transaction) Effect() Effect {
	if t.IsPending || t.AccountID == nil || *t.AccountID == "" {
		return Effect{}
	}
	delta := t.Amount
	if t.Type == TransactionTypeExpense {
		delta = delta.Neg()
	}
	return Effect{AccountID: *t.AccountID, Delta: delta}
}
