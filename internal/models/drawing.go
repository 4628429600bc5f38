package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartnerDrawing is cash a partner withdrew from a shared account. The
// withdrawal is neutralised once the partner repays it.
type PartnerDrawing struct {
	Base
	PartnerID string          `gorm:"type:uuid;not null;index" json:"partner_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Date      time.Time       `gorm:"not null;index" json:"date"`
	AccountID string          `gorm:"type:uuid;not null;index" json:"account_id"`
	IsRepaid  bool            `gorm:"not null" json:"is_repaid"`

	// Relationships
	Partner *User    `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	Account *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

// Effect is -amount while outstanding and zero once repaid.
func (d *PartnerDrawing) Effect() Effect {
	delta := d.Amount.Neg()
	if d.IsRepaid {
		delta = delta.Add(d.Amount)
	}
	return Effect{AccountID: d.AccountID, Delta: delta}
}
