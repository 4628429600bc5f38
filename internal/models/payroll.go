package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartnerSalary is the salary owed to a partner for one calendar month.
type PartnerSalary struct {
	Base
	PartnerID string          `gorm:"type:uuid;not null;uniqueIndex:idx_partner_salary_period" json:"partner_id"`
	Month     int             `gorm:"not null;uniqueIndex:idx_partner_salary_period" json:"month"`
	Year      int             `gorm:"not null;uniqueIndex:idx_partner_salary_period" json:"year"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	IsPaid    bool            `gorm:"not null" json:"is_paid"`
}

// FreelancerPayment records money paid to an outside contractor.
type FreelancerPayment struct {
	Base
	Name        string          `gorm:"not null" json:"name"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `json:"description"`
}
