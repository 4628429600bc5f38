package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/models"
)

// payrollService records partner salaries and freelancer payments. Neither
// touches account balances.
type payrollService struct {
	db          *gorm.DB
	userService UserServicer
}

// NewPayrollService creates a new PayrollServicer.
func NewPayrollService(db *gorm.DB, userService UserServicer) PayrollServicer {
	return &payrollService{db: db, userService: userService}
}

// SetPartnerSalary creates or replaces the partner's salary for one month.
func (s *payrollService) SetPartnerSalary(partnerID string, month, year int, amount decimal.Decimal, isPaid bool) (*models.PartnerSalary, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}
	if year < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "year must be positive")
	}
	if amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "salary cannot be negative")
	}
	if err := validateScale(amount); err != nil {
		return nil, err
	}
	if _, err := s.userService.GetPartnerByID(partnerID); err != nil {
		return nil, err
	}

	salary := &models.PartnerSalary{
		PartnerID: partnerID,
		Month:     month,
		Year:      year,
		Amount:    amount,
		IsPaid:    isPaid,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "partner_id"}, {Name: "month"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "is_paid", "updated_at"}),
	}).Create(salary).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// On conflict the generated id is not the stored one.
	var stored models.PartnerSalary
	if err := s.db.Where("partner_id = ? AND month = ? AND year = ?", partnerID, month, year).First(&stored).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stored, nil
}

// RecordFreelancerPayment stores a payment to an outside contractor.
func (s *payrollService) RecordFreelancerPayment(name string, amount decimal.Decimal, date time.Time, description string) (*models.FreelancerPayment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "freelancer name is required")
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}

	payment := &models.FreelancerPayment{
		Name:        name,
		Amount:      amount,
		Date:        date,
		Description: description,
	}
	if err := s.db.Create(payment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return payment, nil
}
