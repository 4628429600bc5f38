package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/models"
)

// PartnerDashboard is everything a partner sees on their landing page.
// Salary is nil when none is set for the current month; the accounts are nil
// when they have not been bootstrapped.
type PartnerDashboard struct {
	Expenses           []models.Transaction       `json:"expenses"`
	Drawings           []models.PartnerDrawing    `json:"drawings"`
	Salary             *models.PartnerSalary      `json:"salary"`
	PendingClients     []models.Transaction       `json:"pending_clients"`
	FreelancerPayments []models.FreelancerPayment `json:"freelancer_payments"`
	RetainFund         *models.Account            `json:"retain_fund"`
	MainAccount        *models.Account            `json:"main_account"`
}

// dashboardService assembles the partner dashboard.
type dashboardService struct {
	db             *gorm.DB
	userService    UserServicer
	accountService AccountServicer
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB, userService UserServicer, accountService AccountServicer) DashboardServicer {
	return &dashboardService{db: db, userService: userService, accountService: accountService}
}

// GetPartnerDashboard collects the month of now for the given partner.
// Drawings are those of every partner, newest first.
func (s *dashboardService) GetPartnerDashboard(partnerID string, now time.Time) (*PartnerDashboard, error) {
	if _, err := s.userService.GetPartnerByID(partnerID); err != nil {
		return nil, err
	}

	start, end := MonthBounds(now)
	dash := &PartnerDashboard{}

	if err := s.db.
		Where("type = ? AND date >= ? AND date < ?", models.TransactionTypeExpense, start, end).
		Order("date DESC").
		Find(&dash.Expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Preload("Partner").Order("date DESC").Find(&dash.Drawings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var salary models.PartnerSalary
	err := s.db.Where("partner_id = ? AND month = ? AND year = ?", partnerID, int(now.Month()), now.Year()).First(&salary).Error
	switch {
	case err == nil:
		dash.Salary = &salary
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Preload("Client").
		Where("is_pending = ? AND type = ?", true, models.TransactionTypeIncome).
		Order("date DESC").
		Find(&dash.PendingClients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.
		Where("date >= ? AND date < ?", start, end).
		Order("date DESC").
		Find(&dash.FreelancerPayments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if dash.RetainFund, err = s.optionalAccount(models.AccountRetain); err != nil {
		return nil, err
	}
	if dash.MainAccount, err = s.optionalAccount(models.AccountMain); err != nil {
		return nil, err
	}

	return dash, nil
}

func (s *dashboardService) optionalAccount(name string) (*models.Account, error) {
	account, err := s.accountService.GetAccountByName(name)
	if errors.Is(err, apperrors.ErrAccountNotFound) {
		return nil, nil
	}
	return account, err
}

// MonthBounds returns the first instant of t's month and of the next month,
// in t's location.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}
