package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fundledger/internal/models"
	"fundledger/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	AttemptLogin(username, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	GetPartnerByID(id string) (*models.User, error)
	CreatePartner(name string) (*models.User, error)
	ListPartners() ([]models.User, error)
	EnsureAdmin(username, password, name string) (*models.User, error)
}

// AccountServicer defines the contract for the account store.
type AccountServicer interface {
	ListAccounts() ([]models.Account, error)
	GetAccountByID(id string) (*models.Account, error)
	GetAccountByName(name string) (*models.Account, error)
	AdjustBalance(tx *gorm.DB, accountID string, delta decimal.Decimal) (*models.Account, error)
	EnsureDefaultAccounts() ([]models.Account, error)
}

// TransactionInput carries the fields of a new transaction.
type TransactionInput struct {
	Date        time.Time
	Type        models.TransactionType
	Amount      decimal.Decimal
	Description string
	Category    string
	AccountID   *string
	ClientID    *string
	IsPending   bool
}

// TransactionUpdateFields holds the fields of a partial transaction update.
// A nil field keeps its stored value. AccountID and ClientID are doubly
// indirect so that a caller can clear them: a non-nil pointer to nil clears.
type TransactionUpdateFields struct {
	Date        *time.Time
	Type        *models.TransactionType
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	AccountID   **string
	ClientID    **string
	IsPending   *bool
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Type      *models.TransactionType
	Category  *string
	AccountID *string
	ClientID  *string
	IsPending *bool
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(in TransactionInput) (*models.Transaction, error)
	GetTransactionByID(id string) (*models.Transaction, error)
	ListTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	UpdateTransaction(id string, fields TransactionUpdateFields) (*models.Transaction, error)
	MarkTransactionPaid(id string) (*models.Transaction, error)
	DeleteTransaction(id string) error
}

// DrawingInput carries the fields of a new partner drawing.
type DrawingInput struct {
	PartnerID string
	Amount    decimal.Decimal
	Date      time.Time
	AccountID string
	IsRepaid  bool
}

// DrawingUpdateFields holds the fields of a partial drawing update.
type DrawingUpdateFields struct {
	Amount    *decimal.Decimal
	Date      *time.Time
	AccountID *string
	IsRepaid  *bool
}

// DrawingServicer defines the contract for partner drawings.
type DrawingServicer interface {
	CreateDrawing(in DrawingInput) (*models.PartnerDrawing, error)
	GetDrawingByID(id string) (*models.PartnerDrawing, error)
	ListDrawings(page pagination.PageRequest, partnerID *string) (*pagination.PageResponse[models.PartnerDrawing], error)
	UpdateDrawing(id string, fields DrawingUpdateFields) (*models.PartnerDrawing, error)
	SetDrawingRepaid(id string, repaid bool) (*models.PartnerDrawing, error)
	DeleteDrawing(id string) error
}

// LedgerFilter restricts the unified ledger to a date range.
type LedgerFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
}

// LedgerServicer defines the contract for cross-entry reads.
type LedgerServicer interface {
	ListUnified(filter LedgerFilter) ([]NormalizedEntry, error)
	Reconcile(fix bool) ([]BalanceDrift, error)
}

// ClientServicer defines the contract for client lookups.
type ClientServicer interface {
	CreateClient(name string) (*models.Client, error)
	ListClients() ([]models.Client, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(name string, categoryType models.CategoryType, icon string) (*models.Category, error)
	ListCategories(categoryType *models.CategoryType) ([]models.Category, error)
}

// PayrollServicer defines the contract for partner salaries and freelancer payments.
type PayrollServicer interface {
	SetPartnerSalary(partnerID string, month, year int, amount decimal.Decimal, isPaid bool) (*models.PartnerSalary, error)
	RecordFreelancerPayment(name string, amount decimal.Decimal, date time.Time, description string) (*models.FreelancerPayment, error)
}

// DashboardServicer defines the contract for the partner dashboard.
type DashboardServicer interface {
	GetPartnerDashboard(partnerID string, now time.Time) (*PartnerDashboard, error)
}
