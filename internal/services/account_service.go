package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/logger"
	"fundledger/internal/models"
)

// accountService is the account store.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// ListAccounts returns every account ordered by name.
func (s *accountService) ListAccounts() ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Order("name ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// GetAccountByID retrieves an account by its surrogate id.
func (s *accountService) GetAccountByID(id string) (*models.Account, error) {
	return s.findAccount(s.db.Where("id = ?", id))
}

// GetAccountByName retrieves an account by its unique name.
func (s *accountService) GetAccountByName(name string) (*models.Account, error) {
	return s.findAccount(s.db.Where("name = ?", name))
}

func (s *accountService) findAccount(q *gorm.DB) (*models.Account, error) {
	var account models.Account
	if err := q.First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// AdjustBalance adds delta to the account's balance within tx. The row is
// locked for the rest of tx so concurrent adjustments serialise instead of
// losing updates.
func (s *accountService) AdjustBalance(tx *gorm.DB, accountID string, delta decimal.Decimal) (*models.Account, error) {
	var account models.Account
	if err := forUpdate(tx).Where("id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	account.Balance = account.Balance.Add(delta)
	if err := tx.Model(&account).Update("balance", account.Balance).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Debugw("account balance adjusted",
		"account_id", account.ID,
		"account", account.Name,
		"delta", delta.String(),
		"balance", account.Balance.String(),
	)
	return &account, nil
}

// EnsureDefaultAccounts creates the bootstrap accounts that do not exist yet.
// Existing accounts keep their balance.
func (s *accountService) EnsureDefaultAccounts() ([]models.Account, error) {
	accounts := make([]models.Account, 0, len(models.DefaultAccountNames()))
	for _, name := range models.DefaultAccountNames() {
		account := models.Account{Name: name}
		if err := s.db.Where(models.Account{Name: name}).FirstOrCreate(&account).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}
