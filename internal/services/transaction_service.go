package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/models"
	"fundledger/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db       *gorm.DB
	protocol *balanceProtocol
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer) TransactionServicer {
	return &transactionService{
		db:       db,
		protocol: newBalanceProtocol(db, accountService),
	}
}

// CreateTransaction records a transaction and, unless it is pending or has no
// account, applies it to the account balance.
func (s *transactionService) CreateTransaction(in TransactionInput) (*models.Transaction, error) {
	if !in.Type.IsValid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}

	accountID := normalizeRef(in.AccountID)
	clientID := normalizeRef(in.ClientID)

	transaction := &models.Transaction{
		Date:        in.Date,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		Category:    in.Category,
		AccountID:   accountID,
		ClientID:    clientID,
		IsPending:   in.IsPending,
	}

	verify := func(tx *gorm.DB) error {
		return checkReferences(tx, accountID, clientID)
	}
	if err := s.protocol.create(transaction, verify); err != nil {
		return nil, err
	}
	return transaction, nil
}

// GetTransactionByID retrieves a transaction with its account and client.
func (s *transactionService) GetTransactionByID(id string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Account").Preload("Client").Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// ListTransactions retrieves a paginated, filtered list of transactions, newest first.
func (s *transactionService) ListTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := applyTransactionFilters(s.db.Model(&models.Transaction{}), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Preload("Account").
		Preload("Client").
		Order("date DESC").
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.IsPending != nil {
		q = q.Where("is_pending = ?", *f.IsPending)
	}
	return q
}

// UpdateTransaction merges fields into the stored transaction, moving its
// balance effect from the old state to the new one.
func (s *transactionService) UpdateTransaction(id string, fields TransactionUpdateFields) (*models.Transaction, error) {
	if fields.Type != nil && !fields.Type.IsValid() {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if fields.Amount != nil {
		if err := validateAmount(*fields.Amount); err != nil {
			return nil, err
		}
	}
	if fields.Date != nil && fields.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date cannot be empty")
	}

	var accountID, clientID *string
	if fields.AccountID != nil {
		accountID = normalizeRef(*fields.AccountID)
	}
	if fields.ClientID != nil {
		clientID = normalizeRef(*fields.ClientID)
	}
	load := func(tx *gorm.DB) (*models.Transaction, error) {
		if err := checkReferences(tx, accountID, clientID); err != nil {
			return nil, err
		}
		return s.loadForUpdate(id)(tx)
	}

	return updateEntry(s.protocol, load, func(t *models.Transaction) {
		if fields.Date != nil {
			t.Date = *fields.Date
		}
		if fields.Type != nil {
			t.Type = *fields.Type
		}
		if fields.Amount != nil {
			t.Amount = *fields.Amount
		}
		if fields.Description != nil {
			t.Description = *fields.Description
		}
		if fields.Category != nil {
			t.Category = *fields.Category
		}
		if fields.AccountID != nil {
			t.AccountID = accountID
		}
		if fields.ClientID != nil {
			t.ClientID = clientID
		}
		if fields.IsPending != nil {
			t.IsPending = *fields.IsPending
		}
	})
}

// MarkTransactionPaid clears the pending flag, applying the transaction to
// its account.
func (s *transactionService) MarkTransactionPaid(id string) (*models.Transaction, error) {
	pending := false
	return s.UpdateTransaction(id, TransactionUpdateFields{IsPending: &pending})
}

// DeleteTransaction reverts the transaction's balance effect and deletes it.
func (s *transactionService) DeleteTransaction(id string) error {
	return deleteEntry(s.protocol, s.loadForUpdate(id))
}

func (s *transactionService) loadForUpdate(id string) loader[*models.Transaction] {
	return func(tx *gorm.DB) (*models.Transaction, error) {
		var transaction models.Transaction
		if err := forUpdate(tx).Where("id = ?", id).First(&transaction).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrTransactionNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &transaction, nil
	}
}

// checkReferences locks the referenced account and client for the rest of
// tx, failing when either does not exist.
func checkReferences(tx *gorm.DB, accountID, clientID *string) error {
	if accountID != nil {
		if err := lockReference[models.Account](tx, apperrors.ErrAccountNotFound, "id = ?", *accountID); err != nil {
			return err
		}
	}
	if clientID != nil {
		if err := lockReference[models.Client](tx, apperrors.ErrClientNotFound, "id = ?", *clientID); err != nil {
			return err
		}
	}
	return nil
}

// amountScale is the number of decimal places money columns store.
const amountScale = 2

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	return validateScale(amount)
}

// validateScale rejects amounts the database would have to round.
func validateScale(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(amountScale)) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot have more than 2 decimal places")
	}
	return nil
}

// normalizeRef treats an empty id the same as no reference.
func normalizeRef(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	ref := *id
	return &ref
}
