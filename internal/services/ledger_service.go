package services

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/logger"
	"fundledger/internal/models"
)

// DrawingCategory is the category every drawing reports in the unified ledger.
const DrawingCategory = "partner_drawing"

// NormalizedEntry is a transaction or a drawing in the shape of the unified
// ledger. The drawing-only fields are omitted for transactions.
type NormalizedEntry struct {
	ID          string                 `json:"id"`
	OriginalID  string                 `json:"original_id"`
	Date        time.Time              `json:"date"`
	Type        models.TransactionType `json:"type"`
	Amount      decimal.Decimal        `json:"amount"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	AccountID   *string                `json:"account_id"`
	Account     *models.Account        `json:"account"`
	ClientID    *string                `json:"client_id"`
	Client      *models.Client         `json:"client"`
	IsPending   bool                   `json:"is_pending"`
	IsDrawing   bool                   `json:"is_drawing"`
	IsRepaid    *bool                  `json:"is_repaid,omitempty"`
	PartnerID   *string                `json:"partner_id,omitempty"`
	Partner     *models.User           `json:"partner,omitempty"`
}

// BalanceDrift reports an account whose stored balance disagrees with the
// sum of its live entries.
type BalanceDrift struct {
	AccountID   string          `json:"account_id"`
	AccountName string          `json:"account_name"`
	Stored      decimal.Decimal `json:"stored"`
	Expected    decimal.Decimal `json:"expected"`
	Difference  decimal.Decimal `json:"difference"`
}

// ledgerService serves reads that span both entry kinds.
type ledgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &ledgerService{db: db}
}

// ListUnified merges transactions and drawings into one feed, newest first.
// Entries with equal dates keep insertion order, transactions before drawings.
func (s *ledgerService) ListUnified(filter LedgerFilter) ([]NormalizedEntry, error) {
	var transactions []models.Transaction
	if err := applyLedgerFilter(s.db, filter).
		Preload("Account").
		Preload("Client").
		Order("created_at ASC").
		Order("id ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var drawings []models.PartnerDrawing
	if err := applyLedgerFilter(s.db, filter).
		Preload("Partner").
		Preload("Account").
		Order("created_at ASC").
		Order("id ASC").
		Find(&drawings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entries := make([]NormalizedEntry, 0, len(transactions)+len(drawings))
	for i := range transactions {
		entries = append(entries, NormalizeTransaction(&transactions[i]))
	}
	for i := range drawings {
		entries = append(entries, NormalizeDrawing(&drawings[i]))
	}

	SortLedger(entries)
	return entries, nil
}

func applyLedgerFilter(q *gorm.DB, f LedgerFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	return q
}

// NormalizeTransaction converts a transaction into a ledger entry.
func NormalizeTransaction(t *models.Transaction) NormalizedEntry {
	return NormalizedEntry{
		ID:          t.ID,
		OriginalID:  t.ID,
		Date:        t.Date,
		Type:        t.Type,
		Amount:      t.Amount,
		Description: t.Description,
		Category:    t.Category,
		AccountID:   t.AccountID,
		Account:     t.Account,
		ClientID:    t.ClientID,
		Client:      t.Client,
		IsPending:   t.IsPending,
	}
}

// NormalizeDrawing converts a drawing into a ledger entry. Drawings always
// read as non-pending expenses; repayment is reported separately.
func NormalizeDrawing(d *models.PartnerDrawing) NormalizedEntry {
	partnerName := "Unknown"
	if d.Partner != nil {
		partnerName = d.Partner.Name
	}
	accountID := d.AccountID
	partnerID := d.PartnerID
	repaid := d.IsRepaid

	return NormalizedEntry{
		ID:          d.ID,
		OriginalID:  d.ID,
		Date:        d.Date,
		Type:        models.TransactionTypeExpense,
		Amount:      d.Amount,
		Description: "Partner Drawing - " + partnerName,
		Category:    DrawingCategory,
		AccountID:   &accountID,
		Account:     d.Account,
		IsDrawing:   true,
		IsRepaid:    &repaid,
		PartnerID:   &partnerID,
		Partner:     d.Partner,
	}
}

// SortLedger orders entries by date, newest first, keeping the relative
// order of entries with equal dates.
func SortLedger(entries []NormalizedEntry) {
	slices.SortStableFunc(entries, func(a, b NormalizedEntry) int {
		return b.Date.Compare(a.Date)
	})
}

// Reconcile recomputes every account balance from the live entries and
// reports the accounts whose stored balance differs. With fix set, the
// stored balances are overwritten with the recomputed ones.
func (s *ledgerService) Reconcile(fix bool) ([]BalanceDrift, error) {
	drifts := []BalanceDrift{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var accounts []models.Account
		if err := forUpdate(tx).Order("name ASC").Find(&accounts).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		expected, err := expectedBalances(tx)
		if err != nil {
			return err
		}

		for i := range accounts {
			account := &accounts[i]
			want := expected[account.ID]
			if account.Balance.Equal(want) {
				continue
			}

			drifts = append(drifts, BalanceDrift{
				AccountID:   account.ID,
				AccountName: account.Name,
				Stored:      account.Balance,
				Expected:    want,
				Difference:  account.Balance.Sub(want),
			})

			if !fix {
				continue
			}
			if err := tx.Model(account).Update("balance", want).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			logger.Get().Warnw("account balance corrected",
				"account_id", account.ID,
				"account", account.Name,
				"stored", account.Balance.String(),
				"expected", want.String(),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return drifts, nil
}

// expectedBalances sums the effects of all live entries per account.
func expectedBalances(tx *gorm.DB) (map[string]decimal.Decimal, error) {
	var transactions []models.Transaction
	if err := tx.Where("is_pending = ? AND account_id IS NOT NULL", false).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var drawings []models.PartnerDrawing
	if err := tx.Find(&drawings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	balances := make(map[string]decimal.Decimal)
	add := func(e models.Effect) {
		if e.IsZero() {
			return
		}
		balances[e.AccountID] = balances[e.AccountID].Add(e.Delta)
	}
	for i := range transactions {
		add(transactions[i].Effect())
	}
	for i := range drawings {
		add(drawings[i].Effect())
	}
	return balances, nil
}
