package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fundledger/internal/models"
	"fundledger/internal/testutil"
)

// ledgerFixture wires the services that mutate balances against one test
// database holding the Main and Retain accounts.
type ledgerFixture struct {
	db       *gorm.DB
	accounts AccountServicer
	users    UserServicer
	txs      TransactionServicer
	drawings DrawingServicer
	ledger   LedgerServicer
	main     *models.Account
	retain   *models.Account
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	accounts := NewAccountService(db)
	users := NewUserService(db, "partner123")
	main, retain := testutil.CreateDefaultAccounts(t, db)

	return &ledgerFixture{
		db:       db,
		accounts: accounts,
		users:    users,
		txs:      NewTransactionService(db, accounts),
		drawings: NewDrawingService(db, accounts),
		ledger:   NewLedgerService(db),
		main:     main,
		retain:   retain,
	}
}

func (f *ledgerFixture) createTx(t *testing.T, typ models.TransactionType, amount string, accountID *string, pending bool) *models.Transaction {
	t.Helper()

	tx, err := f.txs.CreateTransaction(TransactionInput{
		Date:      time.Now().UTC(),
		Type:      typ,
		Amount:    testutil.Amount(t, amount),
		Category:  "general",
		AccountID: accountID,
		IsPending: pending,
	})
	testutil.AssertNoError(t, err)
	return tx
}

func (f *ledgerFixture) createDrawing(t *testing.T, partnerID, accountID, amount string) *models.PartnerDrawing {
	t.Helper()

	d, err := f.drawings.CreateDrawing(DrawingInput{
		PartnerID: partnerID,
		Amount:    testutil.Amount(t, amount),
		Date:      time.Now().UTC(),
		AccountID: accountID,
	})
	testutil.AssertNoError(t, err)
	return d
}

// assertReconciled fails the test if any stored balance differs from the
// sum of the live entries' effects.
func (f *ledgerFixture) assertReconciled(t *testing.T) {
	t.Helper()

	drifts, err := f.ledger.Reconcile(false)
	testutil.AssertNoError(t, err)
	for _, d := range drifts {
		t.Errorf("account %s drifted: stored %s, expected %s", d.AccountName, d.Stored, d.Expected)
	}
}

func ptr[T any](v T) *T {
	return &v
}

func amountPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d := testutil.Amount(t, s)
	return &d
}
