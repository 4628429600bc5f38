package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fundledger/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Amount parses s as a decimal and fails the test if it is malformed.
func Amount(t *testing.T, s string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

// CreateTestAccount creates an account with the given name and balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, name string, balance decimal.Decimal) *models.Account {
	t.Helper()

	account := &models.Account{Name: name, Balance: balance}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateDefaultAccounts creates the Main and Retain accounts with zero balance.
func CreateDefaultAccounts(t *testing.T, db *gorm.DB) (main, retain *models.Account) {
	t.Helper()
	main = CreateTestAccount(t, db, models.AccountMain, decimal.Zero)
	retain = CreateTestAccount(t, db, models.AccountRetain, decimal.Zero)
	return main, retain
}

// ReloadAccount reads the account's current row.
func ReloadAccount(t *testing.T, db *gorm.DB, id string) *models.Account {
	t.Helper()

	var account models.Account
	if err := db.Where("id = ?", id).First(&account).Error; err != nil {
		t.Fatalf("failed to reload account %s: %v", id, err)
	}
	return &account
}

// AssertBalance fails the test unless the account's stored balance equals want.
func AssertBalance(t *testing.T, db *gorm.DB, accountID, want string) {
	t.Helper()

	got := ReloadAccount(t, db, accountID).Balance
	if !got.Equal(Amount(t, want)) {
		t.Errorf("account %s: expected balance %s, got %s", accountID, want, got)
	}
}

// CreateTestUser creates a user with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	n := nextID()
	return CreateTestUserWithUsername(t, db, fmt.Sprintf("user%d", n), fmt.Sprintf("User %d", n), role)
}

// CreateTestUserWithUsername creates a user with the given username.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username, name string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hash),
		Role:     role,
		Name:     name,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestPartner creates a user with the partner role.
func CreateTestPartner(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUser(t, db, models.RolePartner)
}

// CreateTestClient creates a client with a unique name.
func CreateTestClient(t *testing.T, db *gorm.DB) *models.Client {
	t.Helper()

	client := &models.Client{Name: fmt.Sprintf("Client %d", nextID())}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}
	return client
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, categoryType models.CategoryType) *models.Category {
	t.Helper()

	category := &models.Category{
		Name: fmt.Sprintf("Test Category %d", nextID()),
		Type: categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateRawTransaction inserts a transaction row without touching any
// balance. Use it to build state that the services did not produce.
func CreateRawTransaction(t *testing.T, db *gorm.DB, tx *models.Transaction) *models.Transaction {
	t.Helper()

	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
