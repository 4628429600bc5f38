package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/models"
	"fundledger/internal/pagination"
	"fundledger/internal/services"
)

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn func(in services.TransactionInput) (*models.Transaction, error)
	getTransactionFn    func(id string) (*models.Transaction, error)
	listTransactionsFn  func(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	updateTransactionFn func(id string, fields services.TransactionUpdateFields) (*models.Transaction, error)
	markPaidFn          func(id string) (*models.Transaction, error)
	deleteTransactionFn func(id string) error
}

func (m *mockTransactionService) CreateTransaction(in services.TransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransactionByID(id string) (*models.Transaction, error) {
	if m.getTransactionFn != nil {
		return m.getTransactionFn(id)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) ListTransactions(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) UpdateTransaction(id string, fields services.TransactionUpdateFields) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(id, fields)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) MarkTransactionPaid(id string) (*models.Transaction, error) {
	if m.markPaidFn != nil {
		return m.markPaidFn(id)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(id string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(id)
	}
	return nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUser(testUserID, models.RoleAdmin))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.ListTransactions)
	auth.GET("/transactions/:id", handler.GetTransactionByID)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.POST("/transactions/:id/paid", handler.MarkTransactionPaid)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.TransactionInput
		txSvc := &mockTransactionService{
			createTransactionFn: func(in services.TransactionInput) (*models.Transaction, error) {
				got = in
				return &models.Transaction{Base: models.Base{ID: testEntryID}, Type: in.Type, Amount: in.Amount, AccountID: in.AccountID}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "POST", "/transactions",
			`{"date":"2024-03-05","type":"INCOME","amount":"125.50","description":"Invoice 12","account_id":"`+testAccountID+`"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Amount.Equal(decimal.RequireFromString("125.5")) {
			t.Errorf("expected amount 125.50, got %s", got.Amount)
		}
		if !got.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected date %v", got.Date)
		}
		if got.AccountID == nil || *got.AccountID != testAccountID {
			t.Errorf("unexpected account %v", got.AccountID)
		}
		if got.IsPending {
			t.Error("is_pending should default to false")
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["id"] != testEntryID {
			t.Errorf("unexpected id %v", tx["id"])
		}
	})

	t.Run("accepts numeric amounts", func(t *testing.T) {
		var got decimal.Decimal
		txSvc := &mockTransactionService{
			createTransactionFn: func(in services.TransactionInput) (*models.Transaction, error) {
				got = in.Amount
				return &models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "POST", "/transactions", `{"date":"2024-03-05","type":"EXPENSE","amount":19.99}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Equal(decimal.RequireFromString("19.99")) {
			t.Errorf("expected 19.99, got %s", got)
		}
	})

	bad := []struct {
		name string
		body string
	}{
		{"missing amount", `{"date":"2024-03-05","type":"INCOME"}`},
		{"malformed amount", `{"date":"2024-03-05","type":"INCOME","amount":"12,50"}`},
		{"unknown type", `{"date":"2024-03-05","type":"TRANSFER","amount":"1"}`},
		{"lowercase type", `{"date":"2024-03-05","type":"income","amount":"1"}`},
		{"missing date", `{"type":"INCOME","amount":"1"}`},
		{"malformed date", `{"date":"05/03/2024","type":"INCOME","amount":"1"}`},
		{"sub-cent amount", `{"date":"2024-03-05","type":"EXPENSE","amount":"0.005"}`},
		{"three decimal amount", `{"date":"2024-03-05","type":"INCOME","amount":10.015}`},
		{"malformed account", `{"date":"2024-03-05","type":"INCOME","amount":"1","account_id":"abc"}`},
		{"malformed client", `{"date":"2024-03-05","type":"INCOME","amount":"1","client_id":"abc"}`},
	}
	for _, tc := range bad {
		t.Run("returns 400 on "+tc.name, func(t *testing.T) {
			txSvc := &mockTransactionService{
				createTransactionFn: func(services.TransactionInput) (*models.Transaction, error) {
					t.Error("service must not be called")
					return nil, nil
				},
			}
			r := setupTransactionRouter(NewTransactionHandler(txSvc))

			rec := doRequest(r, "POST", "/transactions", tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 404 on unknown account", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrAccountNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "POST", "/transactions", `{"date":"2024-03-05","type":"INCOME","amount":"1","account_id":"`+testAccountID+`"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACCOUNT_NOT_FOUND")
	})
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	t.Run("parses pagination and filters", func(t *testing.T) {
		var gotPage pagination.PageRequest
		var gotFilter services.TransactionFilter
		txSvc := &mockTransactionService{
			listTransactionsFn: func(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotPage, gotFilter = page, filter
				resp := pagination.NewPageResponse([]models.Transaction{{Base: models.Base{ID: testEntryID}}}, 2, 5, 6)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "GET", "/transactions?page=2&page_size=5&type=EXPENSE&is_pending=true&category=rent&account_id="+testAccountID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotPage.Page != 2 || gotPage.PageSize != 5 {
			t.Errorf("unexpected page %+v", gotPage)
		}
		if gotFilter.Type == nil || *gotFilter.Type != models.TransactionTypeExpense {
			t.Errorf("unexpected type filter %v", gotFilter.Type)
		}
		if gotFilter.IsPending == nil || !*gotFilter.IsPending {
			t.Error("expected is_pending=true filter")
		}
		if gotFilter.Category == nil || *gotFilter.Category != "rent" {
			t.Errorf("unexpected category filter %v", gotFilter.Category)
		}
		if gotFilter.AccountID == nil || *gotFilter.AccountID != testAccountID {
			t.Errorf("unexpected account filter %v", gotFilter.AccountID)
		}
		result := parseJSON(t, rec)
		if result["total_pages"] != float64(2) {
			t.Errorf("expected 2 pages, got %v", result["total_pages"])
		}
	})

	t.Run("rejects unknown type filter", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "GET", "/transactions?type=TRANSFER", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_TRANSACTION_TYPE")
	})

	for _, key := range []string{"account_id", "client_id"} {
		t.Run("rejects malformed "+key, func(t *testing.T) {
			txSvc := &mockTransactionService{
				listTransactionsFn: func(pagination.PageRequest, services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
					t.Error("service must not be called")
					return nil, nil
				},
			}
			r := setupTransactionRouter(NewTransactionHandler(txSvc))

			rec := doRequest(r, "GET", "/transactions?"+key+"=abc", "")

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("rejects oversized pages", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "GET", "/transactions?page_size=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("omitted fields stay nil", func(t *testing.T) {
		var got services.TransactionUpdateFields
		txSvc := &mockTransactionService{
			updateTransactionFn: func(id string, fields services.TransactionUpdateFields) (*models.Transaction, error) {
				if id != testEntryID {
					t.Errorf("unexpected id %s", id)
				}
				got = fields
				return &models.Transaction{Base: models.Base{ID: id}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "PUT", "/transactions/"+testEntryID, `{"amount":"80"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount == nil || !got.Amount.Equal(decimal.NewFromInt(80)) {
			t.Errorf("unexpected amount %v", got.Amount)
		}
		if got.AccountID != nil || got.ClientID != nil || got.Type != nil || got.Date != nil || got.IsPending != nil {
			t.Errorf("expected untouched fields to be nil: %+v", got)
		}
	})

	t.Run("null clears a reference", func(t *testing.T) {
		var got services.TransactionUpdateFields
		txSvc := &mockTransactionService{
			updateTransactionFn: func(_ string, fields services.TransactionUpdateFields) (*models.Transaction, error) {
				got = fields
				return &models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "PUT", "/transactions/"+testEntryID, `{"account_id":null,"client_id":"`+testPartnerID+`"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.AccountID == nil || *got.AccountID != nil {
			t.Errorf("expected account to be cleared, got %v", got.AccountID)
		}
		if got.ClientID == nil || *got.ClientID == nil || **got.ClientID != testPartnerID {
			t.Errorf("expected client to be set, got %v", got.ClientID)
		}
	})

	t.Run("parses a new date", func(t *testing.T) {
		var got services.TransactionUpdateFields
		txSvc := &mockTransactionService{
			updateTransactionFn: func(_ string, fields services.TransactionUpdateFields) (*models.Transaction, error) {
				got = fields
				return &models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "PUT", "/transactions/"+testEntryID, `{"date":"2024-04-01T10:00:00Z","is_pending":false}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.Date == nil || !got.Date.Equal(time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected date %v", got.Date)
		}
		if got.IsPending == nil || *got.IsPending {
			t.Errorf("expected is_pending=false, got %v", got.IsPending)
		}
	})

	t.Run("empty string clears a reference", func(t *testing.T) {
		var got services.TransactionUpdateFields
		txSvc := &mockTransactionService{
			updateTransactionFn: func(_ string, fields services.TransactionUpdateFields) (*models.Transaction, error) {
				got = fields
				return &models.Transaction{}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "PUT", "/transactions/"+testEntryID, `{"client_id":""}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.ClientID == nil || *got.ClientID == nil || **got.ClientID != "" {
			t.Errorf("expected client to be cleared, got %v", got.ClientID)
		}
	})

	rejected := []struct {
		name string
		body string
	}{
		{"malformed account", `{"account_id":"abc"}`},
		{"malformed client", `{"client_id":"abc"}`},
		{"sub-cent amount", `{"amount":"0.005"}`},
		{"three decimal amount", `{"amount":"10.015"}`},
	}
	for _, tc := range rejected {
		t.Run("returns 400 on "+tc.name, func(t *testing.T) {
			txSvc := &mockTransactionService{
				updateTransactionFn: func(string, services.TransactionUpdateFields) (*models.Transaction, error) {
					t.Error("service must not be called")
					return nil, nil
				},
			}
			r := setupTransactionRouter(NewTransactionHandler(txSvc))

			rec := doRequest(r, "PUT", "/transactions/"+testEntryID, tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 400 on invalid id", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}))

		rec := doRequest(r, "PUT", "/transactions/42", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		txSvc := &mockTransactionService{
			updateTransactionFn: func(string, services.TransactionUpdateFields) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "PUT", "/transactions/"+testEntryID, `{"description":"x"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}

func TestTransactionHandler_MarkPaidAndDelete(t *testing.T) {
	t.Run("mark paid returns the transaction", func(t *testing.T) {
		txSvc := &mockTransactionService{
			markPaidFn: func(id string) (*models.Transaction, error) {
				return &models.Transaction{Base: models.Base{ID: id}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "POST", "/transactions/"+testEntryID+"/paid", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["is_pending"] != false {
			t.Errorf("expected is_pending=false, got %v", tx["is_pending"])
		}
	})

	t.Run("delete returns 200", func(t *testing.T) {
		var deleted string
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(id string) error {
				deleted = id
				return nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "DELETE", "/transactions/"+testEntryID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if deleted != testEntryID {
			t.Errorf("expected %s deleted, got %q", testEntryID, deleted)
		}
	})

	t.Run("delete returns 404 when missing", func(t *testing.T) {
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(string) error { return apperrors.ErrTransactionNotFound },
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc))

		rec := doRequest(r, "DELETE", "/transactions/"+testEntryID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
