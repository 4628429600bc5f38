package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/models"
	"fundledger/internal/pagination"
	"fundledger/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
// Amount accepts a JSON number or a decimal string.
type CreateTransactionRequest struct {
	Date        string                 `json:"date" binding:"required"`
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Amount      *decimal.Decimal       `json:"amount" binding:"required,money" swaggertype:"string" example:"125.50"`
	Description string                 `json:"description" binding:"max=500"`
	Category    string                 `json:"category" binding:"max=100"`
	AccountID   *string                `json:"account_id" binding:"omitempty,uuid"`
	ClientID    *string                `json:"client_id" binding:"omitempty,uuid"`
	IsPending   bool                   `json:"is_pending"`
}

// UpdateTransactionRequest represents a partial update. Omitted fields keep
// their value; account_id or client_id set to null or "" clears the reference.
type UpdateTransactionRequest struct {
	Date        *string                 `json:"date"`
	Type        *models.TransactionType `json:"type" binding:"omitempty,transaction_type"`
	Amount      *decimal.Decimal        `json:"amount" binding:"omitempty,money" swaggertype:"string" example:"125.50"`
	Description *string                 `json:"description" binding:"omitempty,max=500"`
	Category    *string                 `json:"category" binding:"omitempty,max=100"`
	AccountID   nullableRef             `json:"account_id" swaggertype:"string"`
	ClientID    nullableRef             `json:"client_id" swaggertype:"string"`
	IsPending   *bool                   `json:"is_pending"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record an income or expense. Unless pending or without account, the account balance is adjusted.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or client not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	date, err := parseFlexibleTime(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(services.TransactionInput{
		Date:        date,
		Type:        req.Type,
		Amount:      *req.Amount,
		Description: req.Description,
		Category:    req.Category,
		AccountID:   req.AccountID,
		ClientID:    req.ClientID,
		IsPending:   req.IsPending,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactionByID handles the retrieval of a transaction by ID
// @Summary     Get transaction by ID
// @Description Get a transaction with its account and client
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// ListTransactions handles the retrieval of transactions
// @Summary     List transactions
// @Description Get a paginated, filtered list of transactions, newest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Param       from_date  query string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date    query string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Param       type       query string false "Filter by type (INCOME, EXPENSE)"
// @Param       category   query string false "Filter by category"
// @Param       account_id query string false "Filter by account ID"
// @Param       client_id  query string false "Filter by client ID"
// @Param       is_pending query bool   false "Filter by pending flag"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.ListTransactions(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter
	var err error

	if filter.FromDate, err = parseDateQuery(c, "from_date"); err != nil {
		return filter, err
	}
	if filter.ToDate, err = parseDateQuery(c, "to_date"); err != nil {
		return filter, err
	}

	if v := c.Query("type"); v != "" {
		txType := models.TransactionType(v)
		if !txType.IsValid() {
			return filter, apperrors.ErrInvalidTransactionType
		}
		filter.Type = &txType
	}

	if v := c.Query("category"); v != "" {
		filter.Category = &v
	}
	if filter.AccountID, err = parseIDQuery(c, "account_id"); err != nil {
		return filter, err
	}
	if filter.ClientID, err = parseIDQuery(c, "client_id"); err != nil {
		return filter, err
	}

	if v := c.Query("is_pending"); v != "" {
		pending, parseErr := strconv.ParseBool(v)
		if parseErr != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "is_pending must be true or false")
		}
		filter.IsPending = &pending
	}

	return filter, nil
}

// UpdateTransaction handles partial updates of a transaction
// @Summary     Update a transaction
// @Description Merge the given fields into a transaction and move its balance effect accordingly
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to change"
// @Success     200 {object} models.Transaction "Transaction updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction, account or client not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	if err := req.AccountID.validate("account_id"); err != nil {
		respondWithError(c, err)
		return
	}
	if err := req.ClientID.validate("client_id"); err != nil {
		respondWithError(c, err)
		return
	}

	fields := services.TransactionUpdateFields{
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		IsPending:   req.IsPending,
	}
	if req.Date != nil {
		date, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		fields.Date = &date
	}
	if req.AccountID.Set {
		fields.AccountID = &req.AccountID.Value
	}
	if req.ClientID.Set {
		fields.ClientID = &req.ClientID.Value
	}

	transaction, err := h.transactionService.UpdateTransaction(id, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// MarkTransactionPaid clears the pending flag of a transaction
// @Summary     Mark a transaction paid
// @Description Clear the pending flag, applying the transaction to its account
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction paid"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id}/paid [post]
func (h *TransactionHandler) MarkTransactionPaid(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.MarkTransactionPaid(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction handles the deletion of a transaction
// @Summary     Delete transaction
// @Description Delete a transaction and revert its balance effect
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} map[string]string "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}
