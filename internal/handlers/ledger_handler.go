package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/logger"
	"fundledger/internal/services"
)

// LedgerHandler serves the unified ledger.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService services.LedgerServicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// LedgerResponse is the unified ledger.
type LedgerResponse struct {
	Entries []services.NormalizedEntry `json:"entries"`
}

// ListUnified returns transactions and drawings in one feed
// @Summary     Unified ledger
// @Description Transactions and partner drawings normalized into one list, newest first. On equal dates transactions come before drawings.
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       from query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to   query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Success     200 {object} LedgerResponse "Ledger entries"
// @Failure     400 {object} ErrorResponse  "Invalid input"
// @Failure     401 {object} ErrorResponse  "Unauthorized"
// @Failure     403 {object} ErrorResponse  "Forbidden"
// @Failure     500 {object} ErrorResponse  "Server error"
// @Router      /ledger [get]
func (h *LedgerHandler) ListUnified(c *gin.Context) {
	var filter services.LedgerFilter
	var err error
	if filter.FromDate, err = parseDateQuery(c, "from"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.ToDate, err = parseDateQuery(c, "to"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.FromDate != nil && filter.ToDate != nil && filter.ToDate.Before(*filter.FromDate) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must not be before from"))
		return
	}

	entries, err := h.ledgerService.ListUnified(filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, LedgerResponse{Entries: entries})
}

// OpsReconcile recomputes and corrects balances for scheduled jobs
// @Summary     Reconcile and fix balances
// @Description Recompute every balance from the live entries and overwrite drifted ones. Authenticated with X-API-Key.
// @Tags        ops
// @Produce     json
// @Param       X-API-Key header string true "Operations API key"
// @Success     200 {object} ReconcileResponse "Drift report"
// @Failure     401 {object} ErrorResponse     "Invalid API key"
// @Failure     500 {object} ErrorResponse     "Server error"
// @Failure     503 {object} ErrorResponse     "Not configured"
// @Router      /ops/reconcile [post]
func (h *LedgerHandler) OpsReconcile(c *gin.Context) {
	drifts, err := h.ledgerService.Reconcile(true)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if len(drifts) > 0 {
		logger.Named("ops").Warnw("scheduled reconcile corrected balances", "accounts", len(drifts))
	}
	c.JSON(http.StatusOK, ReconcileResponse{Fixed: len(drifts) > 0, Drifts: drifts})
}
