package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/services"
)

// AccountHandler handles account-related requests
type AccountHandler struct {
	accountService services.AccountServicer
	ledgerService  services.LedgerServicer
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService services.AccountServicer, ledgerService services.LedgerServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService, ledgerService: ledgerService}
}

// ListAccounts returns every account with its balance
// @Summary     List accounts
// @Description List the shared accounts with their current balances
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.Account "Accounts ordered by name"
// @Failure     401 {object} ErrorResponse  "Unauthorized"
// @Failure     500 {object} ErrorResponse  "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// Reconcile compares stored balances with the ledger
// @Summary     Reconcile balances
// @Description Recompute every balance from the live entries and report drift. With fix=true the stored balances are corrected.
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       fix query bool false "Overwrite drifted balances"
// @Success     200 {object} ReconcileResponse "Drift report"
// @Failure     400 {object} ErrorResponse     "Invalid input"
// @Failure     401 {object} ErrorResponse     "Unauthorized"
// @Failure     403 {object} ErrorResponse     "Forbidden"
// @Failure     500 {object} ErrorResponse     "Server error"
// @Router      /accounts/reconcile [get]
func (h *AccountHandler) Reconcile(c *gin.Context) {
	fix := false
	if v := c.Query("fix"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "fix must be true or false"))
			return
		}
		fix = parsed
	}

	drifts, err := h.ledgerService.Reconcile(fix)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReconcileResponse{Fixed: fix && len(drifts) > 0, Drifts: drifts})
}

// ReconcileResponse reports balance drift.
type ReconcileResponse struct {
	Fixed  bool                    `json:"fixed"`
	Drifts []services.BalanceDrift `json:"drifts"`
}
