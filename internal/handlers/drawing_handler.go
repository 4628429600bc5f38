package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/pagination"
	"fundledger/internal/services"
)

// DrawingHandler handles partner drawing requests.
type DrawingHandler struct {
	drawingService services.DrawingServicer
}

// NewDrawingHandler creates a new DrawingHandler.
func NewDrawingHandler(drawingService services.DrawingServicer) *DrawingHandler {
	return &DrawingHandler{drawingService: drawingService}
}

// CreateDrawingRequest represents the request payload for recording a drawing.
type CreateDrawingRequest struct {
	PartnerID string           `json:"partner_id" binding:"required,uuid"`
	Amount    *decimal.Decimal `json:"amount" binding:"required,money" swaggertype:"string" example:"200.00"`
	Date      string           `json:"date" binding:"required"`
	AccountID string           `json:"account_id" binding:"required,uuid"`
	IsRepaid  bool             `json:"is_repaid"`
}

// UpdateDrawingRequest represents a partial drawing update.
type UpdateDrawingRequest struct {
	Amount    *decimal.Decimal `json:"amount" binding:"omitempty,money" swaggertype:"string" example:"200.00"`
	Date      *string          `json:"date"`
	AccountID *string          `json:"account_id" binding:"omitempty,uuid"`
	IsRepaid  *bool            `json:"is_repaid"`
}

// SetRepaidRequest sets or clears the repaid flag.
type SetRepaidRequest struct {
	IsRepaid *bool `json:"is_repaid" binding:"required"`
}

// CreateDrawing records a partner drawing
// @Summary     Record a drawing
// @Description Record cash a partner took from an account. The amount is deducted immediately unless already repaid.
// @Tags        drawings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDrawingRequest true "Drawing details"
// @Success     201 {object} models.PartnerDrawing "Drawing recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Partner or account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /drawings [post]
func (h *DrawingHandler) CreateDrawing(c *gin.Context) {
	var req CreateDrawingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	date, err := parseFlexibleTime(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	drawing, err := h.drawingService.CreateDrawing(services.DrawingInput{
		PartnerID: req.PartnerID,
		Amount:    *req.Amount,
		Date:      date,
		AccountID: req.AccountID,
		IsRepaid:  req.IsRepaid,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"drawing": drawing})
}

// ListDrawings lists drawings, newest first
// @Summary     List drawings
// @Description Paginated drawings of every partner ordered by date descending
// @Tags        drawings
// @Produce     json
// @Security    BearerAuth
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Param       partner_id query string false "Filter by partner"
// @Success     200 {object} pagination.PageResponse[models.PartnerDrawing] "Paginated drawings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /drawings [get]
func (h *DrawingHandler) ListDrawings(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	partnerID, err := parseIDQuery(c, "partner_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.drawingService.ListDrawings(page, partnerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateDrawing applies a partial drawing update
// @Summary     Update a drawing
// @Description Change amount, date, account or repaid flag and move the balance effect accordingly
// @Tags        drawings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Drawing ID"
// @Param       request body UpdateDrawingRequest true "Fields to change"
// @Success     200 {object} models.PartnerDrawing "Drawing updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Drawing or account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /drawings/{id} [put]
func (h *DrawingHandler) UpdateDrawing(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDrawingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	fields := services.DrawingUpdateFields{
		Amount:    req.Amount,
		AccountID: req.AccountID,
		IsRepaid:  req.IsRepaid,
	}
	if req.Date != nil {
		date, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, parseErr.Error()))
			return
		}
		fields.Date = &date
	}

	drawing, err := h.drawingService.UpdateDrawing(id, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drawing": drawing})
}

// SetRepaid marks a drawing repaid or outstanding
// @Summary     Set repaid flag
// @Description Mark a drawing repaid (restoring the account) or outstanding again
// @Tags        drawings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string           true "Drawing ID"
// @Param       request body SetRepaidRequest true "Repaid flag"
// @Success     200 {object} models.PartnerDrawing "Drawing updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Drawing not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /drawings/{id}/repaid [post]
func (h *DrawingHandler) SetRepaid(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetRepaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	drawing, err := h.drawingService.SetDrawingRepaid(id, *req.IsRepaid)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drawing": drawing})
}

// DeleteDrawing deletes a drawing
// @Summary     Delete a drawing
// @Description Delete a drawing and revert its balance effect
// @Tags        drawings
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Drawing ID"
// @Success     200 {object} map[string]string "Drawing deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Drawing not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /drawings/{id} [delete]
func (h *DrawingHandler) DeleteDrawing(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.drawingService.DeleteDrawing(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Drawing deleted"})
}
