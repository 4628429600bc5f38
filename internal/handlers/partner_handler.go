package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/services"
)

// PartnerHandler handles partner management, salaries and freelancer payments.
type PartnerHandler struct {
	userService    services.UserServicer
	payrollService services.PayrollServicer
}

// NewPartnerHandler creates a new PartnerHandler.
func NewPartnerHandler(userService services.UserServicer, payrollService services.PayrollServicer) *PartnerHandler {
	return &PartnerHandler{userService: userService, payrollService: payrollService}
}

// CreatePartnerRequest represents the request payload for adding a partner.
type CreatePartnerRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// SetSalaryRequest sets a partner's salary for one month.
type SetSalaryRequest struct {
	Month  int              `json:"month" binding:"required,min=1,max=12"`
	Year   int              `json:"year" binding:"required,min=2000,max=2100"`
	Amount *decimal.Decimal `json:"amount" binding:"required,money" swaggertype:"string" example:"1500.00"`
	IsPaid bool             `json:"is_paid"`
}

// FreelancerPaymentRequest records a payment to a contractor.
type FreelancerPaymentRequest struct {
	Name        string           `json:"name" binding:"required,max=200"`
	Amount      *decimal.Decimal `json:"amount" binding:"required,money" swaggertype:"string" example:"300.00"`
	Date        string           `json:"date"`
	Description string           `json:"description" binding:"max=500"`
}

// CreatePartner adds a partner
// @Summary     Create a partner
// @Description Add a partner. The username is generated from the name and the default partner password is set.
// @Tags        partners
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePartnerRequest true "Partner name"
// @Success     201 {object} UserResponse "Partner created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "No free username"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /partners [post]
func (h *PartnerHandler) CreatePartner(c *gin.Context) {
	var req CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	partner, err := h.userService.CreatePartner(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"partner": newUserResponse(partner)})
}

// ListPartners lists partners
// @Summary     List partners
// @Tags        partners
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  UserResponse "Partners ordered by name"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /partners [get]
func (h *PartnerHandler) ListPartners(c *gin.Context) {
	partners, err := h.userService.ListPartners()
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(partners))
	for i := range partners {
		resp = append(resp, newUserResponse(&partners[i]))
	}
	c.JSON(http.StatusOK, gin.H{"partners": resp})
}

// SetSalary upserts a partner's monthly salary
// @Summary     Set partner salary
// @Description Create or replace the salary of a partner for one month
// @Tags        partners
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string           true "Partner ID"
// @Param       request body SetSalaryRequest true "Salary"
// @Success     200 {object} models.PartnerSalary "Salary stored"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Partner not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /partners/{id}/salaries [post]
func (h *PartnerHandler) SetSalary(c *gin.Context) {
	partnerID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	salary, err := h.payrollService.SetPartnerSalary(partnerID, req.Month, req.Year, *req.Amount, req.IsPaid)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"salary": salary})
}

// RecordFreelancerPayment records a contractor payment
// @Summary     Record a freelancer payment
// @Description Record money paid to an outside contractor. Balances are not affected.
// @Tags        partners
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body FreelancerPaymentRequest true "Payment"
// @Success     201 {object} models.FreelancerPayment "Payment recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /freelancer-payments [post]
func (h *PartnerHandler) RecordFreelancerPayment(c *gin.Context) {
	var req FreelancerPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	date, err := dateOrNow(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, err := h.payrollService.RecordFreelancerPayment(req.Name, *req.Amount, date, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}
