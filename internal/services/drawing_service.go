package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/models"
	"fundledger/internal/pagination"
)

// drawingService handles partner drawings against the shared accounts.
type drawingService struct {
	db       *gorm.DB
	protocol *balanceProtocol
}

// NewDrawingService creates a new DrawingServicer.
func NewDrawingService(db *gorm.DB, accountService AccountServicer) DrawingServicer {
	return &drawingService{
		db:       db,
		protocol: newBalanceProtocol(db, accountService),
	}
}

// CreateDrawing records a withdrawal and deducts it from the account.
func (s *drawingService) CreateDrawing(in DrawingInput) (*models.PartnerDrawing, error) {
	if in.PartnerID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "partner is required")
	}
	if in.AccountID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account is required")
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}

	drawing := &models.PartnerDrawing{
		PartnerID: in.PartnerID,
		Amount:    in.Amount,
		Date:      in.Date,
		AccountID: in.AccountID,
		IsRepaid:  in.IsRepaid,
	}

	verify := func(tx *gorm.DB) error {
		if err := lockReference[models.User](tx, apperrors.ErrPartnerNotFound, "id = ? AND role = ?", in.PartnerID, models.RolePartner); err != nil {
			return err
		}
		return lockReference[models.Account](tx, apperrors.ErrAccountNotFound, "id = ?", in.AccountID)
	}
	if err := s.protocol.create(drawing, verify); err != nil {
		return nil, err
	}
	return drawing, nil
}

// GetDrawingByID retrieves a drawing with its partner and account.
func (s *drawingService) GetDrawingByID(id string) (*models.PartnerDrawing, error) {
	var drawing models.PartnerDrawing
	if err := s.db.Preload("Partner").Preload("Account").Where("id = ?", id).First(&drawing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDrawingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &drawing, nil
}

// ListDrawings returns drawings newest first, optionally for one partner.
func (s *drawingService) ListDrawings(page pagination.PageRequest, partnerID *string) (*pagination.PageResponse[models.PartnerDrawing], error) {
	page.Defaults()

	base := s.db.Model(&models.PartnerDrawing{})
	if partnerID != nil {
		base = base.Where("partner_id = ?", *partnerID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var drawings []models.PartnerDrawing
	if err := base.Scopes(pagination.Paginate(page)).
		Preload("Partner").
		Preload("Account").
		Order("date DESC").
		Order("created_at DESC").
		Find(&drawings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(drawings, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// UpdateDrawing merges fields into the stored drawing, moving its balance
// effect from the old state to the new one.
func (s *drawingService) UpdateDrawing(id string, fields DrawingUpdateFields) (*models.PartnerDrawing, error) {
	if fields.Amount != nil {
		if err := validateAmount(*fields.Amount); err != nil {
			return nil, err
		}
	}
	if fields.Date != nil && fields.Date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date cannot be empty")
	}
	if fields.AccountID != nil {
		if *fields.AccountID == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account is required")
		}
	}

	load := func(tx *gorm.DB) (*models.PartnerDrawing, error) {
		if fields.AccountID != nil {
			if err := lockReference[models.Account](tx, apperrors.ErrAccountNotFound, "id = ?", *fields.AccountID); err != nil {
				return nil, err
			}
		}
		return s.loadForUpdate(id)(tx)
	}

	return updateEntry(s.protocol, load, func(d *models.PartnerDrawing) {
		if fields.Amount != nil {
			d.Amount = *fields.Amount
		}
		if fields.Date != nil {
			d.Date = *fields.Date
		}
		if fields.AccountID != nil {
			d.AccountID = *fields.AccountID
		}
		if fields.IsRepaid != nil {
			d.IsRepaid = *fields.IsRepaid
		}
	})
}

// SetDrawingRepaid marks a drawing repaid or outstanding again.
func (s *drawingService) SetDrawingRepaid(id string, repaid bool) (*models.PartnerDrawing, error) {
	return s.UpdateDrawing(id, DrawingUpdateFields{IsRepaid: &repaid})
}

// DeleteDrawing reverts the drawing's balance effect and deletes it.
func (s *drawingService) DeleteDrawing(id string) error {
	return deleteEntry(s.protocol, s.loadForUpdate(id))
}

func (s *drawingService) loadForUpdate(id string) loader[*models.PartnerDrawing] {
	return func(tx *gorm.DB) (*models.PartnerDrawing, error) {
		var drawing models.PartnerDrawing
		if err := forUpdate(tx).Where("id = ?", id).First(&drawing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrDrawingNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &drawing, nil
	}
}
