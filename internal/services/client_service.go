package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/models"
)

// clientService handles client lookups.
type clientService struct {
	db *gorm.DB
}

// NewClientService creates a new ClientServicer.
func NewClientService(db *gorm.DB) ClientServicer {
	return &clientService{db: db}
}

// CreateClient creates a new client
func (s *clientService) CreateClient(name string) (*models.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "client name is required")
	}

	client := &models.Client{Name: name}
	if err := s.db.Create(client).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return client, nil
}

// ListClients returns every client ordered by name.
func (s *clientService) ListClients() ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.Order("name ASC").Find(&clients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return clients, nil
}
