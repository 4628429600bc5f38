package services

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/logger"
	"fundledger/internal/models"
)

// usernameAttempts bounds how often CreatePartner retries a taken username.
const usernameAttempts = 5

// userService handles user-related business logic.
type userService struct {
	db                     *gorm.DB
	partnerDefaultPassword string
}

// NewUserService creates a new UserServicer. New partners get
// partnerDefaultPassword until they change it.
func NewUserService(db *gorm.DB, partnerDefaultPassword string) UserServicer {
	return &userService{db: db, partnerDefaultPassword: partnerDefaultPassword}
}

// AttemptLogin checks the credentials and returns the matching user. Unknown
// usernames and wrong passwords fail the same way.
func (s *userService) AttemptLogin(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Get().Infow("login rejected", "username", username, "reason", "unknown user")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logger.Get().Infow("login rejected", "username", username, "reason", "password mismatch")
		return nil, apperrors.ErrInvalidCredentials
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetPartnerByID retrieves a user with the partner role.
func (s *userService) GetPartnerByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ? AND role = ?", id, models.RolePartner).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPartnerNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// CreatePartner registers a partner with a username derived from the name
// and the default partner password.
func (s *userService) CreatePartner(name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "partner name is required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(s.partnerDefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for range usernameAttempts {
		username := PartnerUsername(name, rand.IntN(1000))

		taken, err := s.usernameTaken(username)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		partner := &models.User{
			Username: username,
			Password: string(hashedPassword),
			Role:     models.RolePartner,
			Name:     name,
		}
		if err := s.db.Create(partner).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		logger.Get().Infow("partner created", "partner_id", partner.ID, "username", username)
		return partner, nil
	}

	return nil, apperrors.ErrDuplicateUsername
}

// PartnerUsername lowercases name, strips its whitespace and appends suffix.
func PartnerUsername(name string, suffix int) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	b.WriteString(strconv.Itoa(suffix))
	return b.String()
}

func (s *userService) usernameTaken(username string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.User{}).Where("LOWER(username) = LOWER(?)", username).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// ListPartners returns every partner ordered by name.
func (s *userService) ListPartners() ([]models.User, error) {
	var partners []models.User
	if err := s.db.Where("role = ?", models.RolePartner).Order("name ASC").Find(&partners).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return partners, nil
}

// EnsureAdmin creates the admin user if no user has the given username.
// An existing user is returned unchanged.
func (s *userService) EnsureAdmin(username, password, name string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "admin username and password are required")
	}

	var existing models.User
	err := s.db.Where("LOWER(username) = LOWER(?)", username).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	admin := &models.User{
		Username: username,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
		Name:     name,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Infow("admin user created", "username", username)
	return admin, nil
}
