package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fundledger/internal/errors"
	"fundledger/internal/logger"
	"fundledger/internal/middleware"
	"fundledger/internal/models"
	"fundledger/internal/uuid"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// getRole returns the authenticated user's role, or "" when unauthenticated.
func getRole(c *gin.Context) models.Role {
	role, _ := c.Get(middleware.RoleKey)
	r, _ := role.(models.Role)
	return r
}

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
//
//nolint:unparam // param is intentionally generic for reuse across handlers with different path params
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseIDQuery reads an optional UUID query parameter.
func parseIDQuery(c *gin.Context, key string) (*string, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	if !uuid.IsValid(v) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+key)
	}
	return &v, nil
}

// parseFlexibleTime accepts RFC3339 timestamps or plain YYYY-MM-DD dates.
func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, errors.New("invalid date format, use RFC3339 or YYYY-MM-DD")
	}
	return t, nil
}

// dateOrNow returns the parsed date, or the current time when s is empty.
func dateOrNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return parseFlexibleTime(s)
}

// parseDateQuery parses an optional date query parameter.
func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := parseFlexibleTime(v)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+key+" format, use RFC3339 or YYYY-MM-DD")
	}
	return &t, nil
}

// nullableRef is an optional reference in a partial update. Set records
// whether the field was present at all; a present null or "" clears it.
type nullableRef struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *nullableRef) UnmarshalJSON(data []byte) error {
	r.Set = true
	if string(data) == "null" {
		r.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	r.Value = &s
	return nil
}

// validate rejects a present reference that is neither cleared nor a UUID.
func (r nullableRef) validate(field string) error {
	if r.Value != nil && *r.Value != "" && !uuid.IsValid(*r.Value) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+field)
	}
	return nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrInternalServer.Code,
			"message": apperrors.ErrInternalServer.Message,
		},
	})
}

// bindError converts a binding failure into an INVALID_INPUT error.
func bindError(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}
