package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finances/internal/errors"
	"finances/internal/middleware"
	"finances/internal/uuid"
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

// parsePathID reads a UUID path parameter.
// Returns ErrInvalidInput if the parameter is not a valid UUID.
func parsePathID(c *gin.Context, param string) (string, error) {
	id := c.Param(param)
	if !uuid.IsValid(id) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// optionalQueryID reads an optional UUID query parameter.
func optionalQueryID(c *gin.Context, key string) (*string, error) {
	value := c.Query(key)
	if value == "" {
		return nil, nil
	}
	if !uuid.IsValid(value) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+key)
	}
	return &value, nil
}

// parseFlexibleTime accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date.
func parseFlexibleTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC 3339", value)
}

// optionalTime parses an optional date from a request body. Nil or empty
// yields the zero time, which services replace with their default.
func optionalTime(value *string) (time.Time, error) {
	if value == nil || *value == "" {
		return time.Time{}, nil
	}
	t, err := parseFlexibleTime(*value)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return t, nil
}

// parseDateRange reads the required start_date and end_date query parameters.
func parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	var bounds [2]time.Time
	for i, key := range []string{"start_date", "end_date"} {
		raw := c.Query(key)
		if raw == "" {
			return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, key+" is required")
		}
		t, err := parseFlexibleTime(raw)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		bounds[i] = t
	}
	if bounds[1].Before(bounds[0]) {
		return time.Time{}, time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date must not be before start_date")
	}
	return bounds[0], bounds[1], nil
}

// bindError turns a binding failure into an INVALID_INPUT error.
func bindError(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// respondWithError writes a consistent JSON error response.
func respondWithError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
