package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/kioku/internal/api/shared"
	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/service"
	"github.com/phrazzld/kioku/internal/service/auth"
	"github.com/phrazzld/kioku/internal/service/review"
	"github.com/phrazzld/kioku/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidSubject),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Special cases
	case errors.Is(err, review.ErrNoItemsDue),
		errors.Is(err, service.ErrNoQuotes):
		return http.StatusNoContent

	// Not found errors
	case errors.Is(err, review.ErrItemNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrQuoteNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrDuplicateItem),
		store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidGrade),
		errors.Is(err, review.ErrInvalidDays),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var ve *domain.ValidationError
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case MapErrorToStatusCode(err) == http.StatusUnauthorized:
		return "Invalid token"

	case errors.Is(err, review.ErrItemNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, store.ErrItemNotFound):
		return "Item not found"
	case errors.Is(err, service.ErrQuoteNotFound),
		errors.Is(err, store.ErrQuoteNotFound):
		return "Quote not found"
	case errors.Is(err, store.ErrReviewStateNotFound):
		return "Review state not found"

	case errors.Is(err, service.ErrDuplicateItem):
		return "Item already exists"

	case errors.Is(err, domain.ErrInvalidAnswer):
		return "Answer must be one of: hard, good, easy"
	case errors.Is(err, domain.ErrInvalidGrade):
		return fmt.Sprintf("Grade must be between %d and %d", domain.MinGrade, domain.MaxGrade)
	case errors.Is(err, review.ErrInvalidDays):
		return "Days must be between 1 and 36500"
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short client message
// naming the first offending field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// fallback replaces the generic message on 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		msg = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}
