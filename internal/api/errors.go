package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/stash-api/internal/api/shared"
	"github.com/phrazzld/stash-api/internal/domain"
	"github.com/phrazzld/stash-api/internal/service"
	"github.com/phrazzld/stash-api/internal/service/auth"
	"github.com/phrazzld/stash-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes. This keeps the error taxonomy in one place so every handler
// reports the same class of failure the same way.
func MapErrorToStatusCode(err error) int {
	switch {
	// Validation errors
	case errors.Is(err, domain.ErrValidation),
		isValidatorError(err):
		return http.StatusUnprocessableEntity

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, service.ErrInactiveUser):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflicts, integrity failures, and the self-delete guard all report
	// as plain bad requests.
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrSelfDelete),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for the
// error. Internal details never pass through.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "Not authenticated"

	case errors.Is(err, auth.ErrInvalidToken):
		return "Could not validate credentials"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Incorrect username or password"

	case errors.Is(err, service.ErrInactiveUser):
		return "Inactive user"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Not authenticated"

	case errors.Is(err, domain.ErrForbidden):
		return "Not enough privileges"

	case errors.Is(err, domain.ErrSelfDelete):
		return "Users cannot delete themselves"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrItemNotFound):
		return "Item not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "A user with this email already exists"

	case errors.Is(err, store.ErrUsernameExists):
		return "A user with this username already exists"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"

	case errors.Is(err, domain.ErrValidation):
		// Domain validation sentinels carry safe, field-level text.
		return strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")

	default:
		return "An unexpected error occurred"
	}
}

// FieldError is one entry of a structured validation detail.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// isValidatorError reports whether the error came out of the struct
// validator.
func isValidatorError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

// validationDetail converts an error into the payload for a 422 response:
// a list of field errors when the structure is known, a message otherwise.
func validationDetail(err error) any {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{
				Field:   strings.ToLower(fe.Field()),
				Message: validationTagMessage(fe.Tag()),
			})
		}
		return details
	}

	var derr *domain.ValidationError
	if errors.As(err, &derr) {
		return []FieldError{{Field: derr.Field, Message: derr.Message}}
	}

	return GetSafeErrorMessage(err)
}

// validationTagMessage maps validation tags to user-friendly error messages
func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "field is required"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps err to its status code and writes the standard error
// body. An empty userMessage falls back to the safe message for the error;
// 422s get the structured field-error detail instead.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)

	if status == http.StatusUnprocessableEntity {
		shared.RespondWithError(w, r, status, validationDetail(err))
		return
	}

	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}
