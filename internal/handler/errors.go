package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/prestanaute/backend/internal/domain"
)

// errorResponse is the uniform error body for every non-2xx response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// notFoundBody returns an errorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "journey not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(message string) errorResponse {
	return errorResponse{Error: errorDetail{Code: "not_found", Message: message}}
}

// validationBody returns an errorResponse for a domain validation failure.
// The message is extracted from the wrapped domain.ErrValidation error.
func validationBody(err error) errorResponse {
	return errorResponse{Error: errorDetail{Code: "validation_error", Message: unwrapMessage(err)}}
}

// requestBody returns an errorResponse for a bad request rejected before
// reaching the service layer (e.g. missing or malformed body).
func requestBody(message string) errorResponse {
	return errorResponse{Error: errorDetail{Code: "validation_error", Message: message}}
}

// conflictBody returns an errorResponse for a duplicate validation attempt.
func conflictBody() errorResponse {
	return errorResponse{Error: errorDetail{Code: "already_validated", Message: "this journey has already been validated"}}
}

// worksiteBody returns an errorResponse for a malformed or unknown worksite token.
func worksiteBody(err error) errorResponse {
	return errorResponse{Error: errorDetail{Code: "invalid_worksite", Message: unwrapMessage(err)}}
}

// respondError maps the service sentinel errors to HTTP statuses. Unknown
// errors become an opaque 500; the request logger has the details.
func respondError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, notFoundBody(notFoundMessage))
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, conflictBody())
	case errors.Is(err, domain.ErrInvalidWorksite):
		writeJSON(w, http.StatusUnprocessableEntity, worksiteBody(err))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
	default:
		writeJSON(w, http.StatusInternalServerError,
			errorResponse{Error: errorDetail{Code: "internal_error", Message: "internal server error"}})
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.ValidationService.Validate: validation error: comment must not
// exceed 255 characters" → "comment must not exceed 255 characters".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []string{
		domain.ErrValidation.Error() + ": ",
		domain.ErrInvalidWorksite.Error() + ": ",
	} {
		if idx := strings.LastIndex(msg, sentinel); idx >= 0 {
			return msg[idx+len(sentinel):]
		}
	}
	return msg
}
