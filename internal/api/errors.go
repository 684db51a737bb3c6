package api

import (
	"net/http"

	"contentops/internal/services"
)

// ErrorBody is the machine-readable part of an error response.
type ErrorBody struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable"`
}

// ErrorResponse is returned for every failed API request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// StatusForError maps the error taxonomy onto HTTP status codes.
func StatusForError(err error) int {
	switch services.Kind(err) {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindInvalidTransition, services.KindConflict:
		return http.StatusConflict
	case services.KindContentLocked:
		return http.StatusLocked
	case services.KindNoTemplateAvailable, services.KindResolveNotApplicable:
		return http.StatusUnprocessableEntity
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindTransient:
		return http.StatusBadGateway
	case services.KindConfiguration:
		return http.StatusServiceUnavailable
	case "":
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorResponse builds the error payload. Internal errors hide their detail.
func NewErrorResponse(err error) ErrorResponse {
	kind := services.Kind(err)
	message := err.Error()
	if kind == services.KindInternal {
		message = "internal server error"
	}
	return ErrorResponse{Error: ErrorBody{
		Code:        kind,
		Message:     message,
		Recoverable: services.IsRecoverable(err),
	}}
}
