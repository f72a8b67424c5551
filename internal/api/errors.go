package api

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookshelf/internal/backup"
	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		var details []*huma.ErrorDetail
		for _, err := range errs {
			if apiErr := fromDomainError(err); apiErr != nil {
				return apiErr
			}

			var detailer huma.ErrorDetailer
			if errors.As(err, &detailer) {
				details = append(details, detailer.ErrorDetail())
			}
		}

		// Internal failures are logged by the request logger, not echoed.
		if status >= http.StatusInternalServerError {
			masked := domainerrors.Internal("internal error")
			return &APIError{status: status, Code: string(masked.Code), Message: masked.Message}
		}

		apiErr := &APIError{
			status:  status,
			Code:    statusToCode(status),
			Message: message,
		}
		if len(details) > 0 {
			apiErr.Details = details
		}
		return apiErr
	}
}

// fromDomainError converts coded domain errors and backup errors.
// It returns nil for anything else.
func fromDomainError(err error) *APIError {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return &APIError{
			status:  domainErr.HTTPStatus(),
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Details: domainErr.Details,
		}
	}

	switch {
	case errors.Is(err, backup.ErrBackupNotFound):
		return &APIError{
			status:  http.StatusNotFound,
			Code:    string(domainerrors.CodeNotFound),
			Message: "backup not found",
		}
	case errors.Is(err, backup.ErrInvalidDocument),
		errors.Is(err, backup.ErrVersionMismatch),
		errors.Is(err, backup.ErrUnknownFormat):
		return &APIError{
			status:  http.StatusBadRequest,
			Code:    string(domainerrors.CodeValidation),
			Message: err.Error(),
		}
	}
	return nil
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusTooManyRequests:
		return string(domainerrors.CodeTooManyRequests)
	default:
		return string(domainerrors.CodeInternal)
	}
}
