package common

import (
	"encoding/json"
	"net/http"
	"sn-inventory-api/logger"

	"github.com/sirupsen/logrus"
)

// Machine-readable error codes returned in the response envelope. Clients
// branch on the code, not the message.
const (
	CodeUserNotFound        = "AUTH_USER_NOT_FOUND" // internal classification only, never sent
	CodeInvalidCredentials  = "AUTH_INVALID_CREDENTIALS"
	CodeRefreshTokenMissing = "AUTH_REFRESH_TOKEN_MISSING"
	CodeRefreshTokenInvalid = "AUTH_REFRESH_TOKEN_INVALID"
	CodeRefreshTokenExpired = "AUTH_REFRESH_TOKEN_EXPIRED"
	CodeHeaderMissing       = "AUTH_HEADER_MISSING"
	CodeTokenFormatError    = "AUTH_TOKEN_FORMAT_ERROR"
	CodeTokenInvalid        = "AUTH_TOKEN_INVALID"
	CodeValidationError     = "VALIDATION_ERROR"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeServerError         = "SERVER_ERROR"
)

type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewServerError wraps an unexpected internal failure. The underlying error
// is logged but never serialized, so internals cannot leak to clients.
func NewServerError(err error) *AppError {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Code:    CodeServerError,
		Message: "internal server error",
		Err:     err,
	}
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Status,
			"error_code":     e.Code,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Status)
	json.NewEncoder(w).Encode(e)
}
