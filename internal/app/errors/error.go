package errors

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/sirupsen/logrus"
)

type AppError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(statusCode int, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewCodedError attaches a machine-readable code so clients can branch on the
// failure kind (e.g. EDIT_WINDOW_EXPIRED) instead of matching message text.
func NewCodedError(statusCode int, code string, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

func NewUnauthorizedError(message ...string) *AppError {
	if len(message) > 0 {
		return NewAppError(http.StatusUnauthorized, message[0])
	}
	return NewAppError(http.StatusUnauthorized, "Unauthorized")
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message)
}

func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, message)
}

func NewTooManyRequestsError(message string, limit int, resetUnix int64) *AppError {
	return NewAppError(http.StatusTooManyRequests,
		fmt.Sprintf("%s. Limit: %d requests, resets at %d", message, limit, resetUnix))
}

func NewInternalServerError(originalError error, message string) *AppError {
	if originalError != nil {
		logrus.Errorf("[%s] %s", reflect.TypeOf(originalError).String(), originalError)
	}
	return NewAppError(http.StatusInternalServerError, message)
}
