package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Sunucunun döndürdüğü hata kodları. Liste kapalıdır; bilinmeyen kodlar
// olduğu gibi taşınır.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeConflict            = "CONFLICT"
	CodeInsufficientPerms   = "INSUFFICIENT_PERMISSIONS"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeUnknown             = "UNKNOWN_ERROR"
)

const genericMessage = "Beklenmeyen bir hata oluştu"

// APIError upstream'in {error_code, detail} gövdesinin tiplenmiş hali.
type APIError struct {
	Status    int               `json:"-"`
	Code      string            `json:"error_code"`
	Message   string            `json:"detail"`
	Fields    map[string]string `json:"fields,omitempty"`
	Retryable bool              `json:"retryable,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

func NewError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Code:    CodeValidation,
		Message: message,
		Fields:  fields,
	}
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func IsCode(err error, code string) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Code == code
}

// Normalize her hatayı APIError'a çevirir. Zaten APIError ise aynen döner.
func Normalize(err error) *APIError {
	if err == nil {
		return nil
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &APIError{
			Status:    http.StatusGatewayTimeout,
			Code:      CodeUpstreamUnavailable,
			Message:   "Sunucu zamanında yanıt vermedi",
			Retryable: true,
		}
	}
	return &APIError{Status: http.StatusInternalServerError, Code: CodeUnknown, Message: genericMessage}
}

// codeForStatus gövdede error_code yoksa kullanılır.
func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeInsufficientPerms
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return CodeUpstreamUnavailable
	}
	return CodeUnknown
}
