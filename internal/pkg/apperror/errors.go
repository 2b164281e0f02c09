package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	ErrCodeSMSGateway   ErrorCode = "SMS_GATEWAY_ERROR"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// AppError несёт вид ошибки, безопасное для клиента сообщение и причину.
// Причина логируется на сервере и никогда не уходит наружу.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeUnauthorized, ErrCodeInvalidToken, ErrCodeTokenExpired:
		return http.StatusUnauthorized
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeSMSGateway:
		// Исторический контракт API: сбой шлюза отдаётся как 405.
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

// Is сообщает, относится ли ошибка к указанному виду.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool     { return Is(err, ErrCodeNotFound) }
func IsValidation(err error) bool   { return Is(err, ErrCodeValidation) }
func IsConflict(err error) bool     { return Is(err, ErrCodeConflict) }
func IsUnauthorized(err error) bool { return Is(err, ErrCodeUnauthorized) }

var (
	ErrUserNotFound        = New(ErrCodeNotFound, "пользователь не найден")
	ErrTokenNotFound       = New(ErrCodeNotFound, "токен не найден")
	ErrCodeNotFoundErr     = New(ErrCodeNotFound, "код подтверждения не найден")
	ErrInvalidCredentials  = New(ErrCodeUnauthorized, "неверный телефон или пароль")
	ErrInvalidToken        = New(ErrCodeInvalidToken, "токен невалиден")
	ErrFingerprintMismatch = New(ErrCodeUnauthorized, "токен выдан другому клиенту")
	ErrRefreshExpired      = New(ErrCodeTokenExpired, "refresh токен истёк")
)
