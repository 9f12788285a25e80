package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Authentication & Authorization (AUTH) ----

func ErrUnauthenticated() *AppError {
	return New("AUTH_001", "Missing or invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_003", "Insufficient privileges", http.StatusForbidden)
}

func ErrVendorSuspended() *AppError {
	return New("AUTH_004", "Vendor account is suspended", http.StatusForbidden)
}

// ---- Webhook Security (SEC) ----

func ErrInvalidSignature() *AppError {
	return New("SEC_001", "Invalid webhook signature", http.StatusUnauthorized)
}

// ---- Withdrawal Business Logic (WDR) ----

func ErrInsufficientBalance() *AppError {
	return New("WDR_001", "Requested amount exceeds available balance", http.StatusPaymentRequired)
}

func ErrBelowMinimum(minimum string) *AppError {
	return New("WDR_002", fmt.Sprintf("Requested amount is below the minimum withdrawal of %s", minimum), http.StatusBadRequest)
}

func ErrAlreadyReviewed() *AppError {
	return New("WDR_003", "Withdrawal request has already been reviewed", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("WDR_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrInvalidAmount() *AppError {
	return New("WDR_005", "Invalid amount", http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrDependencyUnavailable(name string, err error) *AppError {
	return Wrap("SYS_002", fmt.Sprintf("Dependency unavailable: %s", name), http.StatusServiceUnavailable, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a VAL_001 validation error.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
