// Package errors provides custom error types for the ClearDollar API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches any AppError carrying the same code, so wrapped copies of a
// sentinel still satisfy errors.Is(err, ErrX).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Request scoping errors.
var (
	ErrMissingUser = &AppError{Code: "MISSING_USER", Message: "userId is required", StatusCode: http.StatusBadRequest}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Category errors.
var (
	ErrCategoryNotFound     = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryHasChildren  = &AppError{Code: "CATEGORY_HAS_CHILDREN", Message: "Category has child categories", StatusCode: http.StatusConflict}
	ErrSelfParentCategory   = &AppError{Code: "SELF_PARENT_CATEGORY", Message: "A category cannot be its own parent", StatusCode: http.StatusBadRequest}
	ErrCategoryCycle        = &AppError{Code: "CATEGORY_CYCLE", Message: "A category cannot be moved under one of its descendants", StatusCode: http.StatusBadRequest}
	ErrCategoryTypeMismatch = &AppError{Code: "CATEGORY_TYPE_MISMATCH", Message: "Parent category belongs to the other hierarchy", StatusCode: http.StatusBadRequest}
)

// Category tree errors.
var (
	ErrDanglingParent     = &AppError{Code: "DANGLING_PARENT_REFERENCE", Message: "Parent category does not exist", StatusCode: http.StatusOK}
	ErrInvalidDrillTarget = &AppError{Code: "INVALID_DRILL_TARGET", Message: "Cannot drill into this entry", StatusCode: http.StatusBadRequest}
	ErrMalformedForest    = &AppError{Code: "MALFORMED_FOREST", Message: "Proposed tree does not match the current categories", StatusCode: http.StatusBadRequest}
	ErrPersistenceFailure = &AppError{Code: "PERSISTENCE_FAILURE", Message: "Some changes failed to save. Refresh to re-sync.", StatusCode: http.StatusBadGateway}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidCSV          = &AppError{Code: "INVALID_CSV", Message: "Uploaded file could not be parsed", StatusCode: http.StatusBadRequest}
	ErrBankSyncFailed      = &AppError{Code: "BANK_SYNC_FAILED", Message: "Could not fetch transactions from the bank", StatusCode: http.StatusBadGateway}
	ErrBankSyncDisabled    = &AppError{Code: "BANK_SYNC_DISABLED", Message: "Bank sync is not configured", StatusCode: http.StatusServiceUnavailable}
)

// Demo errors.
var (
	ErrAlreadySeeded = &AppError{Code: "ALREADY_SEEDED", Message: "User already has categories", StatusCode: http.StatusConflict}
)
