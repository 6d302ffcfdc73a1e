package dto

import "net/http"

// Transport-level error codes. Domain errors carry their own codes,
// which map to HTTP statuses through ErrorCodeHTTPStatus below.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,

	// Authentication
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"TOKEN_ERROR":         http.StatusUnauthorized,
	"INVALID_PASSWORD":    http.StatusBadRequest,

	// Resources
	"USER_NOT_FOUND":          http.StatusNotFound,
	"ITEM_NOT_FOUND":          http.StatusNotFound,
	"ALREADY_EXISTS":          http.StatusConflict,
	"CONCURRENT_MODIFICATION": http.StatusConflict,

	// Input validation (domain constructors)
	"INVALID_INPUT":        http.StatusBadRequest,
	"INVALID_NAME":         http.StatusBadRequest,
	"INVALID_CODE":         http.StatusBadRequest,
	"INVALID_UNIT":         http.StatusBadRequest,
	"INVALID_PRICE":        http.StatusBadRequest,
	"INVALID_BARCODE":      http.StatusBadRequest,
	"INVALID_MIN_STOCK":    http.StatusBadRequest,
	"INVALID_PHONE":        http.StatusBadRequest,
	"INVALID_USERNAME":     http.StatusBadRequest,
	"INVALID_DISPLAY_NAME": http.StatusBadRequest,
	"INVALID_ROLE":         http.StatusBadRequest,
	"INVALID_REASON":       http.StatusBadRequest,
	"INVALID_DISCOUNT":     http.StatusBadRequest,
	"INVALID_BRANCH":       http.StatusBadRequest,
	"INVALID_BATCH_NUMBER": http.StatusBadRequest,
	"INVALID_SALE_NUMBER":  http.StatusBadRequest,
	"INVALID_PRODUCT_NAME": http.StatusBadRequest,

	// Business rules -> 422 Unprocessable Entity
	"INVALID_STATE":             http.StatusUnprocessableEntity,
	"INVALID_QUANTITY":          http.StatusUnprocessableEntity,
	"INSUFFICIENT_BATCH_STOCK":  http.StatusUnprocessableEntity,
	"EXCEEDS_REQUIRED_QUANTITY": http.StatusUnprocessableEntity,
	"UNKNOWN_LINE_ITEM":         http.StatusUnprocessableEntity,
	"BATCH_MISMATCH":            http.StatusUnprocessableEntity,
	"NOTHING_TO_SUBMIT":         http.StatusUnprocessableEntity,
	"SUBMISSION_FAILED":         http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":        http.StatusUnprocessableEntity,
	"DUPLICATE_PRODUCT":         http.StatusUnprocessableEntity,
	"INVALID_PRODUCT":           http.StatusUnprocessableEntity,
	"PRODUCT_INACTIVE":          http.StatusUnprocessableEntity,
	"SHOP_INACTIVE":             http.StatusUnprocessableEntity,
	"INVALID_CUSTOMER":          http.StatusUnprocessableEntity,
	"INVALID_SHOP":              http.StatusUnprocessableEntity,
	"NO_ITEMS":                  http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":            http.StatusUnprocessableEntity,
	"ALREADY_DEACTIVATED":       http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
