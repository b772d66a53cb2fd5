package dto

import "net/http"

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall back to 500.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,

	// Conflicts: duplicate records and serialized generation runs
	"READING_EXISTS":         http.StatusConflict,
	"BILLS_EXIST":            http.StatusConflict,
	"PAYOUTS_EXIST":          http.StatusConflict,
	"GENERATION_IN_PROGRESS": http.StatusConflict,
	"APARTMENT_ASSIGNED":     http.StatusConflict,
	"METER_EXISTS":           http.StatusConflict,
	"PAYOUT_ALREADY_PAID":    http.StatusConflict,
	"DUPLICATE_APARTMENT":    http.StatusConflict,

	// Input validation failures
	"NEGATIVE_CONSUMPTION": http.StatusBadRequest,
	"INVALID_MONTH":        http.StatusBadRequest,
	"INVALID_RATE":         http.StatusBadRequest,
	"INVALID_AMOUNT":       http.StatusBadRequest,
	"INVALID_DATE":         http.StatusBadRequest,
	"INVALID_DUE_DATE":     http.StatusBadRequest,
	"INVALID_END_DATE":     http.StatusBadRequest,
	"INVALID_METHOD":       http.StatusBadRequest,
	"INVALID_BILL":         http.StatusBadRequest,
	"INVALID_UNITS":        http.StatusBadRequest,
	"INVALID_NAME":         http.StatusBadRequest,
	"INVALID_PHONE":        http.StatusBadRequest,
	"INVALID_NUMBER":       http.StatusBadRequest,
	"INVALID_TYPE":         http.StatusBadRequest,
	"INVALID_TENANT":       http.StatusBadRequest,
	"INVALID_OWNER":        http.StatusBadRequest,
	"INVALID_APARTMENT":    http.StatusBadRequest,
	"INVALID_CONTRACT":     http.StatusBadRequest,
	"INVALID_METER":        http.StatusBadRequest,
	"INVALID_METER_TYPE":   http.StatusBadRequest,
	"INVALID_ASSIGNMENT":   http.StatusBadRequest,
	"INVALID_START_DATE":   http.StatusBadRequest,
	"INVALID_INPUT":        http.StatusBadRequest,
	"INVALID_ITEM":         http.StatusBadRequest,
	"INVALID_LINK":         http.StatusBadRequest,

	// Duplicates and optimistic lock failures surfaced by repositories
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Operations rejected by the aggregate's current state
	"INVALID_STATE": http.StatusUnprocessableEntity,
	"METER_RETIRED": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
