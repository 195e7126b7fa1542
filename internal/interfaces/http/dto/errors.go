package dto

import (
	"net/http"

	"github.com/cashdesk/backend/internal/domain/shared"
)

// Error codes returned by the HTTP layer itself. Domain codes live in the
// shared package and are re-exported here so handlers and middleware use a
// single vocabulary.
const (
	ErrCodeUnauthorized       = shared.CodeUnauthorized
	ErrCodeTokenExpired       = shared.CodeTokenExpired
	ErrCodeTokenInvalid       = shared.CodeTokenInvalid
	ErrCodeUserInactive       = shared.CodeUserInactive
	ErrCodeInvalidCredentials = shared.CodeInvalidCredentials
	ErrCodeAccessDenied       = shared.CodeAccessDenied
	ErrCodeValidation         = shared.CodeValidation
	ErrCodeInternal           = shared.CodeInternal

	// ErrCodeNotFound is used for unmatched routes
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	// ErrCodeServiceUnavailable is used by the health endpoint when a dependency is down
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// Authentication -> 401
	shared.CodeUnauthorized:       http.StatusUnauthorized,
	shared.CodeTokenExpired:       http.StatusUnauthorized,
	shared.CodeTokenInvalid:       http.StatusUnauthorized,
	shared.CodeUserInactive:       http.StatusUnauthorized,
	shared.CodeInvalidCredentials: http.StatusUnauthorized,

	// Authorization -> 403
	shared.CodeAccessDenied: http.StatusForbidden,

	// Not found -> 404
	shared.CodeCashMovementNotFound: http.StatusNotFound,
	shared.CodeBranchNotFound:       http.StatusNotFound,
	shared.CodeUserNotFound:         http.StatusNotFound,
	shared.CodeOrganizationNotFound: http.StatusNotFound,
	ErrCodeNotFound:                 http.StatusNotFound,

	// Conflicts -> 409
	shared.CodeCashMovementInvalidTransition: http.StatusConflict,
	shared.CodeBranchAlreadyExists:           http.StatusConflict,
	shared.CodeOrganizationSlugExists:        http.StatusConflict,
	shared.CodeUserAlreadyExists:             http.StatusConflict,

	// Validation -> 400
	shared.CodeValidation:       http.StatusBadRequest,
	shared.CodeUserRoleRequired: http.StatusBadRequest,
	shared.CodeUserInvalidRole:  http.StatusBadRequest,

	ErrCodeRequestTooLarge:    http.StatusRequestEntityTooLarge,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,

	shared.CodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
