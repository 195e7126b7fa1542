package shared

import "errors"

// DomainError represents a domain-level error with a stable, machine-readable code
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError carrying the same code, so callers can use
// errors.Is against the sentinel values below regardless of message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes surfaced to API clients
const (
	CodeUnauthorized       = "AUTH_UNAUTHORIZED"
	CodeTokenExpired       = "AUTH_TOKEN_EXPIRED"
	CodeTokenInvalid       = "AUTH_TOKEN_INVALID"
	CodeUserInactive       = "AUTH_USER_INACTIVE"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"

	CodeAccessDenied = "ACCESS_DENIED"

	CodeOrganizationNotFound   = "ORGANIZATION_NOT_FOUND"
	CodeOrganizationSlugExists = "ORGANIZATION_SLUG_ALREADY_EXISTS"

	CodeBranchNotFound      = "BRANCH_NOT_FOUND"
	CodeBranchAlreadyExists = "BRANCH_ALREADY_EXISTS"

	CodeCashMovementNotFound          = "CASH_MOVEMENT_NOT_FOUND"
	CodeCashMovementInvalidTransition = "CASH_MOVEMENT_INVALID_STATUS_TRANSITION"

	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeUserAlreadyExists = "USER_ALREADY_EXISTS"
	CodeUserRoleRequired  = "USER_ROLE_REQUIRED"
	CodeUserInvalidRole   = "USER_INVALID_ROLE"

	CodeValidation = "VALIDATION_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
)

// Common domain errors
var (
	ErrUnauthorized       = NewDomainError(CodeUnauthorized, "Unauthorized")
	ErrUserInactive       = NewDomainError(CodeUserInactive, "Unauthorized")
	ErrInvalidCredentials = NewDomainError(CodeInvalidCredentials, "Invalid email or password")

	ErrAccessDenied = NewDomainError(CodeAccessDenied, "Access denied")

	ErrOrganizationNotFound   = NewDomainError(CodeOrganizationNotFound, "Organization not found")
	ErrOrganizationSlugExists = NewDomainError(CodeOrganizationSlugExists, "Organization slug already exists")

	ErrBranchNotFound      = NewDomainError(CodeBranchNotFound, "Branch not found")
	ErrBranchAlreadyExists = NewDomainError(CodeBranchAlreadyExists, "Branch name already exists in this organization")

	ErrCashMovementNotFound = NewDomainError(CodeCashMovementNotFound, "Cash movement not found")

	ErrUserNotFound      = NewDomainError(CodeUserNotFound, "User not found")
	ErrUserAlreadyExists = NewDomainError(CodeUserAlreadyExists, "User already exists")
	ErrUserRoleRequired  = NewDomainError(CodeUserRoleRequired, "At least one role is required")
	ErrUserInvalidRole   = NewDomainError(CodeUserInvalidRole, "One or more roles are invalid")
)

// NewValidationError creates a VALIDATION_ERROR with the given message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// HasCode reports whether err is (or wraps) a DomainError with the given code
func HasCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}
