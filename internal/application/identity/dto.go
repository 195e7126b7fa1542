package identity

import (
	"time"

	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        UserInfo  `json:"user"`
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	OrganizationID uuid.UUID  `json:"organizationId"`
	BranchID       *uuid.UUID `json:"branchId"`
	Roles          []string   `json:"roles"`
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID    uuid.UUID
	SessionID string
	// TTL is the remaining lifetime of the token being logged out
	TTL time.Duration
}

// CreateUserInput contains the input for creating a user
type CreateUserInput struct {
	Email    string
	Password string
	Roles    []string
	BranchID *uuid.UUID
}

// UpdateUserInput contains the optional fields of a user update. A nil Roles
// leaves memberships untouched; a non-nil empty slice is rejected.
type UpdateUserInput struct {
	IsActive *bool
	BranchID *uuid.UUID
	Roles    *[]string
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	IsActive       bool       `json:"isActive"`
	OrganizationID uuid.UUID  `json:"organizationId"`
	BranchID       *uuid.UUID `json:"branchId"`
	Roles          []string   `json:"roles"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func roleStrings(names []identity.RoleName) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n.String()
	}
	return out
}

// ToUserResponse converts a domain user to its response
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		IsActive:       u.IsActive,
		OrganizationID: u.OrganizationID,
		BranchID:       u.BranchID,
		Roles:          roleStrings(u.RoleNames()),
		CreatedAt:      u.CreatedAt,
	}
}
