package identity

import (
	"net/mail"
	"strings"
	"time"

	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// User is a member of exactly one organization. Users are never removed;
// Deactivate soft-deletes them.
type User struct {
	shared.BaseEntity
	Email          string
	PasswordHash   string
	IsActive       bool
	OrganizationID uuid.UUID
	BranchID       *uuid.UUID
	Roles          []Role
}

// NewUser creates an active user inside organizationID
func NewUser(organizationID uuid.UUID, email, passwordHash string, branchID *uuid.UUID, roles []Role) (*User, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewValidationError("Organization is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewValidationError("Email is invalid")
	}
	if passwordHash == "" {
		return nil, shared.NewValidationError("Password is required")
	}
	if len(roles) == 0 {
		return nil, shared.ErrUserRoleRequired
	}

	return &User{
		BaseEntity:     shared.NewBaseEntity(),
		Email:          email,
		PasswordHash:   passwordHash,
		IsActive:       true,
		OrganizationID: organizationID,
		BranchID:       branchID,
		Roles:          roles,
	}, nil
}

// RoleNames returns the names of the user's roles
func (u *User) RoleNames() []RoleName {
	names := make([]RoleName, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// ReplaceRoles swaps the user's memberships. At least one role is required.
func (u *User) ReplaceRoles(roles []Role) error {
	if len(roles) == 0 {
		return shared.NewDomainError(shared.CodeUserRoleRequired, "User must have at least one role")
	}
	u.Roles = roles
	u.Touch(time.Now().UTC())
	return nil
}

// AssignBranch moves the user to branchID (nil clears the assignment)
func (u *User) AssignBranch(branchID *uuid.UUID) {
	u.BranchID = branchID
	u.Touch(time.Now().UTC())
}

// SetActive toggles the active flag
func (u *User) SetActive(active bool) {
	u.IsActive = active
	u.Touch(time.Now().UTC())
}

// Deactivate soft-deletes the user
func (u *User) Deactivate() {
	u.SetActive(false)
}
