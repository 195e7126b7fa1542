package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists users and their role memberships
type UserRepository interface {
	// FindByID loads a user regardless of organization. Only identity
	// resolution uses it; everything else goes through FindByIDForOrganization.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindActiveByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*User, error)
	// Create inserts the user and its role memberships atomically
	Create(ctx context.Context, user *User) error
	// Update saves scalar fields and replaces role memberships atomically
	Update(ctx context.Context, user *User) error
}

// RoleRepository reads the role/permission graph
type RoleRepository interface {
	FindByNames(ctx context.Context, names []RoleName) ([]Role, error)
	// FindGrantsForUser walks UserRole -> Role -> RolePermission
	FindGrantsForUser(ctx context.Context, userID uuid.UUID) (*Grants, error)
}
