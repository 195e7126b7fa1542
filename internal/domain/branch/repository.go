package branch

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists branches. Every method is scoped to an organization.
type Repository interface {
	// Create fails with BRANCH_ALREADY_EXISTS when the name is taken in the organization
	Create(ctx context.Context, b *Branch) error
	// ListByOrganization returns branches newest first
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*Branch, error)
	ExistsInOrganization(ctx context.Context, organizationID, branchID uuid.UUID) (bool, error)
}
