package organization

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists organizations
type Repository interface {
	// Create fails with ORGANIZATION_SLUG_ALREADY_EXISTS on a duplicate slug
	Create(ctx context.Context, org *Organization) error
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	// ListByID returns the organization matching id, newest first (zero or one rows)
	ListByID(ctx context.Context, id uuid.UUID) ([]*Organization, error)
}
