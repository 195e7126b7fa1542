package cashflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository persists cash movements. Reads and writes are always organization scoped.
type Repository interface {
	Create(ctx context.Context, m *CashMovement) error
	// FindByIDForOrganization returns CASH_MOVEMENT_NOT_FOUND when the id is unknown or belongs
	// to another organization
	FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*CashMovement, error)
	// List returns matching movements ordered by createdAt DESC
	List(ctx context.Context, filter MovementFilter) ([]*CashMovement, error)
	// ApplyTransition writes t only if the stored status still equals t.From.
	// A lost race returns CASH_MOVEMENT_INVALID_STATUS_TRANSITION.
	ApplyTransition(ctx context.Context, t Transition) error
	// SumApproved totals amounts of movementType in APPROVED or DELIVERED status
	SumApproved(ctx context.Context, filter StatsFilter, movementType MovementType) (decimal.Decimal, error)
	CountByStatus(ctx context.Context, filter StatsFilter, status MovementStatus) (int64, error)
}
