package cashflow

import (
	"context"

	"github.com/cashdesk/backend/internal/domain/branch"
	"github.com/cashdesk/backend/internal/domain/cashflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockMovementRepository is a mock implementation of cashflow.Repository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *cashflow.CashMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*cashflow.CashMovement, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cashflow.CashMovement), args.Error(1)
}

func (m *MockMovementRepository) List(ctx context.Context, filter cashflow.MovementFilter) ([]*cashflow.CashMovement, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cashflow.CashMovement), args.Error(1)
}

func (m *MockMovementRepository) ApplyTransition(ctx context.Context, t cashflow.Transition) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockMovementRepository) SumApproved(ctx context.Context, filter cashflow.StatsFilter, movementType cashflow.MovementType) (decimal.Decimal, error) {
	args := m.Called(ctx, filter, movementType)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockMovementRepository) CountByStatus(ctx context.Context, filter cashflow.StatsFilter, status cashflow.MovementStatus) (int64, error) {
	args := m.Called(ctx, filter, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockBranchRepository is a mock implementation of branch.Repository
type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) Create(ctx context.Context, b *branch.Branch) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBranchRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*branch.Branch, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*branch.Branch), args.Error(1)
}

func (m *MockBranchRepository) ExistsInOrganization(ctx context.Context, organizationID, branchID uuid.UUID) (bool, error) {
	args := m.Called(ctx, organizationID, branchID)
	return args.Bool(0), args.Error(1)
}
