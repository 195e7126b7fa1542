package cashflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cashdesk/backend/internal/domain/cashflow"
	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newActor(orgID uuid.UUID, branchID *uuid.UUID, roles ...identity.RoleName) *identity.Actor {
	return identity.NewActor(
		&identity.Identity{UserID: uuid.New(), OrganizationID: orgID, BranchID: branchID},
		&identity.Grants{Roles: roles},
	)
}

func newPendingMovement(t *testing.T, orgID, branchID uuid.UUID) *cashflow.CashMovement {
	t.Helper()
	m, err := cashflow.NewCashMovement(orgID, branchID, cashflow.MovementTypeIncome,
		decimal.RequireFromString("100.50"), nil, uuid.New())
	require.NoError(t, err)
	return m
}

func setupMovementService(logger *zap.Logger) (*MovementService, *MockMovementRepository, *MockBranchRepository) {
	movements := new(MockMovementRepository)
	branches := new(MockBranchRepository)
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := NewMovementService(movements, branches, logger)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, movements, branches
}

func TestMovementService_Create(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	ownBranch := uuid.New()
	otherBranch := uuid.New()

	t.Run("operator is pinned to own branch", func(t *testing.T) {
		svc, movements, branches := setupMovementService(nil)
		actor := newActor(orgID, &ownBranch, identity.RoleOperator)

		branches.On("ExistsInOrganization", mock.Anything, orgID, ownBranch).Return(true, nil)
		movements.On("Create", mock.Anything, mock.MatchedBy(func(m *cashflow.CashMovement) bool {
			return m.BranchID == ownBranch && m.OrganizationID == orgID && m.CreatedByID == actor.UserID
		})).Return(nil)

		desc := "  float top-up  "
		resp, err := svc.Create(ctx, actor, CreateMovementInput{
			Type:        cashflow.MovementTypeIncome,
			Amount:      decimal.RequireFromString("100.50"),
			Description: &desc,
			BranchID:    &otherBranch,
		})

		require.NoError(t, err)
		assert.Equal(t, ownBranch, resp.BranchID)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "100.5", resp.Amount)
		assert.Equal(t, "float top-up", *resp.Description)
		assert.Nil(t, resp.ApprovedByID)
		branches.AssertNotCalled(t, "ExistsInOrganization", mock.Anything, orgID, otherBranch)
		movements.AssertExpectations(t)
	})

	t.Run("operator without branch is denied", func(t *testing.T) {
		svc, movements, _ := setupMovementService(nil)
		actor := newActor(orgID, nil, identity.RoleOperator)

		_, err := svc.Create(ctx, actor, CreateMovementInput{
			Type:   cashflow.MovementTypeExpense,
			Amount: decimal.NewFromInt(10),
		})

		assert.True(t, shared.HasCode(err, shared.CodeAccessDenied))
		movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("admin uses requested branch", func(t *testing.T) {
		svc, movements, branches := setupMovementService(nil)
		actor := newActor(orgID, &ownBranch, identity.RoleAdmin)

		branches.On("ExistsInOrganization", mock.Anything, orgID, otherBranch).Return(true, nil)
		movements.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, actor, CreateMovementInput{
			Type:     cashflow.MovementTypeExpense,
			Amount:   decimal.NewFromInt(10),
			BranchID: &otherBranch,
		})

		require.NoError(t, err)
		assert.Equal(t, otherBranch, resp.BranchID)
	})

	t.Run("admin falls back to own branch", func(t *testing.T) {
		svc, movements, branches := setupMovementService(nil)
		actor := newActor(orgID, &ownBranch, identity.RoleAdmin)

		branches.On("ExistsInOrganization", mock.Anything, orgID, ownBranch).Return(true, nil)
		movements.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Create(ctx, actor, CreateMovementInput{
			Type:   cashflow.MovementTypeExpense,
			Amount: decimal.NewFromInt(10),
		})

		require.NoError(t, err)
		assert.Equal(t, ownBranch, resp.BranchID)
	})

	t.Run("no branch anywhere is denied", func(t *testing.T) {
		svc, _, _ := setupMovementService(nil)
		actor := newActor(orgID, nil, identity.RoleAdmin)

		_, err := svc.Create(ctx, actor, CreateMovementInput{
			Type:   cashflow.MovementTypeExpense,
			Amount: decimal.NewFromInt(10),
		})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeAccessDenied, de.Code)
		assert.Equal(t, "Branch is required for this operation", de.Message)
	})

	t.Run("branch of another organization is not found", func(t *testing.T) {
		svc, _, branches := setupMovementService(nil)
		actor := newActor(orgID, nil, identity.RoleAdmin)
		branches.On("ExistsInOrganization", mock.Anything, orgID, otherBranch).Return(false, nil)

		_, err := svc.Create(ctx, actor, CreateMovementInput{
			Type:     cashflow.MovementTypeIncome,
			Amount:   decimal.NewFromInt(10),
			BranchID: &otherBranch,
		})

		assert.ErrorIs(t, err, shared.ErrBranchNotFound)
	})

	t.Run("amount with three decimals is rejected", func(t *testing.T) {
		svc, movements, branches := setupMovementService(nil)
		actor := newActor(orgID, &ownBranch, identity.RoleOperator)
		branches.On("ExistsInOrganization", mock.Anything, orgID, ownBranch).Return(true, nil)

		_, err := svc.Create(ctx, actor, CreateMovementInput{
			Type:   cashflow.MovementTypeIncome,
			Amount: decimal.RequireFromString("10.555"),
		})

		assert.True(t, shared.HasCode(err, shared.CodeValidation))
		movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("repository failure is wrapped", func(t *testing.T) {
		svc, movements, branches := setupMovementService(nil)
		actor := newActor(orgID, &ownBranch, identity.RoleOperator)
		branches.On("ExistsInOrganization", mock.Anything, orgID, ownBranch).Return(true, nil)
		dbErr := errors.New("connection reset")
		movements.On("Create", mock.Anything, mock.Anything).Return(dbErr)

		_, err := svc.Create(ctx, actor, CreateMovementInput{
			Type:   cashflow.MovementTypeIncome,
			Amount: decimal.NewFromInt(5),
		})

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestMovementService_List(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	ownBranch := uuid.New()
	otherBranch := uuid.New()

	t.Run("operator filter is forced to own branch", func(t *testing.T) {
		svc, movements, _ := setupMovementService(nil)
		actor := newActor(orgID, &ownBranch, identity.RoleOperator)
		status := cashflow.MovementStatusPending

		movements.On("List", mock.Anything, mock.MatchedBy(func(f cashflow.MovementFilter) bool {
			return f.OrganizationID == orgID && f.BranchID != nil && *f.BranchID == ownBranch &&
				f.Status != nil && *f.Status == status
		})).Return([]*cashflow.CashMovement{newPendingMovement(t, orgID, ownBranch)}, nil)

		list, err := svc.List(ctx, actor, ListMovementsInput{Status: &status})

		require.NoError(t, err)
		assert.Len(t, list, 1)
		movements.AssertExpectations(t)
	})

	t.Run("operator naming another branch is denied", func(t *testing.T) {
		svc, movements, _ := setupMovementService(nil)
		actor := newActor(orgID, &ownBranch, identity.RoleOperator)

		_, err := svc.List(ctx, actor, ListMovementsInput{BranchID: &otherBranch})

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeAccessDenied, de.Code)
		assert.Equal(t, "Operators can only access their branch movements", de.Message)
		movements.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("manager without branch sees whole organization", func(t *testing.T) {
		svc, movements, _ := setupMovementService(nil)
		actor := newActor(orgID, nil, identity.RoleManager)

		movements.On("List", mock.Anything, mock.MatchedBy(func(f cashflow.MovementFilter) bool {
			return f.OrganizationID == orgID && f.BranchID == nil
		})).Return([]*cashflow.CashMovement{}, nil)

		list, err := svc.List(ctx, actor, ListMovementsInput{})

		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("manager naming unknown branch gets not found", func(t *testing.T) {
		svc, _, branches := setupMovementService(nil)
		actor := newActor(orgID, nil, identity.RoleManager)
		branches.On("ExistsInOrganization", mock.Anything, orgID, otherBranch).Return(false, nil)

		_, err := svc.List(ctx, actor, ListMovementsInput{BranchID: &otherBranch})

		assert.ErrorIs(t, err, shared.ErrBranchNotFound)
	})

	t.Run("unknown status is a validation error", func(t *testing.T) {
		svc, _, _ := setupMovementService(nil)
		actor := newActor(orgID, nil, identity.RoleManager)
		status := cashflow.MovementStatus("CANCELLED")

		_, err := svc.List(ctx, actor, ListMovementsInput{Status: &status})

		assert.True(t, shared.HasCode(err, shared.CodeValidation))
	})
}

func TestMovementService_Approve(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	branchID := uuid.New()

	t.Run("pending movement is approved with a conditional write", func(t *testing.T) {
		svc, movements, _ := setupMovementService(nil)
		actor := newActor(orgID, nil, identity.RoleManager)
		m := newPendingMovement(t, orgID, branchID)

		movements.On("FindByIDForOrganization", mock.Anything, orgID, m.ID).Return(m, nil)
		movements.On("ApplyTransition", mock.Anything, mock.MatchedBy(func(tr cashflow.Transition) bool {
			return tr.MovementID == m.ID &&
				tr.OrganizationID == orgID &&
				tr.From == cashflow.MovementStatusPending &&
				tr.To == cashflow.MovementStatusApproved &&
				tr.ApprovedByID != nil && *tr.ApprovedByID == actor.UserID
		})).Return(nil)

		resp, err := svc.Approve(ctx, actor, m.ID)

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", resp.Status)
		assert.Equal(t, actor.UserID, *resp.ApprovedByID)
		assert.Equal(t, svc.now(), *resp.ApprovedAt)
		movements.AssertExpectations(t)
	})

	t.Run("unknown movement is not found", func(t *testing.T) {
		svc, movements, _ := setupMovementService(nil)
		actor := newActor(orgID, nil, identity.RoleManager)
		id := uuid.New()
		movements.On("FindByIDForOrganization", mock.Anything, orgID, id).Return(nil, shared.ErrCashMovementNotFound)

		_, err := svc.Approve(ctx, actor, id)

		assert.ErrorIs(t, err, shared.ErrCashMovementNotFound)
	})

	t.Run("delivered movement cannot be approved", func(t *testing.T) {
		svc, movements, _ := setupMovementService(nil)
		actor := newActor(orgID, nil, identity.RoleManager)
		m := newPendingMovement(t, orgID, branchID)
		m.Status = cashflow.MovementStatusDelivered
		movements.On("FindByIDForOrganization", mock.Anything, orgID, m.ID).Return(m, nil)

		_, err := svc.Approve(ctx, actor, m.ID)

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeCashMovementInvalidTransition, de.Code)
		assert.Equal(t, "Only pending movements can be approved or rejected", de.Message)
		movements.AssertNotCalled(t, "ApplyTransition", mock.Anything, mock.Anything)
	})

	t.Run("lost race surfaces the same conflict", func(t *testing.T) {
		svc, movements, _ := setupMovementService(nil)
		actor := newActor(orgID, nil, identity.RoleManager)
		m := newPendingMovement(t, orgID, branchID)
		movements.On("FindByIDForOrganization", mock.Anything, orgID, m.ID).Return(m, nil)
		movements.On("ApplyTransition", mock.Anything, mock.Anything).
			Return(cashflow.ErrInvalidTransition(cashflow.MovementStatusApproved))

		_, err := svc.Approve(ctx, actor, m.ID)

		assert.True(t, shared.HasCode(err, shared.CodeCashMovementInvalidTransition))
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		svc, movements, _ := setupMovementService(nil)
		actor := newActor(orgID, nil, identity.RoleManager)
		m := newPendingMovement(t, orgID, branchID)
		dbErr := errors.New("deadlock detected")
		movements.On("FindByIDForOrganization", mock.Anything, orgID, m.ID).Return(m, nil)
		movements.On("ApplyTransition", mock.Anything, mock.Anything).Return(dbErr)

		_, err := svc.Approve(ctx, actor, m.ID)

		assert.ErrorIs(t, err, dbErr)
		assert.False(t, shared.HasCode(err, shared.CodeCashMovementInvalidTransition))
	})
}

func TestMovementService_Reject(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	svc, movements, _ := setupMovementService(nil)
	actor := newActor(orgID, nil, identity.RoleAdmin)
	m := newPendingMovement(t, orgID, uuid.New())

	movements.On("FindByIDForOrganization", mock.Anything, orgID, m.ID).Return(m, nil)
	movements.On("ApplyTransition", mock.Anything, mock.MatchedBy(func(tr cashflow.Transition) bool {
		return tr.From == cashflow.MovementStatusPending && tr.To == cashflow.MovementStatusRejected
	})).Return(nil)

	resp, err := svc.Reject(ctx, actor, m.ID)

	require.NoError(t, err)
	assert.Equal(t, "REJECTED", resp.Status)
	assert.Equal(t, actor.UserID, *resp.ApprovedByID)
}

func TestMovementService_Deliver(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	branchID := uuid.New()

	t.Run("keeps the original approver", func(t *testing.T) {
		svc, movements, _ := setupMovementService(nil)
		approver := uuid.New()
		approvedAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
		m := newPendingMovement(t, orgID, branchID)
		require.NoError(t, m.Approve(approver, approvedAt))

		deliverer := newActor(orgID, nil, identity.RoleManager)
		movements.On("FindByIDForOrganization", mock.Anything, orgID, m.ID).Return(m, nil)
		movements.On("ApplyTransition", mock.Anything, mock.MatchedBy(func(tr cashflow.Transition) bool {
			return tr.From == cashflow.MovementStatusApproved &&
				tr.To == cashflow.MovementStatusDelivered &&
				*tr.ApprovedByID == approver
		})).Return(nil)

		resp, err := svc.Deliver(ctx, deliverer, m.ID)

		require.NoError(t, err)
		assert.Equal(t, "DELIVERED", resp.Status)
		assert.Equal(t, approver, *resp.ApprovedByID)
		assert.Equal(t, approvedAt, *resp.ApprovedAt)
	})

	t.Run("pending movement cannot be delivered", func(t *testing.T) {
		svc, movements, _ := setupMovementService(nil)
		m := newPendingMovement(t, orgID, branchID)
		movements.On("FindByIDForOrganization", mock.Anything, orgID, m.ID).Return(m, nil)

		_, err := svc.Deliver(ctx, newActor(orgID, nil, identity.RoleManager), m.ID)

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "Only approved movements can be marked as delivered", de.Message)
	})

	t.Run("missing approval stamp is back-filled and logged", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		svc, movements, _ := setupMovementService(zap.New(core))
		m := newPendingMovement(t, orgID, branchID)
		m.Status = cashflow.MovementStatusApproved

		deliverer := newActor(orgID, nil, identity.RoleAdmin)
		movements.On("FindByIDForOrganization", mock.Anything, orgID, m.ID).Return(m, nil)
		movements.On("ApplyTransition", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Deliver(ctx, deliverer, m.ID)

		require.NoError(t, err)
		assert.Equal(t, deliverer.UserID, *resp.ApprovedByID)
		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "Approved movement had no approval stamp, back-filled on delivery", entry.Message)
		assert.Equal(t, m.ID.String(), entry.ContextMap()["movement_id"])
	})
}
