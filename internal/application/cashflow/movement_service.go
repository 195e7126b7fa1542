package cashflow

import (
	"context"
	"fmt"
	"time"

	"github.com/cashdesk/backend/internal/domain/branch"
	"github.com/cashdesk/backend/internal/domain/cashflow"
	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/cashdesk/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	spanService = "cash_movement"

	spanAttrMovementID = "movement_id"
	spanAttrBranchID   = "branch_id"
	spanAttrStatus     = "status"
)

// MovementService records cash movements and drives their approval workflow
type MovementService struct {
	movements cashflow.Repository
	scope     branchScope
	metrics   *telemetry.CashflowMetrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewMovementService creates a new MovementService
func NewMovementService(
	movements cashflow.Repository,
	branches branch.Repository,
	logger *zap.Logger,
) *MovementService {
	return &MovementService{
		movements: movements,
		scope:     branchScope{branches: branches},
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetMetrics sets the cashflow metrics collector
func (s *MovementService) SetMetrics(m *telemetry.CashflowMetrics) {
	s.metrics = m
}

// Create records a PENDING movement against the caller's permitted branch
func (s *MovementService) Create(ctx context.Context, actor *identity.Actor, input CreateMovementInput) (*MovementResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "create")
	defer span.End()

	branchID, err := s.scope.forWrite(ctx, actor, input.BranchID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, spanAttrBranchID, branchID.String())

	movement, err := cashflow.NewCashMovement(
		actor.OrganizationID,
		branchID,
		input.Type,
		input.Amount,
		input.Description,
		actor.UserID,
	)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.movements.Create(ctx, movement); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save cash movement: %w", err)
	}

	s.metrics.RecordCreated(ctx, actor.OrganizationID.String(), movement.Type.String(), movement.Amount.InexactFloat64())
	s.logger.Info("Cash movement created",
		zap.String("movement_id", movement.ID.String()),
		zap.String("organization_id", actor.OrganizationID.String()),
		zap.String("branch_id", branchID.String()),
		zap.String("type", movement.Type.String()),
		zap.String("amount", movement.Amount.String()),
	)

	response := ToMovementResponse(movement)
	return &response, nil
}

// List returns the organization's movements, newest first
func (s *MovementService) List(ctx context.Context, actor *identity.Actor, input ListMovementsInput) ([]MovementResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, "list")
	defer span.End()

	if input.Status != nil && !input.Status.IsValid() {
		return nil, shared.NewValidationError("Status must be one of PENDING, APPROVED, REJECTED, DELIVERED")
	}

	branchID, err := s.scope.forRead(ctx, actor, input.BranchID, "Operators can only access their branch movements")
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	movements, err := s.movements.List(ctx, cashflow.MovementFilter{
		OrganizationID: actor.OrganizationID,
		BranchID:       branchID,
		Status:         input.Status,
		From:           input.From,
		To:             input.To,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to list cash movements: %w", err)
	}
	return ToMovementResponses(movements), nil
}

// Approve moves a PENDING movement to APPROVED
func (s *MovementService) Approve(ctx context.Context, actor *identity.Actor, movementID uuid.UUID) (*MovementResponse, error) {
	return s.transition(ctx, actor, movementID, "approve", cashflow.MovementStatusApproved, func(m *cashflow.CashMovement, at time.Time) error {
		return m.Approve(actor.UserID, at)
	})
}

// Reject moves a PENDING movement to REJECTED
func (s *MovementService) Reject(ctx context.Context, actor *identity.Actor, movementID uuid.UUID) (*MovementResponse, error) {
	return s.transition(ctx, actor, movementID, "reject", cashflow.MovementStatusRejected, func(m *cashflow.CashMovement, at time.Time) error {
		return m.Reject(actor.UserID, at)
	})
}

// Deliver moves an APPROVED movement to DELIVERED, keeping the original approval stamp
func (s *MovementService) Deliver(ctx context.Context, actor *identity.Actor, movementID uuid.UUID) (*MovementResponse, error) {
	return s.transition(ctx, actor, movementID, "deliver", cashflow.MovementStatusDelivered, func(m *cashflow.CashMovement, at time.Time) error {
		backfilled, err := m.Deliver(actor.UserID, at)
		if err != nil {
			return err
		}
		if backfilled {
			s.metrics.RecordBackfill(ctx, m.OrganizationID.String())
			s.logger.Warn("Approved movement had no approval stamp, back-filled on delivery",
				zap.String("movement_id", m.ID.String()),
				zap.String("organization_id", m.OrganizationID.String()),
				zap.String("delivered_by", actor.UserID.String()),
			)
		}
		return nil
	})
}

// transition loads the movement inside the caller's organization, applies apply
// in memory and persists it with a conditional write on the previous status.
func (s *MovementService) transition(
	ctx context.Context,
	actor *identity.Actor,
	movementID uuid.UUID,
	method string,
	target cashflow.MovementStatus,
	apply func(m *cashflow.CashMovement, at time.Time) error,
) (*MovementResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, spanService, method)
	defer span.End()
	telemetry.SetAttributes(span, spanAttrMovementID, movementID.String())

	movement, err := s.movements.FindByIDForOrganization(ctx, actor.OrganizationID, movementID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	from := movement.Status
	if err := apply(movement, s.now()); err != nil {
		s.recordFailure(ctx, span, actor.OrganizationID, target, err)
		return nil, err
	}

	if err := s.movements.ApplyTransition(ctx, cashflow.TransitionFrom(movement, from)); err != nil {
		s.recordFailure(ctx, span, actor.OrganizationID, target, err)
		if shared.HasCode(err, shared.CodeCashMovementInvalidTransition) {
			s.logger.Info("Cash movement changed concurrently",
				zap.String("movement_id", movementID.String()),
				zap.String("expected_status", from.String()),
			)
			return nil, err
		}
		return nil, fmt.Errorf("failed to update cash movement: %w", err)
	}

	telemetry.SetAttributes(span, spanAttrStatus, movement.Status.String())
	s.metrics.RecordTransition(ctx, actor.OrganizationID.String(), from.String(), movement.Status.String())
	s.logger.Info("Cash movement status changed",
		zap.String("movement_id", movementID.String()),
		zap.String("from", from.String()),
		zap.String("to", movement.Status.String()),
		zap.String("actor_id", actor.UserID.String()),
	)

	response := ToMovementResponse(movement)
	return &response, nil
}

func (s *MovementService) recordFailure(ctx context.Context, span trace.Span, organizationID uuid.UUID, target cashflow.MovementStatus, err error) {
	telemetry.RecordError(span, err)
	if shared.HasCode(err, shared.CodeCashMovementInvalidTransition) {
		s.metrics.RecordConflict(ctx, organizationID.String(), target.String())
	}
}
