package cashflow

import (
	"context"
	"fmt"

	"github.com/cashdesk/backend/internal/domain/branch"
	"github.com/cashdesk/backend/internal/domain/cashflow"
	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StatsService computes approved cashflow totals
type StatsService struct {
	movements cashflow.Repository
	scope     branchScope
	logger    *zap.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(movements cashflow.Repository, branches branch.Repository, logger *zap.Logger) *StatsService {
	return &StatsService{
		movements: movements,
		scope:     branchScope{branches: branches},
		logger:    logger,
	}
}

// GetStats sums approved income and expense and counts pending movements.
// Delivered movements keep counting as approved. The three aggregates run concurrently.
func (s *StatsService) GetStats(ctx context.Context, actor *identity.Actor, input StatsInput) (*StatsResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cashflow_stats", "get")
	defer span.End()

	branchID, err := s.scope.forRead(ctx, actor, input.BranchID, "Operators can only access stats for their branch")
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	filter := cashflow.StatsFilter{
		OrganizationID: actor.OrganizationID,
		BranchID:       branchID,
		From:           input.From,
		To:             input.To,
	}

	var stats cashflow.Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.movements.SumApproved(gctx, filter, cashflow.MovementTypeIncome)
		if err != nil {
			return fmt.Errorf("failed to sum approved income: %w", err)
		}
		stats.TotalIncomeApproved = total
		return nil
	})
	g.Go(func() error {
		total, err := s.movements.SumApproved(gctx, filter, cashflow.MovementTypeExpense)
		if err != nil {
			return fmt.Errorf("failed to sum approved expense: %w", err)
		}
		stats.TotalExpenseApproved = total
		return nil
	})
	g.Go(func() error {
		count, err := s.movements.CountByStatus(gctx, filter, cashflow.MovementStatusPending)
		if err != nil {
			return fmt.Errorf("failed to count pending movements: %w", err)
		}
		stats.PendingCount = count
		return nil
	})
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to compute cashflow stats",
			zap.String("organization_id", actor.OrganizationID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	response := ToStatsResponse(stats)
	return &response, nil
}
