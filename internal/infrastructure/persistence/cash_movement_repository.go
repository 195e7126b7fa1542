package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/cashdesk/backend/internal/domain/cashflow"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/cashdesk/backend/internal/infrastructure/persistence/models"
	"github.com/cashdesk/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCashMovementRepository implements cashflow.Repository using GORM
type GormCashMovementRepository struct {
	db *gorm.DB
}

// NewGormCashMovementRepository creates a new GormCashMovementRepository
func NewGormCashMovementRepository(db *gorm.DB) *GormCashMovementRepository {
	return &GormCashMovementRepository{db: db}
}

// Create inserts a new cash movement
func (r *GormCashMovementRepository) Create(ctx context.Context, m *cashflow.CashMovement) error {
	if err := r.db.WithContext(ctx).Create(models.CashMovementModelFromDomain(m)).Error; err != nil {
		return fmt.Errorf("create cash movement: %w", err)
	}
	return nil
}

// FindByIDForOrganization finds a movement by ID within an organization
func (r *GormCashMovementRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*cashflow.CashMovement, error) {
	var model models.CashMovementModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.OrganizationScope(organizationID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrCashMovementNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List finds movements matching filter, newest first
func (r *GormCashMovementRepository) List(ctx context.Context, filter cashflow.MovementFilter) ([]*cashflow.CashMovement, error) {
	eq := tenant.Filter{}
	if filter.BranchID != nil {
		eq["branch_id"] = *filter.BranchID
	}
	if filter.Status != nil {
		eq["status"] = *filter.Status
	}
	where, err := tenant.WithOrganization(filter.OrganizationID, eq)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Where(map[string]any(where))
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var rows []models.CashMovementModel
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	movements := make([]*cashflow.CashMovement, 0, len(rows))
	for i := range rows {
		movements = append(movements, rows[i].ToDomain())
	}
	return movements, nil
}

// ApplyTransition performs a conditional status update keyed on the expected current status.
// When no row matches, another writer moved the movement first.
func (r *GormCashMovementRepository) ApplyTransition(ctx context.Context, t cashflow.Transition) error {
	updates := map[string]any{
		"status":     t.To,
		"updated_at": t.UpdatedAt,
	}
	if t.To == cashflow.MovementStatusDelivered {
		// Delivery never overwrites an existing approval stamp.
		updates["approved_by_id"] = gorm.Expr("COALESCE(approved_by_id, ?)", t.ApprovedByID)
		updates["approved_at"] = gorm.Expr("COALESCE(approved_at, ?)", t.ApprovedAt)
	} else {
		updates["approved_by_id"] = t.ApprovedByID
		updates["approved_at"] = t.ApprovedAt
	}

	result := r.db.WithContext(ctx).Model(&models.CashMovementModel{}).
		Where("id = ? AND organization_id = ? AND status = ?", t.MovementID, t.OrganizationID, t.From).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update cash movement status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return cashflow.ErrInvalidTransition(t.To)
	}
	return nil
}

// SumApproved totals movementType amounts in APPROVED or DELIVERED status
func (r *GormCashMovementRepository) SumApproved(ctx context.Context, filter cashflow.StatsFilter, movementType cashflow.MovementType) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.statsQuery(ctx, filter).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("type = ? AND status IN ?", movementType, cashflow.ApprovedStatuses()).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// CountByStatus counts movements in status
func (r *GormCashMovementRepository) CountByStatus(ctx context.Context, filter cashflow.StatsFilter, status cashflow.MovementStatus) (int64, error) {
	var count int64
	if err := r.statsQuery(ctx, filter).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCashMovementRepository) statsQuery(ctx context.Context, filter cashflow.StatsFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.CashMovementModel{}).
		Scopes(tenant.OrganizationScope(filter.OrganizationID))
	if filter.BranchID != nil {
		query = query.Where("branch_id = ?", *filter.BranchID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	return query
}
