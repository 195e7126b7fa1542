package persistence

import (
	"context"
	"fmt"

	"github.com/cashdesk/backend/internal/domain/branch"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/cashdesk/backend/internal/infrastructure/persistence/models"
	"github.com/cashdesk/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBranchRepository implements branch.Repository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// Create inserts a new branch
func (r *GormBranchRepository) Create(ctx context.Context, b *branch.Branch) error {
	model := models.BranchModelFromDomain(b)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrBranchAlreadyExists
		}
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

// ListByOrganization lists the organization's branches, newest first
func (r *GormBranchRepository) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*branch.Branch, error) {
	var rows []models.BranchModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.OrganizationScope(organizationID)).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	branches := make([]*branch.Branch, 0, len(rows))
	for i := range rows {
		branches = append(branches, rows[i].ToDomain())
	}
	return branches, nil
}

// ExistsInOrganization reports whether branchID belongs to organizationID
func (r *GormBranchRepository) ExistsInOrganization(ctx context.Context, organizationID, branchID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BranchModel{}).
		Scopes(tenant.OrganizationScope(organizationID)).
		Where("id = ?", branchID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
