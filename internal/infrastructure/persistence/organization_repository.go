package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/cashdesk/backend/internal/domain/organization"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/cashdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrganizationRepository implements organization.Repository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create inserts a new organization
func (r *GormOrganizationRepository) Create(ctx context.Context, org *organization.Organization) error {
	model := models.OrganizationModelFromDomain(org)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrOrganizationSlugExists
		}
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	var model models.OrganizationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrOrganizationNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByID lists the organizations with the given id, newest first
func (r *GormOrganizationRepository) ListByID(ctx context.Context, id uuid.UUID) ([]*organization.Organization, error) {
	var rows []models.OrganizationModel
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	orgs := make([]*organization.Organization, 0, len(rows))
	for i := range rows {
		orgs = append(orgs, rows[i].ToDomain())
	}
	return orgs, nil
}
