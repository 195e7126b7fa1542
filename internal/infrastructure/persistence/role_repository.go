package persistence

import (
	"context"
	"fmt"

	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRoleRepository implements identity.RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByNames returns the roles whose names are listed. Unknown names are skipped.
func (r *GormRoleRepository) FindByNames(ctx context.Context, names []identity.RoleName) ([]identity.Role, error) {
	if len(names) == 0 {
		return []identity.Role{}, nil
	}
	var rows []models.RoleModel
	if err := r.db.WithContext(ctx).
		Where("name IN ?", names).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	roles := make([]identity.Role, 0, len(rows))
	for i := range rows {
		roles = append(roles, rows[i].ToDomain())
	}
	return roles, nil
}

// FindGrantsForUser resolves the user's role names and the union of their permissions
func (r *GormRoleRepository) FindGrantsForUser(ctx context.Context, userID uuid.UUID) (*identity.Grants, error) {
	grants := &identity.Grants{
		Roles:       []identity.RoleName{},
		Permissions: []string{},
	}

	if err := r.db.WithContext(ctx).Table("roles").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name ASC").
		Pluck("roles.name", &grants.Roles).Error; err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	if len(grants.Roles) == 0 {
		return grants, nil
	}

	if err := r.db.WithContext(ctx).Table("permissions").
		Distinct("permissions.key").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", userID).
		Order("permissions.key ASC").
		Pluck("permissions.key", &grants.Permissions).Error; err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	return grants, nil
}
