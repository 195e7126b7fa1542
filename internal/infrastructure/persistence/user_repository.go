package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/cashdesk/backend/internal/infrastructure/persistence/models"
	"github.com/cashdesk/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID in any organization
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByIDForOrganization finds a user by ID within an organization
func (r *GormUserRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*identity.User, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).
		Scopes(tenant.OrganizationScope(organizationID)).
		Where("id = ?", id))
}

// FindByEmail finds a user by email (case-insensitive)
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)))
}

// ExistsByEmail checks if a user with the given email exists
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindActiveByOrganization lists the organization's active users, newest first
func (r *GormUserRepository) FindActiveByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*identity.User, error) {
	var rows []models.UserModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.OrganizationScope(organizationID)).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*identity.User{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}
	roles, err := r.loadRoles(ctx, ids)
	if err != nil {
		return nil, err
	}

	users := make([]*identity.User, 0, len(rows))
	for i := range rows {
		u := rows[i].ToDomain()
		u.Roles = roles[u.ID]
		users = append(users, u)
	}
	return users, nil
}

// Create inserts the user and its role memberships in one transaction
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.UserModelFromDomain(user)).Error; err != nil {
			return err
		}
		return insertUserRoles(tx, user)
	})
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return shared.ErrUserAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Update saves mutable fields and replaces role memberships in one transaction
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.UserModel{}).
			Scopes(tenant.OrganizationScope(user.OrganizationID)).
			Where("id = ?", user.ID).
			Updates(map[string]any{
				"is_active":  user.IsActive,
				"branch_id":  user.BranchID,
				"updated_at": user.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("update user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrUserNotFound
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserRoleModel{}).Error; err != nil {
			return fmt.Errorf("clear user roles: %w", err)
		}
		return insertUserRoles(tx, user)
	})
}

func (r *GormUserRepository) findOne(ctx context.Context, query *gorm.DB) (*identity.User, error) {
	var model models.UserModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrUserNotFound
		}
		return nil, err
	}

	roles, err := r.loadRoles(ctx, []uuid.UUID{model.ID})
	if err != nil {
		return nil, err
	}
	user := model.ToDomain()
	user.Roles = roles[user.ID]
	return user, nil
}

// loadRoles returns role memberships keyed by user id
func (r *GormUserRepository) loadRoles(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]identity.Role, error) {
	var rows []struct {
		UserID      uuid.UUID
		ID          uuid.UUID
		Name        identity.RoleName
		Description string
	}
	if err := r.db.WithContext(ctx).Table("user_roles").
		Select("user_roles.user_id, roles.id, roles.name, roles.description").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id IN ?", userIDs).
		Order("roles.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load user roles: %w", err)
	}

	out := make(map[uuid.UUID][]identity.Role, len(userIDs))
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], identity.Role{ID: row.ID, Name: row.Name, Description: row.Description})
	}
	return out, nil
}

func insertUserRoles(tx *gorm.DB, user *identity.User) error {
	if len(user.Roles) == 0 {
		return nil
	}
	links := make([]models.UserRoleModel, 0, len(user.Roles))
	for _, role := range user.Roles {
		links = append(links, models.UserRoleModel{UserID: user.ID, RoleID: role.ID})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("insert user roles: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
