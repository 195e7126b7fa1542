package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedResult summarizes a seeding run
type SeedResult struct {
	Roles         int
	Permissions   int
	Grants        int
	AdminPromoted bool
}

// Seeder bootstraps the role and permission catalog. Running it twice is a no-op.
type Seeder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(db *gorm.DB, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// Run upserts roles, permissions and default grants. When adminEmail names an
// existing user, that user also receives the ADMIN role.
func (s *Seeder) Run(ctx context.Context, adminEmail string) (*SeedResult, error) {
	result := &SeedResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		roleIDs, err := s.upsertRoles(tx, now)
		if err != nil {
			return err
		}
		result.Roles = len(roleIDs)

		permIDs, err := s.upsertPermissions(tx, now)
		if err != nil {
			return err
		}
		result.Permissions = len(permIDs)

		links := make([]models.RolePermissionModel, 0)
		for _, def := range identity.RoleCatalog() {
			for _, key := range def.Permissions {
				links = append(links, models.RolePermissionModel{RoleID: roleIDs[def.Name], PermissionID: permIDs[key]})
			}
		}
		if len(links) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
				return fmt.Errorf("seed role permissions: %w", err)
			}
		}
		result.Grants = len(links)

		// USER once carried users.read; the catalog no longer grants it.
		stale := tx.Where("role_id = ? AND permission_id = ?", roleIDs[identity.RoleUser], permIDs[identity.PermUsersRead]).
			Delete(&models.RolePermissionModel{})
		if stale.Error != nil {
			return fmt.Errorf("remove stale grant: %w", stale.Error)
		}
		if stale.RowsAffected > 0 {
			s.logger.Info("Removed stale USER grant", zap.String("permission", identity.PermUsersRead))
		}

		if adminEmail == "" {
			return nil
		}
		promoted, err := s.promoteAdmin(tx, adminEmail, roleIDs[identity.RoleAdmin])
		if err != nil {
			return err
		}
		result.AdminPromoted = promoted
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Seed completed",
		zap.Int("roles", result.Roles),
		zap.Int("permissions", result.Permissions),
		zap.Int("grants", result.Grants),
		zap.Bool("admin_promoted", result.AdminPromoted),
	)
	return result, nil
}

func (s *Seeder) upsertRoles(tx *gorm.DB, now time.Time) (map[identity.RoleName]uuid.UUID, error) {
	catalog := identity.RoleCatalog()
	rows := make([]models.RoleModel, 0, len(catalog))
	names := make([]identity.RoleName, 0, len(catalog))
	for _, def := range catalog {
		rows = append(rows, models.RoleModel{
			BaseModel:   models.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			Name:        def.Name,
			Description: def.Description,
		})
		names = append(names, def.Name)
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "updated_at"}),
	}).Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("seed roles: %w", err)
	}

	var stored []models.RoleModel
	if err := tx.Where("name IN ?", names).Find(&stored).Error; err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	ids := make(map[identity.RoleName]uuid.UUID, len(stored))
	for _, r := range stored {
		ids[r.Name] = r.ID
	}
	return ids, nil
}

func (s *Seeder) upsertPermissions(tx *gorm.DB, now time.Time) (map[string]uuid.UUID, error) {
	catalog := identity.PermissionCatalog()
	rows := make([]models.PermissionModel, 0, len(catalog))
	keys := make([]string, 0, len(catalog))
	for _, p := range catalog {
		rows = append(rows, models.PermissionModel{
			BaseModel:   models.BaseModel{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			Key:         p.Key,
			Description: p.Description,
		})
		keys = append(keys, p.Key)
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"description", "updated_at"}),
	}).Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("seed permissions: %w", err)
	}

	var stored []models.PermissionModel
	if err := tx.Where("key IN ?", keys).Find(&stored).Error; err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	ids := make(map[string]uuid.UUID, len(stored))
	for _, p := range stored {
		ids[p.Key] = p.ID
	}
	return ids, nil
}

func (s *Seeder) promoteAdmin(tx *gorm.DB, email string, adminRoleID uuid.UUID) (bool, error) {
	var user models.UserModel
	if err := tx.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("Admin user not found, skipping promotion", zap.String("email", email))
			return false, nil
		}
		return false, fmt.Errorf("find admin user: %w", err)
	}

	link := models.UserRoleModel{UserID: user.ID, RoleID: adminRoleID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
		return false, fmt.Errorf("grant admin role: %w", err)
	}
	return true, nil
}
