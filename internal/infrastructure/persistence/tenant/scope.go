// Package tenant builds organization-scoped queries for GORM.
//
// Every tenant-owned table carries an organization_id column. Repositories
// never query those tables without one of the helpers below:
//
//	db.Scopes(tenant.OrganizationScope(orgID)).Find(&branches)
//
//	where, err := tenant.WithOrganization(orgID, tenant.Filter{"status": "PENDING"})
//	db.Where(map[string]any(where)).Find(&movements)
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Column is the organization key column shared by tenant-owned tables
const Column = "organization_id"

// ErrOrganizationRequired is returned when a scope is built without an organization
var ErrOrganizationRequired = errors.New("organization_id is required for tenant scoped queries")

// ErrOrganizationKeyConflict is returned when a caller-supplied filter already names the organization key
var ErrOrganizationKeyConflict = errors.New("filter must not set organization_id")

// Filter is an equality filter keyed by column name
type Filter map[string]any

// OrganizationScope restricts a query to orgID.
// A zero orgID makes the query fail instead of running unscoped.
func OrganizationScope(orgID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if orgID == uuid.Nil {
			_ = db.AddError(ErrOrganizationRequired)
			return db
		}
		return db.Where(Column+" = ?", orgID)
	}
}

// WithOrganization returns a copy of base with the organization key added
func WithOrganization(orgID uuid.UUID, base Filter) (Filter, error) {
	if orgID == uuid.Nil {
		return nil, ErrOrganizationRequired
	}
	if _, ok := base[Column]; ok {
		return nil, ErrOrganizationKeyConflict
	}
	out := make(Filter, len(base)+1)
	for k, v := range base {
		out[k] = v
	}
	out[Column] = orgID
	return out, nil
}

