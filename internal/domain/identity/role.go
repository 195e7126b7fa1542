package identity

import (
	"slices"

	"github.com/google/uuid"
)

// RoleName is the name of a catalog role
type RoleName string

const (
	RoleAdmin    RoleName = "ADMIN"
	RoleUser     RoleName = "USER"
	RoleManager  RoleName = "MANAGER"
	RoleOperator RoleName = "OPERATOR"
)

// IsValid reports whether the role belongs to the fixed catalog
func (r RoleName) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleManager, RoleOperator:
		return true
	}
	return false
}

func (r RoleName) String() string {
	return string(r)
}

// Permission keys
const (
	PermUsersRead            = "users.read"
	PermUsersWrite           = "users.write"
	PermBranchesRead         = "branches.read"
	PermBranchesWrite        = "branches.write"
	PermCashMovementsCreate  = "cashMovements.create"
	PermCashMovementsRead    = "cashMovements.read"
	PermCashMovementsApprove = "cashMovements.approve"
	PermCashMovementsDeliver = "cashMovements.deliver"
	PermCashflowStatsRead    = "cashflow.stats.read"
)

// Role is a named bundle of permissions
type Role struct {
	ID          uuid.UUID
	Name        RoleName
	Description string
}

// Permission is a flat capability key
type Permission struct {
	ID          uuid.UUID
	Key         string
	Description string
}

// RoleDefinition describes a catalog role and its bootstrap grants
type RoleDefinition struct {
	Name        RoleName
	Description string
	Permissions []string
}

// PermissionCatalog lists every permission with its description, in seeding order
func PermissionCatalog() []Permission {
	return []Permission{
		{Key: PermUsersRead, Description: "Read users"},
		{Key: PermUsersWrite, Description: "Write users"},
		{Key: PermBranchesRead, Description: "Read branches"},
		{Key: PermBranchesWrite, Description: "Write branches"},
		{Key: PermCashMovementsCreate, Description: "Create cash movements"},
		{Key: PermCashMovementsRead, Description: "Read cash movements"},
		{Key: PermCashMovementsApprove, Description: "Approve or reject cash movements"},
		{Key: PermCashMovementsDeliver, Description: "Mark cash movements as delivered"},
		{Key: PermCashflowStatsRead, Description: "Read cashflow stats"},
	}
}

// RoleCatalog returns the fixed roles with their default grants.
// USER has no permissions by default.
func RoleCatalog() []RoleDefinition {
	all := make([]string, 0, 9)
	for _, p := range PermissionCatalog() {
		all = append(all, p.Key)
	}

	return []RoleDefinition{
		{Name: RoleAdmin, Description: "Administrator", Permissions: all},
		{Name: RoleUser, Description: "Regular user"},
		{
			Name:        RoleManager,
			Description: "Organization manager",
			Permissions: []string{
				PermBranchesRead,
				PermCashMovementsRead,
				PermCashMovementsApprove,
				PermCashMovementsDeliver,
				PermCashflowStatsRead,
			},
		},
		{
			Name:        RoleOperator,
			Description: "Branch operator",
			Permissions: []string{
				PermCashMovementsCreate,
				PermCashMovementsRead,
				PermCashflowStatsRead,
			},
		},
	}
}

// Grants holds the roles and permissions resolved for a user
type Grants struct {
	Roles       []RoleName
	Permissions []string
}

// HasRole reports whether the user holds role
func (g *Grants) HasRole(role RoleName) bool {
	return slices.Contains(g.Roles, role)
}

// HasAnyRole reports whether the user holds at least one of roles
func (g *Grants) HasAnyRole(roles ...RoleName) bool {
	for _, r := range roles {
		if g.HasRole(r) {
			return true
		}
	}
	return false
}

// HasPermission reports whether any of the user's roles grants key
func (g *Grants) HasPermission(key string) bool {
	return slices.Contains(g.Permissions, key)
}
