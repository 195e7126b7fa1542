package models

import (
	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel is the persistence model for users
type UserModel struct {
	OrganizationScopedModel
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex:users_email_key"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	IsActive     bool       `gorm:"not null;default:true"`
	BranchID     *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
// Roles must be loaded separately by the repository.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:     m.BaseModel.ToDomain(),
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		IsActive:       m.IsActive,
		OrganizationID: m.OrganizationID,
		BranchID:       m.BranchID,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.OrganizationID = u.OrganizationID
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.IsActive = u.IsActive
	m.BranchID = u.BranchID
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// RoleModel is the persistence model for roles
type RoleModel struct {
	BaseModel
	Name        identity.RoleName `gorm:"type:varchar(40);not null;uniqueIndex:roles_name_key"`
	Description string            `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (RoleModel) TableName() string {
	return "roles"
}

// ToDomain converts the persistence model to a domain Role
func (m *RoleModel) ToDomain() identity.Role {
	return identity.Role{ID: m.ID, Name: m.Name, Description: m.Description}
}

// PermissionModel is the persistence model for permissions
type PermissionModel struct {
	BaseModel
	Key         string `gorm:"type:varchar(80);not null;uniqueIndex:permissions_key_key"`
	Description string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (PermissionModel) TableName() string {
	return "permissions"
}

// RolePermissionModel joins roles and permissions
type RolePermissionModel struct {
	RoleID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	PermissionID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (RolePermissionModel) TableName() string {
	return "role_permissions"
}

// UserRoleModel joins users and roles
type UserRoleModel struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}
