package models

import (
	"github.com/cashdesk/backend/internal/domain/organization"
)

// OrganizationModel is the persistence model for organizations
type OrganizationModel struct {
	BaseModel
	Name string `gorm:"type:varchar(120);not null"`
	Slug string `gorm:"type:varchar(80);not null;uniqueIndex:organizations_slug_key"`
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain Organization
func (m *OrganizationModel) ToDomain() *organization.Organization {
	return &organization.Organization{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Slug:       m.Slug,
	}
}

// FromDomain populates the persistence model from a domain Organization
func (m *OrganizationModel) FromDomain(o *organization.Organization) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.Name = o.Name
	m.Slug = o.Slug
}

// OrganizationModelFromDomain creates a new persistence model from a domain Organization
func OrganizationModelFromDomain(o *organization.Organization) *OrganizationModel {
	m := &OrganizationModel{}
	m.FromDomain(o)
	return m
}
