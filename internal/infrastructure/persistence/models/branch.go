package models

import (
	"github.com/cashdesk/backend/internal/domain/branch"
	"github.com/shopspring/decimal"
)

// BranchModel is the persistence model for branches
type BranchModel struct {
	OrganizationScopedModel
	Name      string           `gorm:"type:varchar(120);not null"`
	Code      *string          `gorm:"type:varchar(40)"`
	CashLimit *decimal.Decimal `gorm:"type:decimal(18,2)"`
}

// TableName returns the table name for GORM
func (BranchModel) TableName() string {
	return "branches"
}

// ToDomain converts the persistence model to a domain Branch
func (m *BranchModel) ToDomain() *branch.Branch {
	return &branch.Branch{
		BaseEntity:     m.BaseModel.ToDomain(),
		OrganizationID: m.OrganizationID,
		Name:           m.Name,
		Code:           m.Code,
		CashLimit:      m.CashLimit,
	}
}

// FromDomain populates the persistence model from a domain Branch
func (m *BranchModel) FromDomain(b *branch.Branch) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.OrganizationID = b.OrganizationID
	m.Name = b.Name
	m.Code = b.Code
	m.CashLimit = b.CashLimit
}

// BranchModelFromDomain creates a new persistence model from a domain Branch
func BranchModelFromDomain(b *branch.Branch) *BranchModel {
	m := &BranchModel{}
	m.FromDomain(b)
	return m
}
