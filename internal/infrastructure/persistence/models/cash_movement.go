package models

import (
	"time"

	"github.com/cashdesk/backend/internal/domain/cashflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashMovementModel is the persistence model for cash movements
type CashMovementModel struct {
	OrganizationScopedModel
	BranchID     uuid.UUID               `gorm:"type:uuid;not null;index"`
	Type         cashflow.MovementType   `gorm:"type:varchar(20);not null"`
	Amount       decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	Description  *string                 `gorm:"type:varchar(500)"`
	Status       cashflow.MovementStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	CreatedByID  uuid.UUID               `gorm:"type:uuid;not null"`
	ApprovedByID *uuid.UUID              `gorm:"type:uuid"`
	ApprovedAt   *time.Time
}

// TableName returns the table name for GORM
func (CashMovementModel) TableName() string {
	return "cash_movements"
}

// ToDomain converts the persistence model to a domain CashMovement
func (m *CashMovementModel) ToDomain() *cashflow.CashMovement {
	return &cashflow.CashMovement{
		BaseEntity:     m.BaseModel.ToDomain(),
		OrganizationID: m.OrganizationID,
		BranchID:       m.BranchID,
		Type:           m.Type,
		Amount:         m.Amount,
		Description:    m.Description,
		Status:         m.Status,
		CreatedByID:    m.CreatedByID,
		ApprovedByID:   m.ApprovedByID,
		ApprovedAt:     m.ApprovedAt,
	}
}

// FromDomain populates the persistence model from a domain CashMovement
func (m *CashMovementModel) FromDomain(c *cashflow.CashMovement) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.OrganizationID = c.OrganizationID
	m.BranchID = c.BranchID
	m.Type = c.Type
	m.Amount = c.Amount
	m.Description = c.Description
	m.Status = c.Status
	m.CreatedByID = c.CreatedByID
	m.ApprovedByID = c.ApprovedByID
	m.ApprovedAt = c.ApprovedAt
}

// CashMovementModelFromDomain creates a new persistence model from a domain CashMovement
func CashMovementModelFromDomain(c *cashflow.CashMovement) *CashMovementModel {
	m := &CashMovementModel{}
	m.FromDomain(c)
	return m
}
