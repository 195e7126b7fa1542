package cashflow

import (
	"time"

	"github.com/cashdesk/backend/internal/domain/cashflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateMovementInput contains the input for recording a cash movement
type CreateMovementInput struct {
	Type        cashflow.MovementType
	Amount      decimal.Decimal
	Description *string
	BranchID    *uuid.UUID // ignored for operators
}

// ListMovementsInput contains the optional list filters
type ListMovementsInput struct {
	BranchID *uuid.UUID
	Status   *cashflow.MovementStatus
	From     *time.Time
	To       *time.Time
}

// StatsInput contains the optional aggregate filters
type StatsInput struct {
	BranchID *uuid.UUID
	From     *time.Time
	To       *time.Time
}

// MovementResponse represents a cash movement in API responses.
// Amount is a decimal string.
type MovementResponse struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organizationId"`
	BranchID       uuid.UUID  `json:"branchId"`
	Type           string     `json:"type"`
	Amount         string     `json:"amount"`
	Description    *string    `json:"description"`
	Status         string     `json:"status"`
	CreatedByID    uuid.UUID  `json:"createdById"`
	ApprovedByID   *uuid.UUID `json:"approvedById"`
	ApprovedAt     *time.Time `json:"approvedAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// StatsResponse represents cashflow totals. Money fields are decimal strings.
type StatsResponse struct {
	TotalIncomeApproved  string `json:"totalIncomeApproved"`
	TotalExpenseApproved string `json:"totalExpenseApproved"`
	Balance              string `json:"balance"`
	PendingCount         int64  `json:"pendingCount"`
}

// ToMovementResponse converts a domain movement to its response
func ToMovementResponse(m *cashflow.CashMovement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		BranchID:       m.BranchID,
		Type:           m.Type.String(),
		Amount:         m.Amount.String(),
		Description:    m.Description,
		Status:         m.Status.String(),
		CreatedByID:    m.CreatedByID,
		ApprovedByID:   m.ApprovedByID,
		ApprovedAt:     m.ApprovedAt,
		CreatedAt:      m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []*cashflow.CashMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i, m := range movements {
		responses[i] = ToMovementResponse(m)
	}
	return responses
}

// ToStatsResponse converts aggregate totals to their response
func ToStatsResponse(s cashflow.Stats) StatsResponse {
	return StatsResponse{
		TotalIncomeApproved:  s.TotalIncomeApproved.String(),
		TotalExpenseApproved: s.TotalExpenseApproved.String(),
		Balance:              s.Balance().String(),
		PendingCount:         s.PendingCount,
	}
}
