package cashflow

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType is the direction of a cash movement
type MovementType string

const (
	MovementTypeIncome  MovementType = "INCOME"
	MovementTypeExpense MovementType = "EXPENSE"
)

// IsValid checks if the type is a valid MovementType
func (t MovementType) IsValid() bool {
	return t == MovementTypeIncome || t == MovementTypeExpense
}

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// MovementStatus represents the workflow status of a cash movement
type MovementStatus string

const (
	MovementStatusPending   MovementStatus = "PENDING"   // Created, awaiting review
	MovementStatusApproved  MovementStatus = "APPROVED"  // Accepted by a manager
	MovementStatusRejected  MovementStatus = "REJECTED"  // Refused, terminal
	MovementStatusDelivered MovementStatus = "DELIVERED" // Cash handed over, terminal
)

// IsValid checks if the status is a valid MovementStatus
func (s MovementStatus) IsValid() bool {
	switch s {
	case MovementStatusPending, MovementStatusApproved, MovementStatusRejected, MovementStatusDelivered:
		return true
	}
	return false
}

// String returns the string representation of MovementStatus
func (s MovementStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transition is possible
func (s MovementStatus) IsTerminal() bool {
	return s == MovementStatusRejected || s == MovementStatusDelivered
}

// CanTransitionTo reports whether next is a legal successor of s.
// PENDING -> APPROVED | REJECTED, APPROVED -> DELIVERED.
func (s MovementStatus) CanTransitionTo(next MovementStatus) bool {
	switch s {
	case MovementStatusPending:
		return next == MovementStatusApproved || next == MovementStatusRejected
	case MovementStatusApproved:
		return next == MovementStatusDelivered
	}
	return false
}

// CountsAsApproved reports whether a movement in this status contributes to approved totals
func (s MovementStatus) CountsAsApproved() bool {
	return s == MovementStatusApproved || s == MovementStatusDelivered
}

// ApprovedStatuses lists statuses whose amounts are included in approved sums
func ApprovedStatuses() []MovementStatus {
	return []MovementStatus{MovementStatusApproved, MovementStatusDelivered}
}

const maxDescriptionLength = 500

var (
	errNotPending  = shared.NewDomainError(shared.CodeCashMovementInvalidTransition, "Only pending movements can be approved or rejected")
	errNotApproved = shared.NewDomainError(shared.CodeCashMovementInvalidTransition, "Only approved movements can be marked as delivered")
)

// ErrInvalidTransition returns the conflict error for a transition into target
func ErrInvalidTransition(target MovementStatus) error {
	if target == MovementStatusDelivered {
		return errNotApproved
	}
	return errNotPending
}

// CashMovement is a single income or expense entry recorded against a branch
type CashMovement struct {
	shared.BaseEntity
	OrganizationID uuid.UUID
	BranchID       uuid.UUID
	Type           MovementType
	Amount         decimal.Decimal
	Description    *string
	Status         MovementStatus
	CreatedByID    uuid.UUID
	ApprovedByID   *uuid.UUID
	ApprovedAt     *time.Time
}

// NewCashMovement creates a PENDING movement
func NewCashMovement(
	organizationID, branchID uuid.UUID,
	movementType MovementType,
	amount decimal.Decimal,
	description *string,
	createdByID uuid.UUID,
) (*CashMovement, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewValidationError("Organization is required")
	}
	if branchID == uuid.Nil {
		return nil, shared.NewValidationError("Branch is required")
	}
	if createdByID == uuid.Nil {
		return nil, shared.NewValidationError("Creator is required")
	}
	if !movementType.IsValid() {
		return nil, shared.NewValidationError("Type must be INCOME or EXPENSE")
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	desc, err := normalizeDescription(description)
	if err != nil {
		return nil, err
	}

	return &CashMovement{
		BaseEntity:     shared.NewBaseEntity(),
		OrganizationID: organizationID,
		BranchID:       branchID,
		Type:           movementType,
		Amount:         amount,
		Description:    desc,
		Status:         MovementStatusPending,
		CreatedByID:    createdByID,
	}, nil
}

// ValidateAmount checks that amount is at least 0.01 with no more than two decimals
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewValidationError("Amount must be greater than zero")
	}
	if !shared.HasAtMostTwoDecimals(amount) {
		return shared.NewValidationError("Amount must have at most 2 decimal places")
	}
	return nil
}

func normalizeDescription(description *string) (*string, error) {
	if description == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > maxDescriptionLength {
		return nil, shared.NewValidationError("Description must be at most 500 characters")
	}
	return &trimmed, nil
}

// Approve moves a PENDING movement to APPROVED and stamps the approver
func (m *CashMovement) Approve(actorID uuid.UUID, at time.Time) error {
	return m.review(MovementStatusApproved, actorID, at)
}

// Reject moves a PENDING movement to REJECTED. The reviewer is recorded in the approval fields.
func (m *CashMovement) Reject(actorID uuid.UUID, at time.Time) error {
	return m.review(MovementStatusRejected, actorID, at)
}

func (m *CashMovement) review(target MovementStatus, actorID uuid.UUID, at time.Time) error {
	if !m.Status.CanTransitionTo(target) {
		return errNotPending
	}
	m.Status = target
	m.ApprovedByID = &actorID
	m.ApprovedAt = &at
	m.Touch(at)
	return nil
}

// Deliver moves an APPROVED movement to DELIVERED. The original approval stamp is kept;
// backfilled is true when the stamp was missing and had to be filled with actor and at.
func (m *CashMovement) Deliver(actorID uuid.UUID, at time.Time) (backfilled bool, err error) {
	if !m.Status.CanTransitionTo(MovementStatusDelivered) {
		return false, errNotApproved
	}
	if m.ApprovedByID == nil {
		m.ApprovedByID = &actorID
		backfilled = true
	}
	if m.ApprovedAt == nil {
		m.ApprovedAt = &at
		backfilled = true
	}
	m.Status = MovementStatusDelivered
	m.Touch(at)
	return backfilled, nil
}

// Transition captures a status change to be applied as a conditional write.
// The write only succeeds while the stored status still equals From.
type Transition struct {
	MovementID     uuid.UUID
	OrganizationID uuid.UUID
	From           MovementStatus
	To             MovementStatus
	ApprovedByID   *uuid.UUID
	ApprovedAt     *time.Time
	UpdatedAt      time.Time
}

// TransitionFrom builds the conditional write for m after an in-memory transition out of from
func TransitionFrom(m *CashMovement, from MovementStatus) Transition {
	return Transition{
		MovementID:     m.ID,
		OrganizationID: m.OrganizationID,
		From:           from,
		To:             m.Status,
		ApprovedByID:   m.ApprovedByID,
		ApprovedAt:     m.ApprovedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
