package branch

import (
	"strings"
	"unicode/utf8"

	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Branch is a sub-unit of an organization that owns its own cash movements.
// Branch names are unique within an organization.
type Branch struct {
	shared.BaseEntity
	OrganizationID uuid.UUID
	Name           string
	Code           *string
	CashLimit      *decimal.Decimal
}

// NewBranch creates a branch inside organizationID
func NewBranch(organizationID uuid.UUID, name string, code *string, cashLimit *decimal.Decimal) (*Branch, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewValidationError("Organization is required")
	}

	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 120 {
		return nil, shared.NewValidationError("Branch name must be between 2 and 120 characters")
	}

	if code != nil {
		trimmed := strings.TrimSpace(*code)
		if utf8.RuneCountInString(trimmed) > 40 {
			return nil, shared.NewValidationError("Branch code must be at most 40 characters")
		}
		code = &trimmed
	}

	if cashLimit != nil && !shared.HasAtMostTwoDecimals(*cashLimit) {
		return nil, shared.NewValidationError("Cash limit must have at most 2 decimal places")
	}

	return &Branch{
		BaseEntity:     shared.NewBaseEntity(),
		OrganizationID: organizationID,
		Name:           name,
		Code:           code,
		CashLimit:      cashLimit,
	}, nil
}
