package cashflow

import (
	"time"

	"github.com/google/uuid"
)

// MovementFilter narrows movement listings and aggregates. OrganizationID is mandatory.
type MovementFilter struct {
	OrganizationID uuid.UUID
	BranchID       *uuid.UUID
	Status         *MovementStatus
	From           *time.Time
	To             *time.Time
}

// StatsFilter is the subset of MovementFilter accepted by aggregates
type StatsFilter struct {
	OrganizationID uuid.UUID
	BranchID       *uuid.UUID
	From           *time.Time
	To             *time.Time
}

// Movements converts the stats filter to a movement filter restricted to status
func (f StatsFilter) Movements(status *MovementStatus) MovementFilter {
	return MovementFilter{
		OrganizationID: f.OrganizationID,
		BranchID:       f.BranchID,
		Status:         status,
		From:           f.From,
		To:             f.To,
	}
}
