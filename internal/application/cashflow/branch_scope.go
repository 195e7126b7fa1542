package cashflow

import (
	"context"
	"fmt"

	"github.com/cashdesk/backend/internal/domain/branch"
	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var errBranchRequired = shared.NewDomainError(shared.CodeAccessDenied, "Branch is required for this operation")

// branchScope applies the branch ownership rule shared by movements and stats
type branchScope struct {
	branches branch.Repository
}

// forWrite picks the branch a new movement is recorded against. Operators are
// always pinned to their own branch and the requested branch is ignored.
func (s branchScope) forWrite(ctx context.Context, actor *identity.Actor, requested *uuid.UUID) (uuid.UUID, error) {
	var branchID uuid.UUID
	switch {
	case actor.IsOperator():
		own, err := actor.RequireBranch()
		if err != nil {
			return uuid.Nil, err
		}
		branchID = own
	case requested != nil && *requested != uuid.Nil:
		branchID = *requested
	case actor.BranchID != nil && *actor.BranchID != uuid.Nil:
		branchID = *actor.BranchID
	default:
		return uuid.Nil, errBranchRequired
	}

	if err := s.assertExists(ctx, actor.OrganizationID, branchID); err != nil {
		return uuid.Nil, err
	}
	return branchID, nil
}

// forRead narrows a read to a branch. Operators asking for a branch other than
// their own get deniedMessage; everyone else may name any branch of the organization.
func (s branchScope) forRead(ctx context.Context, actor *identity.Actor, requested *uuid.UUID, deniedMessage string) (*uuid.UUID, error) {
	if actor.IsOperator() {
		own, err := actor.RequireBranch()
		if err != nil {
			return nil, err
		}
		if requested != nil && *requested != own {
			return nil, shared.NewDomainError(shared.CodeAccessDenied, deniedMessage)
		}
		return &own, nil
	}

	if requested == nil {
		return nil, nil
	}
	if err := s.assertExists(ctx, actor.OrganizationID, *requested); err != nil {
		return nil, err
	}
	return requested, nil
}

func (s branchScope) assertExists(ctx context.Context, organizationID, branchID uuid.UUID) error {
	exists, err := s.branches.ExistsInOrganization(ctx, organizationID, branchID)
	if err != nil {
		return fmt.Errorf("failed to check branch: %w", err)
	}
	if !exists {
		return shared.ErrBranchNotFound
	}
	return nil
}
