package identity

import (
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TokenClaims are the identity claims carried by a verified access token.
// Tokens issued before organization claims existed leave OrganizationID and
// BranchID empty.
type TokenClaims struct {
	Subject        string
	SessionID      string
	OrganizationID string
	BranchID       string
}

// HasOrganization reports whether the token embeds the organization claim
func (c TokenClaims) HasOrganization() bool {
	return c.OrganizationID != ""
}

// Identity is the verified caller of a request
type Identity struct {
	UserID         uuid.UUID
	SessionID      string
	OrganizationID uuid.UUID
	BranchID       *uuid.UUID
}

// RequireBranch returns the caller's assigned branch or ACCESS_DENIED
func (i *Identity) RequireBranch() (uuid.UUID, error) {
	if i.BranchID == nil || *i.BranchID == uuid.Nil {
		return uuid.Nil, shared.NewDomainError(shared.CodeAccessDenied, "User has no assigned branch")
	}
	return *i.BranchID, nil
}

// Actor is a resolved identity together with its grants
type Actor struct {
	Identity
	Grants
}

// NewActor combines id and grants
func NewActor(id *Identity, grants *Grants) *Actor {
	a := &Actor{Identity: *id}
	if grants != nil {
		a.Grants = *grants
	}
	return a
}

// IsOperator reports whether branch pinning applies to the actor
func (a *Actor) IsOperator() bool {
	return a.HasRole(RoleOperator)
}

// IsAdmin reports whether the actor holds ADMIN
func (a *Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}
