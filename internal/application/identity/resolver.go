package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdentityResolver turns verified token claims into the request identity
type IdentityResolver struct {
	users  identity.UserRepository
	logger *zap.Logger
}

// NewIdentityResolver creates a new IdentityResolver
func NewIdentityResolver(users identity.UserRepository, logger *zap.Logger) *IdentityResolver {
	return &IdentityResolver{users: users, logger: logger}
}

// Resolve trusts organization and branch claims when the token carries them.
// Older tokens only carry sub (and maybe sid); for those the user is loaded and
// must still be active.
func (r *IdentityResolver) Resolve(ctx context.Context, claims identity.TokenClaims) (*identity.Identity, error) {
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	if claims.HasOrganization() {
		return fromClaims(userID, claims)
	}

	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			return nil, shared.ErrUserInactive
		}
		return nil, fmt.Errorf("failed to load token subject: %w", err)
	}
	if !user.IsActive {
		return nil, shared.ErrUserInactive
	}

	r.logger.Debug("Resolved identity for token without organization claim",
		zap.String("user_id", userID.String()))

	return &identity.Identity{
		UserID:         user.ID,
		SessionID:      claims.SessionID,
		OrganizationID: user.OrganizationID,
		BranchID:       user.BranchID,
	}, nil
}

func fromClaims(userID uuid.UUID, claims identity.TokenClaims) (*identity.Identity, error) {
	orgID, err := uuid.Parse(claims.OrganizationID)
	if err != nil || orgID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}

	id := &identity.Identity{
		UserID:         userID,
		SessionID:      claims.SessionID,
		OrganizationID: orgID,
	}
	if claims.BranchID != "" {
		branchID, err := uuid.Parse(claims.BranchID)
		if err != nil {
			return nil, shared.ErrUnauthorized
		}
		id.BranchID = &branchID
	}
	return id, nil
}
