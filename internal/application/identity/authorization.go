package identity

import (
	"context"
	"fmt"

	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// AuthorizationService resolves what a user is allowed to do
type AuthorizationService struct {
	roles identity.RoleRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(roles identity.RoleRepository) *AuthorizationService {
	return &AuthorizationService{roles: roles}
}

// Grants returns the user's role names and the union of their permissions
func (s *AuthorizationService) Grants(ctx context.Context, userID uuid.UUID) (*identity.Grants, error) {
	grants, err := s.roles.FindGrantsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load grants: %w", err)
	}
	return grants, nil
}
