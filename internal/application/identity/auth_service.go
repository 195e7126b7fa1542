package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/cashdesk/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// AuthService handles login and logout
type AuthService struct {
	users      identity.UserRepository
	jwtService *auth.JWTService
	hasher     PasswordHasher
	sessions   auth.SessionBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	jwtService *auth.JWTService,
	hasher PasswordHasher,
	sessions auth.SessionBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		hasher:     hasher,
		sessions:   sessions,
		logger:     logger,
	}
}

// Login verifies credentials and issues an access token that embeds the
// user's organization and branch.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrUserNotFound) {
			s.logger.Warn("Login attempt for unknown email")
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warn("Login attempt for inactive user", zap.String("user_id", user.ID.String()))
		return nil, shared.ErrUserInactive
	}

	token, err := s.jwtService.GenerateAccessToken(auth.GenerateTokenInput{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		BranchID:       user.BranchID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("organization_id", user.OrganizationID.String()),
	)

	return &LoginResult{
		AccessToken: token.Token,
		TokenType:   "Bearer",
		ExpiresAt:   token.ExpiresAt,
		User: UserInfo{
			ID:             user.ID,
			Email:          user.Email,
			OrganizationID: user.OrganizationID,
			BranchID:       user.BranchID,
			Roles:          roleStrings(user.RoleNames()),
		},
	}, nil
}

// Logout revokes the token's session until the token would have expired.
// Tokens without a session id cannot be revoked and are left to expire.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.SessionID == "" {
		s.logger.Info("Logout for token without session id", zap.String("user_id", input.UserID.String()))
		return nil
	}
	if input.TTL <= 0 {
		return nil
	}

	if err := s.sessions.Revoke(ctx, input.SessionID, input.TTL); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	s.logger.Info("User logged out",
		zap.String("user_id", input.UserID.String()),
		zap.String("session_id", input.SessionID),
	)
	return nil
}
