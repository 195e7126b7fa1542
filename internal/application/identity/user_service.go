package identity

import (
	"context"
	"fmt"

	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BranchVerifier checks that a branch belongs to an organization
type BranchVerifier interface {
	AssertExists(ctx context.Context, organizationID, branchID uuid.UUID) error
}

var errRoleChangeDenied = shared.NewDomainError(shared.CodeAccessDenied, "Only administrators can change roles or activation")

// UserService manages the users of an organization
type UserService struct {
	users    identity.UserRepository
	roles    identity.RoleRepository
	branches BranchVerifier
	hasher   PasswordHasher
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	users identity.UserRepository,
	roles identity.RoleRepository,
	branches BranchVerifier,
	hasher PasswordHasher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:    users,
		roles:    roles,
		branches: branches,
		hasher:   hasher,
		logger:   logger,
	}
}

// List returns the active users of the actor's organization
func (s *UserService) List(ctx context.Context, actor *identity.Actor) ([]UserResponse, error) {
	users, err := s.users.FindActiveByOrganization(ctx, actor.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	responses := make([]UserResponse, len(users))
	for i, u := range users {
		responses[i] = ToUserResponse(u)
	}
	return responses, nil
}

// Get returns a user of the actor's organization. Non-admins may only read themselves.
func (s *UserService) Get(ctx context.Context, actor *identity.Actor, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.loadAccessible(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Create adds a user to the actor's organization
func (s *UserService) Create(ctx context.Context, actor *identity.Actor, input CreateUserInput) (*UserResponse, error) {
	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, shared.ErrUserAlreadyExists
	}

	roles, err := s.resolveRoles(ctx, input.Roles)
	if err != nil {
		return nil, err
	}

	if input.BranchID != nil {
		if err := s.branches.AssertExists(ctx, actor.OrganizationID, *input.BranchID); err != nil {
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := identity.NewUser(actor.OrganizationID, input.Email, hash, input.BranchID, roles)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if shared.HasCode(err, shared.CodeUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("organization_id", actor.OrganizationID.String()),
		zap.String("created_by", actor.UserID.String()),
	)

	resp := ToUserResponse(user)
	return &resp, nil
}

// Update changes activation, branch and roles. Roles replace the current memberships.
func (s *UserService) Update(ctx context.Context, actor *identity.Actor, userID uuid.UUID, input UpdateUserInput) (*UserResponse, error) {
	user, err := s.loadAccessible(ctx, actor, userID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && (input.Roles != nil || input.IsActive != nil) {
		return nil, errRoleChangeDenied
	}

	if input.BranchID != nil {
		if err := s.branches.AssertExists(ctx, actor.OrganizationID, *input.BranchID); err != nil {
			return nil, err
		}
		user.AssignBranch(input.BranchID)
	}
	if input.IsActive != nil {
		user.SetActive(*input.IsActive)
	}
	if input.Roles != nil {
		if len(*input.Roles) == 0 {
			return nil, shared.NewDomainError(shared.CodeUserRoleRequired, "User must have at least one role")
		}
		roles, err := s.resolveRoles(ctx, *input.Roles)
		if err != nil {
			return nil, err
		}
		if err := user.ReplaceRoles(roles); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		if shared.HasCode(err, shared.CodeUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated",
		zap.String("user_id", user.ID.String()),
		zap.String("updated_by", actor.UserID.String()),
	)

	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete deactivates the user. Users are never removed.
func (s *UserService) Delete(ctx context.Context, actor *identity.Actor, userID uuid.UUID) error {
	user, err := s.loadAccessible(ctx, actor, userID)
	if err != nil {
		return err
	}

	user.Deactivate()
	if err := s.users.Update(ctx, user); err != nil {
		if shared.HasCode(err, shared.CodeUserNotFound) {
			return err
		}
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	s.logger.Info("User deactivated",
		zap.String("user_id", user.ID.String()),
		zap.String("deactivated_by", actor.UserID.String()),
	)
	return nil
}

// loadAccessible loads userID inside the actor's organization and applies the
// ADMIN-or-self rule. A user of another organization is reported as not found.
func (s *UserService) loadAccessible(ctx context.Context, actor *identity.Actor, userID uuid.UUID) (*identity.User, error) {
	user, err := s.users.FindByIDForOrganization(ctx, actor.OrganizationID, userID)
	if err != nil {
		if shared.HasCode(err, shared.CodeUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if actor.IsAdmin() || actor.UserID == user.ID {
		return user, nil
	}
	return nil, shared.ErrAccessDenied
}

// resolveRoles maps role names to catalog roles. Duplicates are ignored.
func (s *UserService) resolveRoles(ctx context.Context, names []string) ([]identity.Role, error) {
	if len(names) == 0 {
		return nil, shared.ErrUserRoleRequired
	}

	seen := make(map[identity.RoleName]struct{}, len(names))
	wanted := make([]identity.RoleName, 0, len(names))
	for _, n := range names {
		name := identity.RoleName(n)
		if !name.IsValid() {
			return nil, shared.ErrUserInvalidRole
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		wanted = append(wanted, name)
	}

	roles, err := s.roles.FindByNames(ctx, wanted)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	if len(roles) != len(wanted) {
		return nil, shared.ErrUserInvalidRole
	}
	return roles, nil
}
