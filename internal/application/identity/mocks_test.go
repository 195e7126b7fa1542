package identity

import (
	"context"

	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDForOrganization(ctx context.Context, organizationID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, organizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindActiveByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, organizationID)
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockRoleRepository is a mock implementation of identity.RoleRepository
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindByNames(ctx context.Context, names []identity.RoleName) ([]identity.Role, error) {
	args := m.Called(ctx, names)
	return args.Get(0).([]identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindGrantsForUser(ctx context.Context, userID uuid.UUID) (*identity.Grants, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Grants), args.Error(1)
}

// MockPasswordHasher is a mock implementation of PasswordHasher
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) (bool, error) {
	args := m.Called(hash, password)
	return args.Bool(0), args.Error(1)
}

// MockBranchVerifier is a mock implementation of BranchVerifier
type MockBranchVerifier struct {
	mock.Mock
}

func (m *MockBranchVerifier) AssertExists(ctx context.Context, organizationID, branchID uuid.UUID) error {
	args := m.Called(ctx, organizationID, branchID)
	return args.Error(0)
}

func newTestUser(orgID uuid.UUID, branchID *uuid.UUID, roles ...identity.RoleName) *identity.User {
	rs := make([]identity.Role, len(roles))
	for i, r := range roles {
		rs[i] = identity.Role{ID: uuid.New(), Name: r}
	}
	u, err := identity.NewUser(orgID, "user-"+uuid.NewString()[:8]+"@example.com", "hash", branchID, rs)
	if err != nil {
		panic(err)
	}
	return u
}

func newActor(orgID uuid.UUID, roles ...identity.RoleName) *identity.Actor {
	return identity.NewActor(
		&identity.Identity{UserID: uuid.New(), OrganizationID: orgID},
		&identity.Grants{Roles: roles},
	)
}
