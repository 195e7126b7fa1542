package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	appbranch "github.com/cashdesk/backend/internal/application/branch"
	appcashflow "github.com/cashdesk/backend/internal/application/cashflow"
	appidentity "github.com/cashdesk/backend/internal/application/identity"
	apporg "github.com/cashdesk/backend/internal/application/organization"
	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/interfaces/http/dto"
	"github.com/cashdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// asActor simulates JWTAuthMiddleware plus the authorization middleware
func asActor(id *identity.Identity, roles ...identity.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.IdentityKey, id)
		c.Set(middleware.GrantsKey, &identity.Grants{Roles: roles})
		c.Next()
	}
}

func newIdentity(branchID *uuid.UUID) *identity.Identity {
	return &identity.Identity{UserID: uuid.New(), OrganizationID: uuid.New(), BranchID: branchID}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) (dto.Response, map[string]any) {
	t.Helper()
	var raw struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	var data map[string]any
	if len(raw.Data) > 0 && raw.Data[0] == '{' {
		require.NoError(t, json.Unmarshal(raw.Data, &data))
	}
	return raw.Response, data
}

// MockCashMovementService is a mock implementation of CashMovementService
type MockCashMovementService struct {
	mock.Mock
}

func (m *MockCashMovementService) Create(ctx context.Context, actor *identity.Actor, input appcashflow.CreateMovementInput) (*appcashflow.MovementResponse, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcashflow.MovementResponse), args.Error(1)
}

func (m *MockCashMovementService) List(ctx context.Context, actor *identity.Actor, input appcashflow.ListMovementsInput) ([]appcashflow.MovementResponse, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appcashflow.MovementResponse), args.Error(1)
}

func (m *MockCashMovementService) Approve(ctx context.Context, actor *identity.Actor, movementID uuid.UUID) (*appcashflow.MovementResponse, error) {
	args := m.Called(ctx, actor, movementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcashflow.MovementResponse), args.Error(1)
}

func (m *MockCashMovementService) Reject(ctx context.Context, actor *identity.Actor, movementID uuid.UUID) (*appcashflow.MovementResponse, error) {
	args := m.Called(ctx, actor, movementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcashflow.MovementResponse), args.Error(1)
}

func (m *MockCashMovementService) Deliver(ctx context.Context, actor *identity.Actor, movementID uuid.UUID) (*appcashflow.MovementResponse, error) {
	args := m.Called(ctx, actor, movementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcashflow.MovementResponse), args.Error(1)
}

// MockStatsService is a mock implementation of CashflowStatsService
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetStats(ctx context.Context, actor *identity.Actor, input appcashflow.StatsInput) (*appcashflow.StatsResponse, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appcashflow.StatsResponse), args.Error(1)
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, input appidentity.LoginInput) (*appidentity.LoginResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.LoginResult), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, input appidentity.LogoutInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, actor *identity.Actor) ([]appidentity.UserResponse, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appidentity.UserResponse), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, actor *identity.Actor, userID uuid.UUID) (*appidentity.UserResponse, error) {
	args := m.Called(ctx, actor, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.UserResponse), args.Error(1)
}

func (m *MockUserService) Create(ctx context.Context, actor *identity.Actor, input appidentity.CreateUserInput) (*appidentity.UserResponse, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.UserResponse), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, actor *identity.Actor, userID uuid.UUID, input appidentity.UpdateUserInput) (*appidentity.UserResponse, error) {
	args := m.Called(ctx, actor, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appidentity.UserResponse), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, actor *identity.Actor, userID uuid.UUID) error {
	args := m.Called(ctx, actor, userID)
	return args.Error(0)
}

// MockBranchService is a mock implementation of BranchService
type MockBranchService struct {
	mock.Mock
}

func (m *MockBranchService) Create(ctx context.Context, organizationID uuid.UUID, input appbranch.CreateBranchInput) (*appbranch.BranchResponse, error) {
	args := m.Called(ctx, organizationID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appbranch.BranchResponse), args.Error(1)
}

func (m *MockBranchService) List(ctx context.Context, organizationID uuid.UUID) ([]appbranch.BranchResponse, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]appbranch.BranchResponse), args.Error(1)
}

// MockOrganizationService is a mock implementation of OrganizationService
type MockOrganizationService struct {
	mock.Mock
}

func (m *MockOrganizationService) Create(ctx context.Context, input apporg.CreateOrganizationInput) (*apporg.OrganizationResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apporg.OrganizationResponse), args.Error(1)
}

func (m *MockOrganizationService) ListForOrganization(ctx context.Context, organizationID uuid.UUID) ([]apporg.OrganizationResponse, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]apporg.OrganizationResponse), args.Error(1)
}

func (m *MockOrganizationService) Get(ctx context.Context, requesterOrganizationID, id uuid.UUID) (*apporg.OrganizationResponse, error) {
	args := m.Called(ctx, requesterOrganizationID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apporg.OrganizationResponse), args.Error(1)
}

// stubPinger returns err from Ping
type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }
