package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockGrantsLoader is a mock implementation of GrantsLoader
type MockGrantsLoader struct {
	mock.Mock
}

func (m *MockGrantsLoader) Grants(ctx context.Context, userID uuid.UUID) (*identity.Grants, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Grants), args.Error(1)
}

// withIdentity stands in for JWTAuthMiddleware
func withIdentity(id *identity.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != nil {
			c.Set(IdentityKey, id)
		}
		c.Next()
	}
}

func newAuthzRouter(id *identity.Identity, chain ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := append([]gin.HandlerFunc{withIdentity(id)}, chain...)
	handlers = append(handlers, func(c *gin.Context) {
		actor := GetActor(c)
		c.JSON(http.StatusOK, gin.H{"admin": actor.IsAdmin(), "operator": actor.IsOperator()})
	})
	router.GET("/test", handlers...)
	return router
}

func serve(router http.Handler) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	return rec
}

func TestRequireRoles(t *testing.T) {
	id := &identity.Identity{UserID: uuid.New(), OrganizationID: uuid.New()}

	t.Run("any listed role passes", func(t *testing.T) {
		loader := new(MockGrantsLoader)
		loader.On("Grants", mock.Anything, id.UserID).
			Return(&identity.Grants{Roles: []identity.RoleName{identity.RoleManager}}, nil)
		cfg := AuthorizationConfig{Grants: loader, Logger: zap.NewNop()}

		rec := serve(newAuthzRouter(id, RequireRoles(cfg, identity.RoleManager, identity.RoleAdmin)))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing role is denied", func(t *testing.T) {
		loader := new(MockGrantsLoader)
		loader.On("Grants", mock.Anything, id.UserID).
			Return(&identity.Grants{Roles: []identity.RoleName{identity.RoleOperator}}, nil)
		cfg := AuthorizationConfig{Grants: loader, Logger: zap.NewNop()}

		rec := serve(newAuthzRouter(id, RequireRoles(cfg, identity.RoleAdmin)))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, shared.CodeAccessDenied, decodeError(t, rec).Code)
	})

	t.Run("unauthenticated is denied", func(t *testing.T) {
		loader := new(MockGrantsLoader)
		cfg := AuthorizationConfig{Grants: loader}

		rec := serve(newAuthzRouter(nil, RequireRoles(cfg, identity.RoleAdmin)))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		loader.AssertNotCalled(t, "Grants", mock.Anything, mock.Anything)
	})
}

func TestRequirePermission(t *testing.T) {
	id := &identity.Identity{UserID: uuid.New(), OrganizationID: uuid.New()}

	t.Run("role then permission loads grants once", func(t *testing.T) {
		loader := new(MockGrantsLoader)
		loader.On("Grants", mock.Anything, id.UserID).Return(&identity.Grants{
			Roles:       []identity.RoleName{identity.RoleOperator},
			Permissions: []string{identity.PermCashMovementsCreate},
		}, nil).Once()
		cfg := AuthorizationConfig{Grants: loader}

		rec := serve(newAuthzRouter(id,
			RequireRoles(cfg, identity.RoleOperator, identity.RoleAdmin),
			RequirePermission(cfg, identity.PermCashMovementsCreate),
		))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"admin":false,"operator":true}`, rec.Body.String())
		loader.AssertNumberOfCalls(t, "Grants", 1)
	})

	t.Run("role without permission is denied", func(t *testing.T) {
		loader := new(MockGrantsLoader)
		loader.On("Grants", mock.Anything, id.UserID).Return(&identity.Grants{
			Roles: []identity.RoleName{identity.RoleManager},
		}, nil)
		cfg := AuthorizationConfig{Grants: loader}

		rec := serve(newAuthzRouter(id,
			RequireRoles(cfg, identity.RoleManager),
			RequirePermission(cfg, identity.PermCashMovementsApprove),
		))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("grant lookup failure is internal", func(t *testing.T) {
		loader := new(MockGrantsLoader)
		loader.On("Grants", mock.Anything, id.UserID).Return(nil, errors.New("db down"))
		cfg := AuthorizationConfig{Grants: loader, Logger: zap.NewNop()}

		rec := serve(newAuthzRouter(id, RequirePermission(cfg, identity.PermUsersRead)))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, shared.CodeInternal, decodeError(t, rec).Code)
	})
}
