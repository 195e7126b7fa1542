package router

import (
	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/interfaces/http/handler"
	"github.com/cashdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers mounted under the API prefix
type Handlers struct {
	Auth         *handler.AuthHandler
	Organization *handler.OrganizationHandler
	Branch       *handler.BranchHandler
	CashMovement *handler.CashMovementHandler
	Cashflow     *handler.CashflowHandler
	User         *handler.UserHandler
	Health       *handler.HealthHandler
}

// Guards holds the middleware used to protect routes
type Guards struct {
	// Authenticate verifies the bearer token and resolves the identity
	Authenticate gin.HandlerFunc
	// Annotate runs right after authentication, e.g. to tag the span with the caller
	Annotate      gin.HandlerFunc
	Authorization middleware.AuthorizationConfig
}

// access describes who may call a route. Zero value means any authenticated caller.
type access struct {
	roles      []identity.RoleName
	permission string
}

func roles(names ...identity.RoleName) access {
	return access{roles: names}
}

func (a access) with(permission string) access {
	a.permission = permission
	return a
}

var authenticated = access{}

// protect composes auth -> role -> permission -> handler for one route
func (g Guards) protect(a access, h gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{g.Authenticate}
	if g.Annotate != nil {
		chain = append(chain, g.Annotate)
	}
	if len(a.roles) > 0 {
		chain = append(chain, middleware.RequireRoles(g.Authorization, a.roles...))
	}
	if a.permission != "" {
		chain = append(chain, middleware.RequirePermission(g.Authorization, a.permission))
	}
	return append(chain, h)
}

// APIRoutes returns the route groups of the cash desk API
func APIRoutes(h Handlers, g Guards) []RouteRegistrar {
	admin := roles(identity.RoleAdmin)
	managers := roles(identity.RoleManager, identity.RoleAdmin)
	cashiers := roles(identity.RoleOperator, identity.RoleAdmin)
	staff := roles(identity.RoleOperator, identity.RoleManager, identity.RoleAdmin)

	system := NewDomainGroup("system", "").
		GET("/health", h.Health.Health)

	authRoutes := NewDomainGroup("auth", "/auth").
		POST("/login", h.Auth.Login).
		POST("/logout", g.protect(authenticated, h.Auth.Logout)...)

	organizations := NewDomainGroup("organizations", "/organizations").
		POST("", g.protect(admin, h.Organization.Create)...).
		GET("", g.protect(authenticated, h.Organization.List)...).
		GET("/:id", g.protect(authenticated, h.Organization.Get)...)

	branches := NewDomainGroup("branches", "/branches").
		POST("", g.protect(admin.with(identity.PermBranchesWrite), h.Branch.Create)...).
		GET("", g.protect(authenticated.with(identity.PermBranchesRead), h.Branch.List)...)

	movements := NewDomainGroup("cash-movements", "/cash-movements").
		POST("", g.protect(cashiers.with(identity.PermCashMovementsCreate), h.CashMovement.Create)...).
		GET("", g.protect(staff.with(identity.PermCashMovementsRead), h.CashMovement.List)...).
		PATCH("/:id/approve", g.protect(managers.with(identity.PermCashMovementsApprove), h.CashMovement.Approve)...).
		PATCH("/:id/reject", g.protect(managers.with(identity.PermCashMovementsApprove), h.CashMovement.Reject)...).
		PATCH("/:id/deliver", g.protect(managers.with(identity.PermCashMovementsDeliver), h.CashMovement.Deliver)...)

	cashflow := NewDomainGroup("cashflow", "/cashflow").
		GET("/stats", g.protect(staff.with(identity.PermCashflowStatsRead), h.Cashflow.Stats)...)

	users := NewDomainGroup("users", "/users").
		GET("", g.protect(authenticated.with(identity.PermUsersRead), h.User.List)...).
		GET("/:id", g.protect(authenticated.with(identity.PermUsersRead), h.User.Get)...).
		POST("", g.protect(admin.with(identity.PermUsersWrite), h.User.Create)...).
		PATCH("/:id", g.protect(authenticated.with(identity.PermUsersWrite), h.User.Update)...).
		DELETE("/:id", g.protect(admin.with(identity.PermUsersWrite), h.User.Delete)...)

	return []RouteRegistrar{system, authRoutes, organizations, branches, movements, cashflow, users}
}
