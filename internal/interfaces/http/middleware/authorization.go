package middleware

import (
	"context"
	"net/http"

	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GrantsKey is the gin context key for the caller's cached grants
const GrantsKey = "grants"

// GrantsLoader resolves the roles and permissions of a user
type GrantsLoader interface {
	Grants(ctx context.Context, userID uuid.UUID) (*identity.Grants, error)
}

// AuthorizationConfig holds configuration for role and permission middleware
type AuthorizationConfig struct {
	// Grants loads the caller's grants once per request
	Grants GrantsLoader
	// Logger for middleware logging
	Logger *zap.Logger
}

// RequireRoles creates middleware that requires any of the listed roles.
// It must run after JWTAuthMiddleware.
func RequireRoles(cfg AuthorizationConfig, roles ...identity.RoleName) gin.HandlerFunc {
	return func(c *gin.Context) {
		grants, ok := loadGrants(c, cfg)
		if !ok {
			return
		}

		if !grants.HasAnyRole(roles...) {
			handleAccessDenied(c, cfg, grants, "User lacks required role", zap.Any("required_roles", roles))
			return
		}

		c.Next()
	}
}

// RequirePermission creates middleware that requires a specific permission.
// It must run after JWTAuthMiddleware.
func RequirePermission(cfg AuthorizationConfig, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		grants, ok := loadGrants(c, cfg)
		if !ok {
			return
		}

		if !grants.HasPermission(permission) {
			handleAccessDenied(c, cfg, grants, "User lacks required permission", zap.String("required_permission", permission))
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Permission check passed",
				zap.String("permission", permission),
				zap.String("path", c.Request.URL.Path),
			)
		}

		c.Next()
	}
}

// GetActor returns the caller's identity combined with any grants loaded by
// the authorization middleware, or nil when unauthenticated.
func GetActor(c *gin.Context) *identity.Actor {
	id := GetIdentity(c)
	if id == nil {
		return nil
	}
	var grants *identity.Grants
	if v, ok := c.Get(GrantsKey); ok {
		grants, _ = v.(*identity.Grants)
	}
	return identity.NewActor(id, grants)
}

// loadGrants returns the cached grants or loads and caches them. On failure
// the request is aborted and false is returned.
func loadGrants(c *gin.Context, cfg AuthorizationConfig) (*identity.Grants, bool) {
	if v, ok := c.Get(GrantsKey); ok {
		if grants, ok := v.(*identity.Grants); ok {
			return grants, true
		}
	}

	id := GetIdentity(c)
	if id == nil {
		handleAccessDenied(c, cfg, nil, "No authenticated identity found")
		return nil, false
	}

	grants, err := cfg.Grants.Grants(c.Request.Context(), id.UserID)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("Failed to load grants",
				zap.String("user_id", id.UserID.String()),
				zap.Error(err),
			)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeInternal, "An unexpected error occurred", getRequestIDFromContext(c)))
		return nil, false
	}

	c.Set(GrantsKey, grants)
	return grants, true
}

// handleAccessDenied aborts with 403 ACCESS_DENIED
func handleAccessDenied(c *gin.Context, cfg AuthorizationConfig, grants *identity.Grants, reason string, fields ...zap.Field) {
	if cfg.Logger != nil {
		fields = append(fields,
			zap.String("reason", reason),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		if id := GetIdentity(c); id != nil {
			fields = append(fields, zap.String("user_id", id.UserID.String()))
		}
		if grants != nil {
			fields = append(fields, zap.Strings("user_permissions", grants.Permissions))
		}
		cfg.Logger.Warn("Access denied", fields...)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeAccessDenied, "Access denied", getRequestIDFromContext(c)))
}
