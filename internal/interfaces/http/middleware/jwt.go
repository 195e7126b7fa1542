package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/cashdesk/backend/internal/infrastructure/auth"
	"github.com/cashdesk/backend/internal/infrastructure/logger"
	"github.com/cashdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	IdentityKey   = "identity"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// IdentityResolver turns verified token claims into the request identity
type IdentityResolver interface {
	Resolve(ctx context.Context, claims identity.TokenClaims) (*identity.Identity, error)
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// Resolver is required to build the identity from claims
	Resolver IdentityResolver
	// Sessions is optional; when set, revoked session ids are rejected
	Sessions auth.SessionBlacklist
	// Optional callback if token is invalid (default: return 401)
	OnError func(c *gin.Context, err error)
	// Logger for middleware logging
	Logger *zap.Logger
}

// JWTAuthMiddleware authenticates the bearer token, checks the session blacklist
// and stores the resolved identity on the gin context.
func JWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			handleAuthError(c, cfg, shared.ErrUnauthorized, "Missing authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
		if tokenString == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		ctx := c.Request.Context()

		if cfg.Sessions != nil && claims.SessionID != "" {
			revoked, err := cfg.Sessions.IsRevoked(ctx, claims.SessionID)
			if err != nil {
				// Fail open; the lookup error is logged
				if cfg.Logger != nil {
					cfg.Logger.Error("Failed to check session blacklist",
						zap.String("sid", claims.SessionID),
						zap.Error(err))
				}
			} else if revoked {
				handleAuthError(c, cfg, auth.ErrSessionRevoked, "Session has been revoked")
				return
			}
		}

		id, err := cfg.Resolver.Resolve(ctx, claims.Identity())
		if err != nil {
			handleAuthError(c, cfg, err, "Identity resolution failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(IdentityKey, id)

		log := logger.FromContext(ctx)
		ctx, log = logger.WithUserID(ctx, log, id.UserID.String())
		ctx, _ = logger.WithOrganizationID(ctx, log, id.OrganizationID.String())
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("JWT authentication successful",
				zap.String("user_id", id.UserID.String()),
				zap.String("organization_id", id.OrganizationID.String()),
			)
		}

		c.Next()
	}
}

// GetJWTClaims returns the verified token claims, or nil when unauthenticated
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetIdentity returns the resolved identity, or nil when unauthenticated
func GetIdentity(c *gin.Context) *identity.Identity {
	if v, ok := c.Get(IdentityKey); ok {
		if id, ok := v.(*identity.Identity); ok {
			return id
		}
	}
	return nil
}

// handleAuthError handles authentication errors
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	code, errorMessage, status := authErrorResponse(err)

	if cfg.Logger != nil {
		fields := []zap.Field{
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		}
		if status >= http.StatusInternalServerError {
			cfg.Logger.Error("JWT authentication failed", fields...)
		} else {
			cfg.Logger.Warn("JWT authentication failed", fields...)
		}
	}

	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, errorMessage, getRequestIDFromContext(c)))
}

func authErrorResponse(err error) (code, message string, status int) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired, "Token has expired", http.StatusUnauthorized
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingSubject):
		return dto.ErrCodeTokenInvalid, "Invalid token", http.StatusUnauthorized
	case errors.Is(err, auth.ErrSessionRevoked):
		return dto.ErrCodeUnauthorized, "Session has been revoked", http.StatusUnauthorized
	}

	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code, de.Message, dto.GetHTTPStatus(de.Code)
	}
	return dto.ErrCodeInternal, "An unexpected error occurred", http.StatusInternalServerError
}
