package handler

import (
	"context"
	"time"

	appidentity "github.com/cashdesk/backend/internal/application/identity"
	"github.com/cashdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthService is the subset of the auth application service used over HTTP
type AuthService interface {
	Login(ctx context.Context, input appidentity.LoginInput) (*appidentity.LoginResult, error)
	Logout(ctx context.Context, input appidentity.LogoutInput) error
}

// LoginRequest represents a login request
// @Description Login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@example.com"`
	Password string `json:"password" binding:"required,min=1,max=128" example:"s3cret-pass"`
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
	now         func() time.Time
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		now:         time.Now,
	}
}

// Login godoc
// @ID           loginAuth
// @Summary      User login
// @Description  Authenticate with email and password. The access token embeds organization and branch.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[appidentity.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), appidentity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Logout godoc
// @ID           logoutAuth
// @Summary      User logout
// @Description  Revoke the current session until the access token expires
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[MessageResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	actor := h.actor(c)
	if actor == nil {
		return
	}

	err := h.authService.Logout(c.Request.Context(), appidentity.LogoutInput{
		UserID:    actor.UserID,
		SessionID: claims.SessionID,
		TTL:       claims.RemainingTTL(h.now()),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "Logged out successfully"})
}
