package handler

import (
	"context"

	appidentity "github.com/cashdesk/backend/internal/application/identity"
	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserService is the subset of the user service used over HTTP
type UserService interface {
	List(ctx context.Context, actor *identity.Actor) ([]appidentity.UserResponse, error)
	Get(ctx context.Context, actor *identity.Actor, userID uuid.UUID) (*appidentity.UserResponse, error)
	Create(ctx context.Context, actor *identity.Actor, input appidentity.CreateUserInput) (*appidentity.UserResponse, error)
	Update(ctx context.Context, actor *identity.Actor, userID uuid.UUID, input appidentity.UpdateUserInput) (*appidentity.UserResponse, error)
	Delete(ctx context.Context, actor *identity.Actor, userID uuid.UUID) error
}

// CreateUserRequest represents a request to create a user
// @Description User creation payload
type CreateUserRequest struct {
	Email    string   `json:"email" binding:"required,email,max=254" example:"operator@example.com"`
	Password string   `json:"password" binding:"required,min=8,max=72" example:"change-me-now"`
	Roles    []string `json:"roles" example:"OPERATOR"`
	BranchID string   `json:"branchId" binding:"omitempty,uuid"`
}

// UpdateUserRequest represents a partial user update. Omitted fields are left unchanged.
// @Description User update payload
type UpdateUserRequest struct {
	IsActive *bool     `json:"isActive"`
	BranchID *string   `json:"branchId" binding:"omitempty,uuid"`
	Roles    *[]string `json:"roles"`
}

// UserHandler handles user endpoints
type UserHandler struct {
	BaseHandler
	service UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Description  List active users of the caller's organization
// @Tags         users
// @Produce      json
// @Success      200 {object} APIResponse[[]appidentity.UserResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		return
	}

	users, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, users)
}

// Get godoc
// @ID           getUser
// @Summary      Get user
// @Description  Get a user by ID. Non-admins can only read themselves.
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[appidentity.UserResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	user, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Create godoc
// @ID           createUser
// @Summary      Create user
// @Description  Create a user in the caller's organization with at least one role
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User"
// @Success      201 {object} APIResponse[appidentity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	branchID, err := parseOptionalUUID(req.BranchID)
	if err != nil {
		h.BadRequest(c, "Invalid branchId")
		return
	}

	user, err := h.service.Create(c.Request.Context(), actor, appidentity.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Roles,
		BranchID: branchID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// Update godoc
// @ID           updateUser
// @Summary      Update user
// @Description  Update activation, branch or roles. Roles replace existing memberships.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body UpdateUserRequest true "Changes"
// @Success      200 {object} APIResponse[appidentity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [patch]
func (h *UserHandler) Update(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := appidentity.UpdateUserInput{
		IsActive: req.IsActive,
		Roles:    req.Roles,
	}
	if req.BranchID != nil {
		branchID, err := uuid.Parse(*req.BranchID)
		if err != nil {
			h.BadRequest(c, "Invalid branchId")
			return
		}
		input.BranchID = &branchID
	}

	user, err := h.service.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Delete godoc
// @ID           deleteUser
// @Summary      Deactivate user
// @Description  Soft-delete a user by deactivating it
// @Tags         users
// @Param        id path string true "User ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
