package handler

import (
	"context"

	apporg "github.com/cashdesk/backend/internal/application/organization"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrganizationService is the subset of the organization service used over HTTP
type OrganizationService interface {
	Create(ctx context.Context, input apporg.CreateOrganizationInput) (*apporg.OrganizationResponse, error)
	ListForOrganization(ctx context.Context, organizationID uuid.UUID) ([]apporg.OrganizationResponse, error)
	Get(ctx context.Context, requesterOrganizationID, id uuid.UUID) (*apporg.OrganizationResponse, error)
}

// CreateOrganizationRequest represents a request to create an organization.
// Slug is derived from name when omitted.
// @Description Organization creation payload
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required,min=2,max=120" example:"Acme Exchange"`
	Slug string `json:"slug" binding:"omitempty,min=3,max=80,slug" example:"acme-exchange"`
}

// OrganizationHandler handles organization endpoints
type OrganizationHandler struct {
	BaseHandler
	service OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(service OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

// Create godoc
// @ID           createOrganization
// @Summary      Create organization
// @Description  Create a new organization. Requires the ADMIN role.
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        request body CreateOrganizationRequest true "Organization"
// @Success      201 {object} APIResponse[apporg.OrganizationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organizations [post]
func (h *OrganizationHandler) Create(c *gin.Context) {
	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	org, err := h.service.Create(c.Request.Context(), apporg.CreateOrganizationInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, org)
}

// List godoc
// @ID           listOrganizations
// @Summary      List organizations
// @Description  Returns the caller's own organization
// @Tags         organizations
// @Produce      json
// @Success      200 {object} APIResponse[[]apporg.OrganizationResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organizations [get]
func (h *OrganizationHandler) List(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		return
	}

	orgs, err := h.service.ListForOrganization(c.Request.Context(), actor.OrganizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orgs)
}

// Get godoc
// @ID           getOrganization
// @Summary      Get organization
// @Description  Returns an organization by ID. Only the caller's own organization is visible.
// @Tags         organizations
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Success      200 {object} APIResponse[apporg.OrganizationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organizations/{id} [get]
func (h *OrganizationHandler) Get(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	org, err := h.service.Get(c.Request.Context(), actor.OrganizationID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, org)
}
