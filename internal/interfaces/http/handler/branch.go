package handler

import (
	"context"

	appbranch "github.com/cashdesk/backend/internal/application/branch"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BranchService is the subset of the branch service used over HTTP
type BranchService interface {
	Create(ctx context.Context, organizationID uuid.UUID, input appbranch.CreateBranchInput) (*appbranch.BranchResponse, error)
	List(ctx context.Context, organizationID uuid.UUID) ([]appbranch.BranchResponse, error)
}

// CreateBranchRequest represents a request to create a branch
// @Description Branch creation payload
type CreateBranchRequest struct {
	Name      string           `json:"name" binding:"required,min=2,max=120" example:"Downtown"`
	Code      *string          `json:"code" binding:"omitempty,max=40" example:"DT-01"`
	CashLimit *decimal.Decimal `json:"cashLimit" binding:"omitempty,decimal2" swaggertype:"string" example:"5000.00"`
}

// BranchHandler handles branch endpoints
type BranchHandler struct {
	BaseHandler
	service BranchService
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(service BranchService) *BranchHandler {
	return &BranchHandler{service: service}
}

// Create godoc
// @ID           createBranch
// @Summary      Create branch
// @Description  Create a branch in the caller's organization
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        request body CreateBranchRequest true "Branch"
// @Success      201 {object} APIResponse[appbranch.BranchResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /branches [post]
func (h *BranchHandler) Create(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		return
	}

	var req CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), actor.OrganizationID, appbranch.CreateBranchInput{
		Name:      req.Name,
		Code:      req.Code,
		CashLimit: req.CashLimit,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, b)
}

// List godoc
// @ID           listBranches
// @Summary      List branches
// @Description  List the organization's branches, newest first
// @Tags         branches
// @Produce      json
// @Success      200 {object} APIResponse[[]appbranch.BranchResponse]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /branches [get]
func (h *BranchHandler) List(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		return
	}

	branches, err := h.service.List(c.Request.Context(), actor.OrganizationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, branches)
}
