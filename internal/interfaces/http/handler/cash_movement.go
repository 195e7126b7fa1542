package handler

import (
	"context"

	appcashflow "github.com/cashdesk/backend/internal/application/cashflow"
	"github.com/cashdesk/backend/internal/domain/cashflow"
	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashMovementService is the subset of the movement service used over HTTP
type CashMovementService interface {
	Create(ctx context.Context, actor *identity.Actor, input appcashflow.CreateMovementInput) (*appcashflow.MovementResponse, error)
	List(ctx context.Context, actor *identity.Actor, input appcashflow.ListMovementsInput) ([]appcashflow.MovementResponse, error)
	Approve(ctx context.Context, actor *identity.Actor, movementID uuid.UUID) (*appcashflow.MovementResponse, error)
	Reject(ctx context.Context, actor *identity.Actor, movementID uuid.UUID) (*appcashflow.MovementResponse, error)
	Deliver(ctx context.Context, actor *identity.Actor, movementID uuid.UUID) (*appcashflow.MovementResponse, error)
}

// CreateCashMovementRequest represents a request to record a cash movement.
// BranchID is ignored for operators, who always record against their own branch.
// @Description Cash movement payload
type CreateCashMovementRequest struct {
	Type        string          `json:"type" binding:"required,oneof=INCOME EXPENSE" example:"INCOME"`
	Amount      decimal.Decimal `json:"amount" binding:"required,decimal2,positive" swaggertype:"string" example:"100.50"`
	Description *string         `json:"description" binding:"omitempty,max=500" example:"Opening float"`
	BranchID    string          `json:"branchId" binding:"omitempty,uuid" example:"6f1c2a4e-2b0a-4d8e-9a51-0c3a5d7e8f90"`
}

// ListCashMovementsQuery holds the optional list filters
type ListCashMovementsQuery struct {
	BranchID string `form:"branchId" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED DELIVERED"`
	From     string `form:"from"`
	To       string `form:"to"`
}

// CashMovementHandler handles cash movement endpoints
type CashMovementHandler struct {
	BaseHandler
	service CashMovementService
}

// NewCashMovementHandler creates a new CashMovementHandler
func NewCashMovementHandler(service CashMovementService) *CashMovementHandler {
	return &CashMovementHandler{service: service}
}

// Create godoc
// @ID           createCashMovement
// @Summary      Record cash movement
// @Description  Record a PENDING income or expense. Operators are pinned to their branch.
// @Tags         cash-movements
// @Accept       json
// @Produce      json
// @Param        request body CreateCashMovementRequest true "Cash movement"
// @Success      201 {object} APIResponse[appcashflow.MovementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-movements [post]
func (h *CashMovementHandler) Create(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		return
	}

	var req CreateCashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	branchID, err := parseOptionalUUID(req.BranchID)
	if err != nil {
		h.BadRequest(c, "Invalid branchId")
		return
	}

	movement, err := h.service.Create(c.Request.Context(), actor, appcashflow.CreateMovementInput{
		Type:        cashflow.MovementType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		BranchID:    branchID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movement)
}

// List godoc
// @ID           listCashMovements
// @Summary      List cash movements
// @Description  List the organization's movements, newest first. Operators only see their branch.
// @Tags         cash-movements
// @Produce      json
// @Param        branchId query string false "Branch ID" format(uuid)
// @Param        status query string false "Status" Enums(PENDING, APPROVED, REJECTED, DELIVERED)
// @Param        from query string false "Created at or after (RFC 3339 or YYYY-MM-DD)"
// @Param        to query string false "Created at or before (RFC 3339 or YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]appcashflow.MovementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-movements [get]
func (h *CashMovementHandler) List(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		return
	}

	var q ListCashMovementsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := appcashflow.ListMovementsInput{}
	var err error
	if input.BranchID, err = parseOptionalUUID(q.BranchID); err != nil {
		h.BadRequest(c, "Invalid branchId")
		return
	}
	if q.Status != "" {
		status := cashflow.MovementStatus(q.Status)
		input.Status = &status
	}
	if input.From, err = parseOptionalTime(q.From); err != nil {
		h.BadRequest(c, "Invalid from date")
		return
	}
	if input.To, err = parseOptionalTime(q.To); err != nil {
		h.BadRequest(c, "Invalid to date")
		return
	}

	movements, err := h.service.List(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}

// Approve godoc
// @ID           approveCashMovement
// @Summary      Approve cash movement
// @Description  Move a PENDING movement to APPROVED
// @Tags         cash-movements
// @Produce      json
// @Param        id path string true "Cash movement ID" format(uuid)
// @Success      200 {object} APIResponse[appcashflow.MovementResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-movements/{id}/approve [patch]
func (h *CashMovementHandler) Approve(c *gin.Context) {
	h.transition(c, h.service.Approve)
}

// Reject godoc
// @ID           rejectCashMovement
// @Summary      Reject cash movement
// @Description  Move a PENDING movement to REJECTED
// @Tags         cash-movements
// @Produce      json
// @Param        id path string true "Cash movement ID" format(uuid)
// @Success      200 {object} APIResponse[appcashflow.MovementResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-movements/{id}/reject [patch]
func (h *CashMovementHandler) Reject(c *gin.Context) {
	h.transition(c, h.service.Reject)
}

// Deliver godoc
// @ID           deliverCashMovement
// @Summary      Deliver cash movement
// @Description  Move an APPROVED movement to DELIVERED, keeping the approval stamp
// @Tags         cash-movements
// @Produce      json
// @Param        id path string true "Cash movement ID" format(uuid)
// @Success      200 {object} APIResponse[appcashflow.MovementResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cash-movements/{id}/deliver [patch]
func (h *CashMovementHandler) Deliver(c *gin.Context) {
	h.transition(c, h.service.Deliver)
}

func (h *CashMovementHandler) transition(
	c *gin.Context,
	apply func(ctx context.Context, actor *identity.Actor, movementID uuid.UUID) (*appcashflow.MovementResponse, error),
) {
	actor := h.actor(c)
	if actor == nil {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	movement, err := apply(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movement)
}
