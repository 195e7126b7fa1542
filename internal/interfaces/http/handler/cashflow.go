package handler

import (
	"context"

	appcashflow "github.com/cashdesk/backend/internal/application/cashflow"
	"github.com/cashdesk/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
)

// CashflowStatsService is the subset of the stats service used over HTTP
type CashflowStatsService interface {
	GetStats(ctx context.Context, actor *identity.Actor, input appcashflow.StatsInput) (*appcashflow.StatsResponse, error)
}

// CashflowStatsQuery holds the optional stats filters
type CashflowStatsQuery struct {
	BranchID string `form:"branchId" binding:"omitempty,uuid"`
	From     string `form:"from"`
	To       string `form:"to"`
}

// CashflowHandler handles cashflow aggregate endpoints
type CashflowHandler struct {
	BaseHandler
	service CashflowStatsService
}

// NewCashflowHandler creates a new CashflowHandler
func NewCashflowHandler(service CashflowStatsService) *CashflowHandler {
	return &CashflowHandler{service: service}
}

// Stats godoc
// @ID           getCashflowStats
// @Summary      Cashflow stats
// @Description  Approved income and expense totals, balance and pending count. Delivered movements count as approved.
// @Tags         cashflow
// @Produce      json
// @Param        branchId query string false "Branch ID" format(uuid)
// @Param        from query string false "Created at or after (RFC 3339 or YYYY-MM-DD)"
// @Param        to query string false "Created at or before (RFC 3339 or YYYY-MM-DD)"
// @Success      200 {object} APIResponse[appcashflow.StatsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cashflow/stats [get]
func (h *CashflowHandler) Stats(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		return
	}

	var q CashflowStatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := appcashflow.StatsInput{}
	var err error
	if input.BranchID, err = parseOptionalUUID(q.BranchID); err != nil {
		h.BadRequest(c, "Invalid branchId")
		return
	}
	if input.From, err = parseOptionalTime(q.From); err != nil {
		h.BadRequest(c, "Invalid from date")
		return
	}
	if input.To, err = parseOptionalTime(q.To); err != nil {
		h.BadRequest(c, "Invalid to date")
		return
	}

	stats, err := h.service.GetStats(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}
