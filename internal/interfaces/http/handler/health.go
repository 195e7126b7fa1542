package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/cashdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger checks that a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse represents the health check payload
// @Description Service health
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
	Uptime   string `json:"uptime" example:"1h30m45s"`
}

// HealthHandler reports service health
type HealthHandler struct {
	BaseHandler
	db        Pinger
	timeout   time.Duration
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{
		db:        db,
		timeout:   2 * time.Second,
		startTime: time.Now(),
	}
}

// Health godoc
// @ID           getHealth
// @Summary      Health check
// @Description  Reports liveness and database reachability
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:   "ok",
		Database: "up",
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}

	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = "down"
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    resp,
			Error: &dto.ErrorInfo{
				Code:      dto.ErrCodeServiceUnavailable,
				Message:   "Database is unreachable",
				RequestID: getRequestID(c),
			},
		})
		return
	}

	h.Success(c, resp)
}
