package router

import (
	"net/http"

	"github.com/cashdesk/backend/internal/infrastructure/logger"
	"github.com/cashdesk/backend/internal/interfaces/http/dto"
	"github.com/cashdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// EngineConfig configures the global middleware stack
type EngineConfig struct {
	TrustedProxies []string
	MaxBodySize    int64
	CORS           middleware.CORSConfig
	Security       middleware.SecurityConfig
	Tracing        middleware.TracingConfig
	SwaggerEnabled bool
}

// NewEngine builds a gin engine with the global middleware applied in order:
//  1. RequestID
//  2. request logger
//  3. panic recovery
//  4. security headers
//  5. CORS
//  6. body size limit
//  7. tracing
//
// Authentication and authorization are attached per route by APIRoutes.
func NewEngine(cfg EngineConfig, log *zap.Logger) *gin.Engine {
	engine := gin.New()

	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.SecureWithConfig(cfg.Security))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	engine.Use(middleware.TracingWithConfig(cfg.Tracing))
	engine.Use(middleware.SpanErrorMarker())

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Resource not found", c.GetString(middleware.RequestIDKey)))
	})

	if cfg.SwaggerEnabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return engine
}
