package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/guttosm/tradepulse/docs" // registers the OpenAPI document
	"github.com/guttosm/tradepulse/internal/middleware"
)

// RouterOption customizes NewRouter.
type RouterOption func(*routerOptions)

type routerOptions struct {
	rateLimit  int
	rateWindow time.Duration
}

// WithRateLimit sets the per-IP request budget; limit <= 0 disables limiting.
func WithRateLimit(limit int, window time.Duration) RouterOption {
	return func(o *routerOptions) {
		o.rateLimit = limit
		o.rateWindow = window
	}
}

// NewRouter creates a Gin engine with routes configured.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, RateLimiter).
//   - Adds request timeout handling (10 seconds).
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures API v1 routes (/api/v1) and, when webhook is non-nil, the
//     LINE callback (/callback).
//
// Health and readiness endpoints are registered by app.InitializeApp().
func NewRouter(handler *Handler, webhook *WebhookHandler, opts ...RouterOption) *gin.Engine {
	o := routerOptions{rateLimit: middleware.DefaultRateLimit, rateWindow: middleware.DefaultRateWindow}
	for _, opt := range opts {
		opt(&o)
	}

	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(o.rateLimit, o.rateWindow),
	)

	// ─── Timeout ──────────────────────────────────
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		v1.GET("/report", handler.GetReport)
		v1.POST("/trades", handler.PostTrade)
	}

	// ─── LINE webhook ─────────────────────────────
	if webhook != nil {
		router.POST("/callback", webhook.Callback)
	}

	return router
}
