package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/notification"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Handlers groups the HTTP handlers the router wires up
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Sale      *handler.SaleHandler
	Delivery  *handler.DeliveryHandler
	Product   *handler.ProductHandler
	Partner   *handler.PartnerHandler
	Dashboard *handler.DashboardHandler
	System    *handler.SystemHandler
}

// Dependencies carries the cross-cutting pieces the middleware stack needs
type Dependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	Hub            *notification.Hub
}

// New builds the gin engine with the full middleware stack and route table
func New(deps Dependencies, h Handlers) *gin.Engine {
	cfg := deps.Config

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			deps.Logger.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request ID first so recovery and logging can tag
	// their output, tracing before the access log so spans cover handlers
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(deps.Logger))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	engine.GET("/health", h.System.Health)

	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     deps.JWTService,
		TokenBlacklist: deps.TokenBlacklist,
		Logger:         deps.Logger,
	})

	// WebSocket notifications authenticate like any API call
	ws := engine.Group("/ws", jwtAuth)
	ws.GET("/notifications", deps.Hub.HandleWS)

	api := engine.Group("/api/v1")

	// Public auth endpoints
	authRoutes := api.Group("/auth")
	authRoutes.POST("/login", h.Auth.Login)
	authRoutes.POST("/refresh", h.Auth.Refresh)

	// Everything below requires a valid access token
	protected := api.Group("", jwtAuth)

	authProtected := protected.Group("/auth")
	authProtected.POST("/logout", h.Auth.Logout)
	authProtected.GET("/me", h.Auth.Me)
	authProtected.POST("/change-password", h.Auth.ChangePassword)

	// User management is for owners
	users := protected.Group("/users", middleware.RequireOwner())
	users.POST("", h.User.Create)
	users.GET("", h.User.List)
	users.GET("/:id", h.User.Get)
	users.PUT("/:id", h.User.Update)
	users.POST("/:id/deactivate", h.User.Deactivate)
	users.POST("/:id/activate", h.User.Activate)

	// Sales
	sells := protected.Group("/sells")
	sells.POST("", h.Sale.Create)
	sells.GET("", h.Sale.List)
	sells.GET("/deliverable", h.Sale.ListDeliverable)
	sells.GET("/:id", h.Sale.Get)
	sells.POST("/:id/approve", middleware.RequireManager(), h.Sale.Approve)
	sells.POST("/:id/cancel", middleware.RequireManager(), h.Sale.Cancel)

	// Partial delivery allocation workflow
	sells.POST("/:id/delivery-session", h.Delivery.OpenSession)
	sells.GET("/:id/delivery-session", h.Delivery.GetSession)
	sells.DELETE("/:id/delivery-session", h.Delivery.DiscardSession)
	sells.PUT("/:id/delivery-session/allocations", h.Delivery.SelectBatch)
	sells.DELETE("/:id/delivery-session/allocations", h.Delivery.RemoveAllocation)
	sells.POST("/:id/delivery-session/assign-all", h.Delivery.AssignAllRemaining)
	sells.DELETE("/:id/delivery-session/items/:itemId", h.Delivery.ClearItem)
	sells.PATCH("/:id/partial-delivery", h.Delivery.Submit)

	protected.GET("/branches", h.Partner.ListBranches)
	protected.GET("/branches/:branchId", h.Partner.GetBranch)

	// Batch lookup for the allocation screen
	protected.GET("/shops", h.Partner.ListShops)
	protected.GET("/shops/:shopId", h.Partner.GetShop)
	protected.GET("/shops/:shopId/products/:productId/batches", h.Delivery.GetBatches)

	protected.GET("/customers", h.Partner.ListCustomers)
	protected.POST("/customers", h.Partner.CreateCustomer)

	// Catalog
	products := protected.Group("/products")
	products.GET("", h.Product.List)
	products.GET("/stock", h.Product.ListWithStock)
	products.GET("/:id", h.Product.Get)
	products.POST("", middleware.RequireManager(), h.Product.Create)
	products.PUT("/:id", middleware.RequireManager(), h.Product.Update)
	products.PUT("/:id/toggle-active", middleware.RequireManager(), h.Product.ToggleActive)

	// Dashboard is for managers and owners
	reports := protected.Group("/reports", middleware.RequireManager())
	reports.GET("/dashboard", h.Dashboard.Get)
	reports.GET("/stock-alerts", h.Dashboard.StockAlerts)

	return engine
}
