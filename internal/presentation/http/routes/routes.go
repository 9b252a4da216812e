package routes

import (
	"time"

	"github.com/eazyque/eazyque-api/internal/config"
	"github.com/eazyque/eazyque-api/internal/domain/enum"
	domainRepo "github.com/eazyque/eazyque-api/internal/domain/repository"
	"github.com/eazyque/eazyque-api/internal/presentation/http/handler"
	"github.com/eazyque/eazyque-api/internal/presentation/http/middleware"
	"github.com/eazyque/eazyque-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Inventory *handler.InventoryHandler
	Order     *handler.OrderHandler
	Customer  *handler.CustomerHandler
	Dashboard *handler.DashboardHandler
	Tax       *handler.TaxHandler
	User      *handler.UserHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ShopRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	router.Use(middleware.Timeout(deps.Cfg.App.RequestTimeout))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = NewRateLimiter(deps.Cfg.RateLimit)
	}

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("")
		public.Use(rateLimiter.Middleware())
		registerAuthRoutes(public, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(rateLimiter.Middleware())
		protected.Use(middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}))

		registerProtectedRoutes(protected, h)
	}

	return router
}

// NewRateLimiter allows RATE_LIMIT_REQUESTS per RATE_LIMIT_DURATION seconds
func NewRateLimiter(cfg config.RateLimitConfig) *middleware.ShopRateLimiter {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	rl.CleanupInterval = 5 * time.Minute
	rl.EntryTTL = 10 * time.Minute
	return middleware.NewShopRateLimiter(rl)
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/auth/me", h.Auth.Me)

	protected.GET("/dashboard", middleware.RequirePermission(enum.PermViewDashboard), h.Dashboard.GetStats)

	protected.POST("/gst/calculate", h.Tax.Calculate)

	protected.GET("/printer/status", h.Printer.Status)

	registerProductRoutes(protected, h)
	registerInventoryRoutes(protected, h)
	registerOrderRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerStaffRoutes(protected, h)
}

func registerProductRoutes(rg *gin.RouterGroup, h *Handlers) {
	products := rg.Group("/products")
	manage := middleware.RequirePermission(enum.PermManageProducts)
	{
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.Get)
		products.GET("/:id/quote", h.Product.Quote)
		products.POST("", manage, h.Product.Create)
		products.POST("/import", manage, h.Product.Import)
		products.PUT("/:id", manage, h.Product.Update)
		products.DELETE("/:id", manage, h.Product.Delete)
	}
}

func registerInventoryRoutes(rg *gin.RouterGroup, h *Handlers) {
	inventory := rg.Group("/inventory")
	inventory.Use(middleware.RequirePermission(enum.PermManageInventory))
	{
		inventory.GET("", h.Inventory.List)
		inventory.GET("/low-stock", h.Inventory.LowStock)
		inventory.POST("/adjust", h.Inventory.Adjust)
		inventory.GET("/audit", middleware.RequirePermission(enum.PermViewAudit), h.Inventory.Audit)
	}
}

func registerOrderRoutes(rg *gin.RouterGroup, h *Handlers) {
	orders := rg.Group("/orders")
	orders.Use(middleware.RequirePermission(enum.PermManageOrders))
	{
		orders.GET("", h.Order.List)
		orders.POST("", h.Order.Create)
		orders.GET("/:id", h.Order.Get)
		orders.GET("/:id/invoice", h.Order.Invoice)
		orders.POST("/:id/print", h.Printer.PrintOrder)
		orders.PATCH("/:id/status", h.Order.UpdateStatus)
		orders.POST("/:id/cancel", middleware.RequirePermission(enum.PermCancelOrders), h.Order.Cancel)
	}
}

func registerCustomerRoutes(rg *gin.RouterGroup, h *Handlers) {
	customers := rg.Group("/customers")
	customers.Use(middleware.RequirePermission(enum.PermManageCustomers))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
	}
}

func registerStaffRoutes(rg *gin.RouterGroup, h *Handlers) {
	staff := rg.Group("/staff")
	staff.Use(middleware.RequirePermission(enum.PermManageStaff))
	{
		staff.GET("", h.User.List)
		staff.POST("", h.User.Create)
	}
}
