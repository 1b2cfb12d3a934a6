package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ordino-pos/ordino-api/internal/config"
	domainRepo "github.com/ordino-pos/ordino-api/internal/domain/repository"
	"github.com/ordino-pos/ordino-api/internal/presentation/http/handler"
	"github.com/ordino-pos/ordino-api/internal/presentation/http/middleware"
	"github.com/ordino-pos/ordino-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Table    *handler.TableHandler
	Menu     *handler.MenuHandler
	Receipt  *handler.ReceiptHandler
	Discount *handler.DiscountHandler
	Kitchen  *handler.KitchenHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", h.Auth.Login)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-actor rate limiter
		rateLimiter := middleware.NewActorRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerTableRoutes(protected, h)
		registerMenuRoutes(protected, h)
		registerReceiptRoutes(protected, h, deps)
		registerDiscountRoutes(protected, h)
		registerKitchenRoutes(protected, h)
	}

	return router
}

func registerTableRoutes(protected *gin.RouterGroup, h *Handlers) {
	tables := protected.Group("/tables")
	{
		tables.GET("", h.Table.List)
		tables.GET("/available", h.Table.ListAvailable)
		tables.POST("", h.Table.Create)
		tables.GET("/:id", h.Table.Get)
		tables.PUT("/:id/status", h.Table.UpdateStatus)
		tables.DELETE("/:id", h.Table.Delete)
	}
}

func registerMenuRoutes(protected *gin.RouterGroup, h *Handlers) {
	sections := protected.Group("/sections")
	{
		sections.GET("", h.Menu.ListSections)
		sections.POST("", h.Menu.CreateSection)
	}

	items := protected.Group("/items")
	{
		items.GET("", h.Menu.ListItems)
		items.POST("", h.Menu.CreateItem)
		items.GET("/:id", h.Menu.GetItem)
		items.PUT("/:id", h.Menu.UpdateItem)
		items.DELETE("/:id", h.Menu.DeleteItem)
		items.GET("/:id/price-history", h.Menu.PriceHistory)
		items.GET("/:id/price", h.Menu.PriceAt)
	}
}

func registerReceiptRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	receipts := protected.Group("/receipts")
	{
		receipts.GET("", h.Receipt.List)
		// Receipt creation replays on a repeated Idempotency-Key
		receipts.POST("", middleware.Idempotency(deps.IdempotencyRepo), h.Receipt.Create)
		receipts.GET("/:id", h.Receipt.Get)
		receipts.GET("/:id/totals", h.Receipt.GetTotals)
		receipts.POST("/:id/complete", h.Receipt.Complete)
		receipts.POST("/:id/discounts", h.Receipt.ApplyDiscount)
		receipts.PUT("/:id/items/:itemId/status", h.Receipt.UpdateItemStatus)
	}
}

func registerDiscountRoutes(protected *gin.RouterGroup, h *Handlers) {
	discounts := protected.Group("/discounts")
	discounts.Use(middleware.RequireRole("admin", "manager"))
	{
		discounts.GET("", h.Discount.List)
		discounts.POST("", h.Discount.Create)
		discounts.GET("/:id", h.Discount.Get)
		discounts.PUT("/:id", h.Discount.Update)
		discounts.POST("/:id/toggle", h.Discount.ToggleActive)
		discounts.DELETE("/:id", h.Discount.Delete)
	}
}

func registerKitchenRoutes(protected *gin.RouterGroup, h *Handlers) {
	kitchen := protected.Group("/kitchen")
	{
		kitchen.GET("/items", h.Kitchen.PendingItems)
		kitchen.GET("/queue", h.Kitchen.Queue)
	}
}
