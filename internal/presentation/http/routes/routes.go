package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-terminal/internal/application/service"
	"github.com/sangkips/pos-terminal/internal/config"
	domainRepo "github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/presentation/http/handler"
	"github.com/sangkips/pos-terminal/internal/presentation/http/middleware"
	"github.com/sangkips/pos-terminal/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Terminal *handler.TerminalHandler
	Register *handler.RegisterHandler
	Session  *handler.SessionHandler
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Receipt  *handler.ReceiptHandler
	Report   *handler.ReportHandler
	Event    *handler.EventHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	Inspector       *utils.TokenInspector
	Store           *service.WorkstationStore
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.TerminalRateLimiter
}

// NewRateLimiter builds the per-terminal limiter from configuration
func NewRateLimiter(cfg *config.Config) *middleware.TerminalRateLimiter {
	duration := cfg.RateLimit.Duration
	if duration <= 0 {
		duration = 60
	}
	return middleware.NewTerminalRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.RateLimit.Requests) / float64(duration),
		BurstSize:         cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
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
			"status":    "ok",
			"service":   deps.Cfg.App.Name,
			"terminals": deps.Store.Len(),
		})
	})

	rateLimiter := deps.RateLimiter
	if rateLimiter == nil {
		rateLimiter = NewRateLimiter(deps.Cfg)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(middleware.AuthConfig{
		Inspector:    deps.Inspector,
		ServiceToken: deps.Cfg.Backend.ServiceToken,
	}))
	{
		shared := v1.Group("")
		shared.Use(rateLimiter.Middleware())
		registerSharedRoutes(shared, h)

		terminal := v1.Group("/terminals/:terminal_id")
		terminal.Use(middleware.TerminalMiddleware())
		terminal.Use(rateLimiter.Middleware())
		registerTerminalRoutes(terminal, h, deps)
	}

	return router
}

// registerSharedRoutes registers routes that do not belong to one terminal
func registerSharedRoutes(rg *gin.RouterGroup, h *Handlers) {
	registers := rg.Group("/registers")
	{
		registers.GET("", h.Register.List)
		registers.POST("", h.Register.Create)
	}

	sessions := rg.Group("/sessions/:session_id")
	{
		sessions.GET("/sales", h.Report.ListSales)
		sessions.GET("/report.xlsx", h.Report.Export)
	}

	receipts := rg.Group("/receipts/:receipt_number")
	{
		receipts.GET("", h.Receipt.Lookup)
		receipts.POST("/print", h.Receipt.Reprint)
	}

	printer := rg.Group("/printer")
	{
		printer.GET("/status", h.Receipt.PrinterStatus)
		printer.POST("/test", h.Receipt.TestPrint)
	}

	rg.POST("/events/company-changed", h.Event.CompanyChanged)
}

// registerTerminalRoutes registers the per-terminal workflow. Every route
// except DELETE runs with the terminal's workstation locked.
func registerTerminalRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	rg.DELETE("", h.Terminal.Delete)

	ws := rg.Group("")
	ws.Use(middleware.WorkstationMiddleware(deps.Store))
	{
		ws.GET("", h.Terminal.State)

		// Register selection
		ws.PUT("/register", h.Register.Select)
		ws.DELETE("/register", h.Register.Deselect)

		// Session
		ws.POST("/session/open", h.Session.Open)
		ws.POST("/session/close", h.Session.RequestClose)
		ws.POST("/session/refresh", h.Session.Refresh)
		ws.POST("/confirmations/:confirmation_id/accept", h.Session.Accept)
		ws.POST("/confirmations/:confirmation_id/cancel", h.Session.Cancel)

		// Catalog snapshot
		catalog := ws.Group("/catalog")
		{
			catalog.GET("/products", h.Catalog.Products)
			catalog.GET("/categories", h.Catalog.Categories)
			catalog.GET("/customers", h.Catalog.Customers)
			catalog.GET("/payment-methods", h.Catalog.PaymentMethods)
			catalog.GET("/currencies", h.Catalog.Currencies)
			catalog.POST("/refresh", h.Catalog.Refresh)
		}
		ws.PUT("/customer", h.Catalog.SelectCustomer)

		// Cart
		cart := ws.Group("/cart")
		{
			cart.GET("", h.Cart.Get)
			cart.DELETE("", h.Cart.Clear)
			cart.POST("/items", h.Cart.AddItem)
			cart.PATCH("/items/:item_id", h.Cart.UpdateQuantity)
			cart.PUT("/items/:item_id/price", middleware.RequireManagerPIN(deps.Cfg.POS.ManagerPINHash), h.Cart.UpdatePrice)
			cart.DELETE("/items/:item_id", h.Cart.RemoveItem)
		}

		// Checkout
		ws.PUT("/payment", h.Checkout.SetPayment)
		ws.POST("/checkout", middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}), h.Checkout.Submit)

		// Receipt
		receipt := ws.Group("/receipt")
		{
			receipt.GET("", h.Receipt.Current)
			receipt.POST("/print", h.Receipt.Print)
			receipt.DELETE("", h.Receipt.Dismiss)
		}
	}
}
