package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/finapp/storefront/internal/api/handler"
	"github.com/finapp/storefront/internal/api/middleware"
	"github.com/finapp/storefront/internal/core/domain"
	"github.com/finapp/storefront/internal/core/ports"
	"github.com/finapp/storefront/internal/core/service"
	storemongo "github.com/finapp/storefront/internal/infrastructure/db/mongo"
	"github.com/finapp/storefront/internal/infrastructure/queue"

	_ "github.com/finapp/storefront/internal/docs"
)

// Deps bundles everything the router needs to wire the handlers.
type Deps struct {
	Mongo      *mongo.Database
	Redis      *redis.Client
	RemoteCart ports.RemoteCartService
	Registry   *service.ReconcilerRegistry
	Dispatcher *queue.Dispatcher
	JWTSecret  string
	Logger     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("storefront"))

	// --- Dependencies ---
	userRepo := storemongo.NewUserRepository(deps.Mongo)
	authService := service.NewAuthService(userRepo, deps.JWTSecret, 24*time.Hour)
	authHandler := handler.NewAuthHandler(authService, deps.Dispatcher)

	productService := service.NewProductService(storemongo.NewProductRepository(deps.Mongo), deps.Logger)
	productHandler := handler.NewProductHandler(productService)

	orderService := service.NewOrderService(storemongo.NewOrderRepository(deps.Mongo), deps.Logger)
	orderHandler := handler.NewOrderHandler(orderService, deps.Registry)

	cartHandler := handler.NewCartHandler(deps.Registry)

	requireAuth := middleware.Auth(deps.JWTSecret)
	optionalAuth := middleware.OptionalAuth(deps.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/logout", authHandler.Logout)
	e.GET("/api/auth/me", authHandler.Me, requireAuth)
	e.POST("/api/auth/change-password", authHandler.ChangePassword, requireAuth)

	// --- Catalog routes ---
	e.GET("/api/products", productHandler.List)
	e.GET("/api/products/:id", productHandler.Get)

	admin := e.Group("/api/admin", requireAuth, adminOnly)
	admin.POST("/products", productHandler.Create)
	admin.PUT("/products/:id", productHandler.Update)
	admin.DELETE("/products/:id", productHandler.Delete)
	admin.PUT("/orders/:id/status", orderHandler.UpdateStatus)

	// --- Cart routes (guest allowed) ---
	cart := e.Group("/api/cart", optionalAuth)
	cart.GET("", cartHandler.Get)
	cart.POST("/add", cartHandler.Add)
	cart.PUT("/update", cartHandler.Update)
	cart.DELETE("/remove/:product_id", cartHandler.Remove)
	cart.DELETE("", cartHandler.Clear)
	cart.POST("/refresh", cartHandler.Refresh)

	// --- Order routes ---
	orders := e.Group("/api/orders", requireAuth)
	orders.POST("", orderHandler.Checkout)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis, deps.RemoteCart)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	return e
}
