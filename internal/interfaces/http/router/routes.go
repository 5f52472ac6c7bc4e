package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vclothes/backend/internal/infrastructure/auth"
	"github.com/vclothes/backend/internal/infrastructure/config"
	"github.com/vclothes/backend/internal/infrastructure/logger"
	"github.com/vclothes/backend/internal/infrastructure/telemetry"
	"github.com/vclothes/backend/internal/interfaces/http/handler"
	"github.com/vclothes/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router wires up.
type Handlers struct {
	System       *handler.SystemHandler
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Product      *handler.ProductHandler
	Category     *handler.CategoryHandler
	Brand        *handler.BrandHandler
	Store        *handler.StoreHandler
	Supply       *handler.SupplyHandler
	Order        *handler.OrderHandler
	Payment      *handler.PaymentHandler
	Wishlist     *handler.WishlistHandler
	Notification *handler.NotificationHandler
	Upload       *handler.UploadHandler
}

// Dependencies carries the cross-cutting services the middleware chain needs.
type Dependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	MeterProvider  *telemetry.MeterProvider
}

// Setup configures the global middleware chain and registers all routes.
// Route-level authorization is layered here so handlers stay policy-free:
// the JWT middleware authenticates, role middleware gates staff surfaces.
func Setup(engine *gin.Engine, deps Dependencies, h Handlers) {
	cfg := deps.Config

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(logger.GinMiddleware(deps.Logger))

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.Use(middleware.Secure())

	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: deps.MeterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	jwtCfg := middleware.DefaultJWTConfig(deps.JWTService)
	jwtCfg.TokenBlacklist = deps.TokenBlacklist
	jwtCfg.Logger = deps.Logger
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))
	if cfg.Telemetry.Enabled {
		// JWT runs after span creation, so the user tag needs a second pass
		engine.Use(middleware.TracingAttributeInjector())
	}

	// Probes sit outside the versioned API
	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(systemRoutes(h)).
		Register(authRoutes(cfg, h)).
		Register(productRoutes(h)).
		Register(categoryRoutes(h)).
		Register(brandRoutes(h)).
		Register(uploadRoutes(h)).
		Register(storeRoutes(h)).
		Register(supplyRoutes(h)).
		Register(orderRoutes(h)).
		Register(paymentRoutes(h)).
		Register(wishlistRoutes(h)).
		Register(notificationRoutes(h)).
		Register(userRoutes(h))
	r.Setup()
}

func systemRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("")
	g.GET("/health", h.System.Health)
	return g
}

func authRoutes(cfg *config.Config, h Handlers) *DomainGroup {
	g := NewDomainGroup("/auth")

	// Credential endpoints get a stricter limiter to slow brute forcing
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		g.Use(middleware.RateLimit(limiter))
	}

	g.POST("/register", h.Auth.Register).
		POST("/login", h.Auth.Login).
		POST("/refresh", h.Auth.Refresh).
		POST("/logout", h.Auth.Logout).
		POST("/logout-all", h.Auth.LogoutAll).
		POST("/change-password", h.Auth.ChangePassword).
		GET("/profile", h.Auth.Profile)
	return g
}

func productRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("/products")
	g.GET("", h.Product.List).
		GET("/:id", h.Product.Get).
		GET("/sku/:sku", h.Product.GetBySKU).
		POST("", middleware.RequireStaff(), h.Product.Create).
		PUT("/:id", middleware.RequireStaff(), h.Product.Update).
		POST("/:id/activate", middleware.RequireStaff(), h.Product.Activate).
		POST("/:id/deactivate", middleware.RequireStaff(), h.Product.Deactivate).
		DELETE("/:id/images", middleware.RequireStaff(), h.Upload.Remove)
	return g
}

func categoryRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("/categories")
	g.GET("", h.Category.List).
		GET("/:id", h.Category.Get).
		POST("", middleware.RequireStaff(), h.Category.Create).
		PUT("/:id", middleware.RequireStaff(), h.Category.Update).
		DELETE("/:id", middleware.RequireStaff(), h.Category.Delete)
	return g
}

func brandRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("/brands")
	g.GET("", h.Brand.List).
		GET("/:id", h.Brand.Get).
		POST("", middleware.RequireStaff(), h.Brand.Create).
		PUT("/:id", middleware.RequireStaff(), h.Brand.Update).
		DELETE("/:id", middleware.RequireStaff(), h.Brand.Delete)
	return g
}

func uploadRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("/uploads")
	g.Use(middleware.RequireStaff())
	g.POST("/images", h.Upload.Initiate).
		POST("/images/attach", h.Upload.Attach).
		GET("/images/url", h.Upload.ResolveURL)
	return g
}

func storeRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("/stores")
	g.GET("", h.Store.List).
		GET("/:id", h.Store.Get).
		POST("", middleware.RequireAdmin(), h.Store.Create).
		PUT("/:id", middleware.RequireAdmin(), h.Store.Update).
		POST("/:id/activate", middleware.RequireAdmin(), h.Store.Activate).
		POST("/:id/deactivate", middleware.RequireAdmin(), h.Store.Deactivate)
	return g
}

func supplyRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("/supplies")
	g.Use(middleware.RequireStaff())
	g.POST("", h.Supply.Create).
		GET("", h.Supply.List).
		GET("/:id", h.Supply.Get)
	return g
}

func orderRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("/orders")
	g.POST("", h.Order.Create).
		GET("/mine", h.Order.ListMine).
		GET("/:id", h.Order.Get).
		POST("/:id/cancel", h.Order.Cancel).
		GET("", middleware.RequireStaff(), h.Order.List).
		POST("/:id/ship", middleware.RequireStaff(), h.Order.Ship).
		POST("/:id/deliver", middleware.RequireStaff(), h.Order.Deliver)
	return g
}

func paymentRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("/payments")
	g.POST("/checkout", h.Payment.StartCheckout).
		POST("/webhook", h.Payment.Webhook)
	return g
}

func wishlistRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("/wishlist")
	g.GET("", h.Wishlist.Get).
		POST("/products/:productId", h.Wishlist.AddProduct).
		DELETE("/products/:productId", h.Wishlist.RemoveProduct)
	return g
}

func notificationRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("/notifications")
	g.GET("", h.Notification.List).
		GET("/unread-count", h.Notification.CountUnread).
		POST("/:id/read", h.Notification.MarkRead).
		POST("", middleware.RequireStaff(), h.Notification.Notify)
	return g
}

func userRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("/users")
	g.Use(middleware.RequireAdmin())
	g.GET("", h.User.List).
		GET("/:id", h.User.Get).
		PUT("/:id/role", h.User.SetRole).
		POST("/:id/activate", h.User.Activate).
		POST("/:id/deactivate", h.User.Deactivate)
	return g
}
