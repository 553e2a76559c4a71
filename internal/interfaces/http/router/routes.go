package router

import (
	"github.com/aishop/storefront/internal/infrastructure/config"
	"github.com/aishop/storefront/internal/infrastructure/logger"
	"github.com/aishop/storefront/internal/interfaces/http/handler"
	"github.com/aishop/storefront/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers are the endpoint handlers served by the engine
type Handlers struct {
	Product    *handler.ProductHandler
	Bill       *handler.BillHandler
	Upload     *handler.UploadHandler
	Auth       *handler.AuthHandler
	Storefront *handler.StorefrontHandler
	Health     *handler.HealthHandler
}

// Deps is everything New needs to build the engine
type Deps struct {
	Config       *config.Config
	Logger       *zap.Logger
	Handlers     Handlers
	Tokens       middleware.TokenValidator
	LoginLimiter *middleware.RateLimiter
	Metrics      *middleware.HTTPMetrics // nil disables /metrics
	Tracing      middleware.TracingConfig
}

// New builds the gin engine: global middleware, the API routes at the root
// and under /api, the upload directory, and /metrics.
func New(d Deps) (*gin.Engine, error) {
	cfg := d.Config
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(d.Logger),
		logger.Recovery(d.Logger),
		middleware.Tracing(d.Tracing),
		middleware.SpanAttributes(),
	)
	if d.Metrics != nil {
		engine.Use(d.Metrics.Middleware())
	}
	engine.Use(
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	admin := middleware.AdminAuth(d.Tokens)
	h := d.Handlers

	products := NewDomainGroup("products", "/products").
		GET("", h.Product.List).
		GET("/:id", h.Product.GetByID).
		POST("", admin, h.Product.Create).
		POST("/reorder", admin, h.Product.Reorder).
		PUT("/:id", admin, h.Product.Update).
		DELETE("/:id", admin, h.Product.Delete)

	bills := NewDomainGroup("bills", "/bills").
		GET("", h.Bill.List).
		POST("", admin, h.Bill.Create).
		DELETE("/:id", admin, h.Bill.Delete)

	upload := NewDomainGroup("upload", "/upload").
		POST("", admin, h.Upload.Upload)

	loginHandlers := []gin.HandlerFunc{h.Auth.Login}
	if d.LoginLimiter != nil {
		loginHandlers = append([]gin.HandlerFunc{middleware.RateLimit(d.LoginLimiter)}, loginHandlers...)
	}
	authGroup := NewDomainGroup("auth", "/auth").
		POST("/login", loginHandlers...)

	site := NewDomainGroup("storefront", "/storefront").
		GET("", h.Storefront.Get)

	health := NewDomainGroup("health", "/health").
		GET("", h.Health.Check)

	NewRouter(engine).
		Register(products).
		Register(bills).
		Register(upload).
		Register(authGroup).
		Register(site).
		Register(health).
		Setup()

	if cfg.Upload.LocalDir != "" {
		engine.Static(uploadsPrefix(cfg.Upload), cfg.Upload.LocalDir)
	}
	if d.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	return engine, nil
}

func uploadsPrefix(cfg config.UploadConfig) string {
	if cfg.PublicPrefix == "" {
		return "/uploads"
	}
	return cfg.PublicPrefix
}
