package router

import (
	"fmt"

	"github.com/facturator/backend/internal/infrastructure/config"
	"github.com/facturator/backend/internal/infrastructure/logger"
	"github.com/facturator/backend/internal/interfaces/http/handler"
	"github.com/facturator/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers served by the engine
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Payers   *handler.PayerHandler
	Orders   *handler.OrderHandler
	Invoices *handler.InvoiceHandler
}

// EngineOptions configures NewEngine
type EngineOptions struct {
	Config        *config.Config
	Logger        *zap.Logger
	Authenticator middleware.Authenticator
	// Meter enables HTTP metrics when set
	Meter metric.Meter
}

// NewEngine builds the gin engine with the middleware stack and every route
func NewEngine(opts EngineOptions, h Handlers) (*gin.Engine, error) {
	cfg := opts.Config
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(opts.Logger))
	engine.Use(logger.GinMiddleware(opts.Logger, "/health"))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
		engine.Use(middleware.SpanAttributes())
		engine.Use(middleware.SpanErrorMarker())
	}
	if opts.Meter != nil {
		metrics, err := middleware.HTTPMetrics(opts.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
		}
		engine.Use(metrics)
	}
	if cfg.Telemetry.ProfilingEnabled {
		engine.Use(middleware.Profiling())
	}

	engine.GET("/health", h.Health.Health)

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		opts.Logger.Info("Swagger UI enabled", zap.String("path", "/swagger/index.html"))
	}

	cookieAuth := middleware.CookieAuth(opts.Authenticator, cfg.Cookie.Name, opts.Logger)

	auth := engine.Group("/auth")
	auth.POST("/signup", h.Auth.Signup)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/protected", cookieAuth, h.Auth.Protected)

	r := NewRouter(engine, WithAPIVersion("v1"))
	if cfg.HTTP.RequireAuth {
		r.Use(cookieAuth)
	}
	r.Register(payerRoutes(h.Payers))
	r.Register(orderRoutes(h.Orders))
	r.Register(invoiceRoutes(h.Invoices))
	r.Setup()

	return engine, nil
}

func payerRoutes(h *handler.PayerHandler) *DomainGroup {
	return NewDomainGroup("payers", "/payers").
		GET("", h.List).
		POST("", h.Create).
		GET("/:id", h.Get).
		PUT("/:id", h.Update).
		PATCH("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

func orderRoutes(h *handler.OrderHandler) *DomainGroup {
	return NewDomainGroup("orders", "/orders").
		GET("", h.List).
		POST("", h.Create).
		POST("/file", h.Upload).
		GET("/:id", h.Get).
		PUT("/:id", h.Update).
		PATCH("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

func invoiceRoutes(h *handler.InvoiceHandler) *DomainGroup {
	return NewDomainGroup("invoices", "").
		GET("/invoices", h.Context).
		GET("/pdfs", h.PDF)
}
