package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/sactel/admin-console/docs"
	"github.com/sactel/admin-console/internal/api/handler"
	"github.com/sactel/admin-console/internal/api/middleware"
	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/core/ports"
	"github.com/sactel/admin-console/internal/pkg/config"
)

// Deps carries what the router wires into handlers. Everything after Billing
// is optional.
type Deps struct {
	Config  *config.BackendConfig
	Log     zerolog.Logger
	Auth    ports.AuthService
	Billing ports.BillingService
	// Activity serves the activity log; Recorder receives new entries.
	Activity ports.ActivityService
	Recorder ports.ActivityRecorder
	Limiter  middleware.LoginLimiter
	Mongo    *mongo.Database
	Redis    *redis.Client
	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))

	promCfg := echoprometheus.MiddlewareConfig{Namespace: "sactel", Subsystem: "http"}
	metricsCfg := echoprometheus.HandlerConfig{}
	if d.Registry != nil {
		promCfg.Registerer = d.Registry
		metricsCfg.Gatherer = d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Recorder)
	billingHandler := handler.NewBillingHandler(d.Billing, d.Recorder, d.Log)
	authMiddleware := middleware.Auth(d.Auth)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	writers := middleware.RBAC(domain.RoleAdmin, domain.RoleAccountant)

	// --- Auth service ---
	auth := e.Group(d.Config.AuthBasePath)
	if d.Limiter != nil {
		auth.POST("/login", authHandler.Login, middleware.LoginRateLimit(d.Limiter, d.Log))
	} else {
		auth.POST("/login", authHandler.Login)
	}
	auth.GET("/validate", authHandler.Validate, authMiddleware)
	auth.GET("/users", authHandler.ListUsers, authMiddleware, adminOnly)
	auth.POST("/register", authHandler.Register, authMiddleware, adminOnly)

	// --- Data service ---
	// Reads are public unless DATA_AUTH_REQUIRED is set; writes always need
	// an admin or contador token.
	data := e.Group(d.Config.DataBasePath)
	if d.Config.DataAuthRequired {
		data.Use(authMiddleware)
	}
	data.GET("/dashboard/stats", billingHandler.DashboardStats)
	data.GET("/habitaciones", billingHandler.ListRooms)
	data.GET("/facturas", billingHandler.ListInvoices)
	data.GET("/transacciones", billingHandler.ListTransactions)
	guard := func(roles echo.MiddlewareFunc) []echo.MiddlewareFunc {
		if d.Config.DataAuthRequired {
			return []echo.MiddlewareFunc{roles}
		}
		return []echo.MiddlewareFunc{authMiddleware, roles}
	}
	data.PATCH("/habitaciones/:id", billingHandler.PatchRoom, guard(writers)...)
	data.POST("/facturas", billingHandler.CreateInvoice, guard(writers)...)
	if d.Activity != nil {
		data.GET("/actividad", handler.NewActivityHandler(d.Activity).List, guard(adminOnly)...)
	}

	// --- Health probes (no auth required) ---
	health := handler.NewHealthHandler(d.Mongo, d.Redis)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(metricsCfg))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		HandleError:  true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
