package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/streamshare/subscription-manager/docs"
	"github.com/streamshare/subscription-manager/internal/api/handler"
	"github.com/streamshare/subscription-manager/internal/api/middleware"
	"github.com/streamshare/subscription-manager/internal/core/domain"
	"github.com/streamshare/subscription-manager/internal/core/ports"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Auth        ports.AuthService
	Accounts    ports.AccountService
	Clients     ports.ClientService
	Assignments ports.AssignmentService
	Access      ports.AccessService
	Audit       ports.AuditService
}

type Options struct {
	Logger zerolog.Logger
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
	// Readiness checks run by GET /health/ready, keyed by dependency name.
	Readiness map[string]handler.Checker
	// Registry receives the HTTP metrics. Nil uses the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)
	e.Validator = handler.NewValidator()

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "subscriptions",
		Registerer: registerer,
	}))

	// --- Handlers ---
	healthHandler := handler.NewHealthHandler(opts.Readiness)
	authHandler := handler.NewAuthHandler(svc.Auth, opts.SecureCookies)
	accountHandler := handler.NewAccountHandler(svc.Accounts)
	clientHandler := handler.NewClientHandler(svc.Clients)
	assignmentHandler := handler.NewAssignmentHandler(svc.Assignments)
	accessHandler := handler.NewAccessHandler(svc.Access)
	auditHandler := handler.NewAuditHandler(svc.Audit)

	// --- Operational routes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Public client routes ---
	api.GET("/client/access/:whatsapp", accessHandler.Access)
	api.GET("/client/history/:whatsapp", accessHandler.History)

	// --- Login / logout ---
	api.POST("/admin/login", authHandler.Login)
	api.POST("/admin/logout", authHandler.Logout)

	// --- Admin routes ---
	admin := api.Group("/admin", middleware.Session(svc.Auth), middleware.RBAC(domain.RoleAdmin))
	admin.GET("/auth-check", authHandler.Check)
	admin.GET("/data", assignmentHandler.Dashboard)
	admin.GET("/events", auditHandler.Recent)
	admin.GET("/pins/generate", accountHandler.GeneratePIN)

	admin.POST("/accounts", accountHandler.Create)
	admin.PUT("/accounts/:id", accountHandler.Update)
	admin.DELETE("/accounts/:id", accountHandler.Delete)
	admin.GET("/accounts/:id/password", accountHandler.RevealPassword)
	admin.PATCH("/accounts/:id/status", accountHandler.ToggleStatus)
	admin.PATCH("/accounts/:id/profiles", accountHandler.UpdateProfilePIN)

	admin.POST("/clients", clientHandler.Create)
	admin.GET("/clients/search", clientHandler.Search)
	admin.PUT("/clients/:id", clientHandler.Update)
	admin.DELETE("/clients/:id", clientHandler.Delete)
	admin.GET("/clients/:id/history", clientHandler.History)

	admin.POST("/assignments", assignmentHandler.Create)
	admin.DELETE("/assignments/:id", assignmentHandler.Delete)
	admin.PATCH("/assignments/:id/renew", assignmentHandler.Renew)
	admin.PATCH("/assignments/:id/payment", assignmentHandler.TogglePayment)
	admin.POST("/assignments/:id/release", assignmentHandler.Release)

	return e
}
