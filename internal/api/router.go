package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/memberdesk/identity-system/docs"
	"github.com/memberdesk/identity-system/internal/api/handler"
	"github.com/memberdesk/identity-system/internal/api/middleware"
	"github.com/memberdesk/identity-system/internal/core/domain"
	"github.com/memberdesk/identity-system/internal/core/ports"
	"github.com/memberdesk/identity-system/internal/core/service"
	mongostore "github.com/memberdesk/identity-system/internal/infrastructure/db/mongo"
	redisstore "github.com/memberdesk/identity-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit sink is created and started by the caller, since its worker pool
// is tied to the process lifecycle.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, audit ports.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	accountRepo := mongostore.NewAccountRepository(db)
	revocations := redisstore.NewRevocationStore(rdb)
	sessions := service.NewSessionManager(jwtSecret, revocations)
	authService := service.NewAuthService(accountRepo, sessions, audit, log)
	adminService := service.NewAdminService(accountRepo, authService, audit, log)

	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(adminService)

	requireSession := middleware.Session(sessions)
	optionalSession := middleware.OptionalSession(sessions)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, optionalSession)
	e.GET("/view", authHandler.View, optionalSession)

	// --- Admin routes ---
	// Listing stays open to any authenticated session: a non-admin gets an
	// empty list rather than a 403. The mutations add an RBAC gate at the
	// transport layer on top of the service-level check.
	admin := e.Group("/admin", requireSession)
	admin.GET("/accounts", adminHandler.List)
	admin.PUT("/accounts/:id/role", adminHandler.SetRole, middleware.RBAC(domain.RoleAdmin))
	admin.DELETE("/accounts/:id", adminHandler.Delete, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
