package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/photoshare/photoshare-api/internal/api/handler"
	"github.com/photoshare/photoshare-api/internal/api/middleware"
	"github.com/photoshare/photoshare-api/internal/core/ports"
)

// Deps carries everything the router needs; all of it is constructed once
// in main and injected here.
type Deps struct {
	Sessions ports.SessionService
	Users    ports.UserService
	Mongo    *mongo.Database
	Redis    *redis.Client
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("photoshare"))

	authHandler := handler.NewAuthHandler(d.Sessions, d.Users)
	userHandler := handler.NewUserHandler(d.Users)
	healthHandler := handler.NewHealthHandler(d.Mongo, d.Redis)
	authenticated := middleware.Authenticate(d.Sessions)

	// --- Auth routes ---
	auth := e.Group("/api/v1/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.GET("/refresh_token", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout, authenticated)

	// --- User routes (all authenticated) ---
	users := e.Group("/api/v1/users", authenticated)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PATCH("", userHandler.UpdateSelf)
	users.DELETE("/:id", userHandler.Delete)
	users.PATCH("/active_status/:id", userHandler.SetActiveStatus)
	users.PATCH("/set_role/:id", userHandler.SetRole)

	// --- Probes and metrics (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
