package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/accounthub/user-service/docs"
	"github.com/accounthub/user-service/internal/api/handler"
	"github.com/accounthub/user-service/internal/api/middleware"
	"github.com/accounthub/user-service/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// db and rdb may be nil (e.g. when backed by the in-memory repository); the
// readiness probe is only exposed when both are present.
func NewRouter(users ports.UserService, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("user_service"))

	// --- Dependencies ---
	userHandler := handler.NewUserHandler(users)
	authMiddleware := middleware.Auth(users)

	// --- Public routes ---
	e.POST("/register", userHandler.Register)
	e.POST("/login", userHandler.Login)

	// --- Protected routes ---
	e.GET("/users", userHandler.List, authMiddleware)
	e.PUT("/users/:id", userHandler.Update, authMiddleware)

	// --- Operational surface ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness) // liveness – is the process alive?
	if db != nil && rdb != nil {
		healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)
		e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	}

	return e
}
