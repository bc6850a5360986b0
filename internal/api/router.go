package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ilungi/gestora-api/internal/api/handler"
	"github.com/ilungi/gestora-api/internal/api/middleware"
	"github.com/ilungi/gestora-api/internal/core/domain"
	"github.com/ilungi/gestora-api/internal/core/ports"
	httphandlers "github.com/ilungi/gestora-api/internal/infrastructure/http/handlers"
)

// Deps bundles everything the router needs. Services are constructed in main
// so the notification dispatcher can be started before traffic arrives.
type Deps struct {
	Tasks        ports.TaskService
	Users        ports.UserService
	Auth         ports.AuthService
	UserRepo     ports.UserRepository
	EmailRepo    ports.EmailRepository
	EmailService ports.EmailService

	Mongo     *mongo.Database
	Redis     *redis.Client
	JWTSecret string
	Log       zerolog.Logger
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
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("gestora"))

	authHandler := handler.NewAuthHandler(d.Auth, d.UserRepo)
	taskHandler := handler.NewTaskHandler(d.Tasks)
	adminHandler := handler.NewAdminHandler(d.Tasks, d.Users)
	userHandler := handler.NewUserHandler(d.Users)
	emailHandler := handler.NewEmailHandler(d.EmailRepo, d.EmailService)

	authMW := middleware.Auth(d.JWTSecret)
	adminOnly := middleware.RBAC(string(domain.RoleAdmin))

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/forgot-password", authHandler.ForgotPassword)
	e.POST("/auth/reset-password", authHandler.ResetPassword)

	// --- Health probes and operational surfaces (no auth required) ---
	healthHandler := httphandlers.NewHealthHandler()
	healthDepsHandler := httphandlers.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Authenticated routes ---
	auth := e.Group("/auth", authMW)
	auth.GET("/me", authHandler.Me)
	auth.POST("/change-password", authHandler.ChangePassword)

	tasks := e.Group("/tasks", authMW)
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/my-tasks", taskHandler.MyTasks)
	tasks.GET("/my-stats", taskHandler.MyStats)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.PATCH("/:id/status", taskHandler.UpdateStatus)
	tasks.DELETE("/:id", taskHandler.Delete)

	users := e.Group("/users", authMW)
	users.PATCH("/:id/profile", userHandler.UpdateProfile)
	users.PATCH("/:id/password", userHandler.UpdatePassword)

	// --- Admin routes ---
	admin := e.Group("/admin", authMW, adminOnly)

	admin.GET("/tasks", adminHandler.ListTasks)
	admin.POST("/tasks", adminHandler.CreateTask)
	admin.GET("/tasks/user/:userId", adminHandler.TasksByUser)
	admin.POST("/tasks/:id/assign/:userId", adminHandler.Assign)
	admin.POST("/tasks/:id/assign-multiple", adminHandler.AssignMultiple)
	admin.DELETE("/tasks/:id/assign/:userId", adminHandler.Unassign)

	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/dashboard", adminHandler.Dashboard)

	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.CreateUser)
	admin.GET("/users/by-role/:role", adminHandler.UsersByRole)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.PATCH("/users/:id/role", adminHandler.ChangeRole)

	admin.GET("/emails/pending", emailHandler.Pending)
	admin.GET("/emails/failed", emailHandler.Failed)
	admin.GET("/emails/stats", emailHandler.Stats)
	admin.GET("/emails/kind/:kind", emailHandler.ByKind)
	admin.GET("/emails/recipient/:email", emailHandler.ByRecipient)
	admin.POST("/emails/:id/resend", emailHandler.Resend)

	return e
}
