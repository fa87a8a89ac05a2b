package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/percefons/auth-service/internal/transport/http/handler"
	"github.com/percefons/auth-service/internal/transport/http/middleware"
)

// Deps collects what the router wires into routes and middleware.
type Deps struct {
	Logger            *slog.Logger
	APIPrefix         string
	AuthHandler       *handler.AuthHandler
	PermissionHandler *handler.PermissionHandler
	Verifier          middleware.AccessVerifier
	Users             middleware.UserLoader
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	// Bodies stay out of the access log: they carry passwords and tokens.
	r.Use(sloggin.NewWithConfig(d.Logger, sloggin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
	}))
	r.Use(middleware.Metrics())

	api := r.Group(d.APIPrefix)

	// Public auth routes
	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)

	// Protected routes
	protected := api.Group("", middleware.Auth(d.Verifier), middleware.ActiveUser(d.Users, d.Logger))
	protected.GET("/auth/me", d.AuthHandler.Me)
	protected.GET("/permissions", d.PermissionHandler.List)

	return r
}
