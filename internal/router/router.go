// Package router builds the gin engine and the versioned route tree.
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/eventup-dev/eventup/internal/di"
	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/middleware"
)

// New builds the HTTP router. Role gates are applied per route group;
// ownership checks live in the services.
func New(c *di.Container) *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", c.HealthHandler.Check)

	authn := middleware.Authenticate(c.Tokens, c.UserRepo)
	adminOnly := middleware.RequireRoles(domain.RoleAdministrator)
	organizers := middleware.RequireRoles(domain.RoleOrganizer, domain.RoleAdministrator)
	anyRole := middleware.RequireRoles(domain.RoleParticipant, domain.RoleOrganizer, domain.RoleAdministrator)

	v1 := r.Group("/api/v1")

	// Login and registration are throttled; everything else is not.
	auth := v1.Group("/auth")
	{
		limited := auth.Group("", c.RateLimiter.Middleware())
		limited.POST("/register", c.AuthHandler.Register)
		limited.POST("/login", c.AuthHandler.Login)

		authed := auth.Group("", authn)
		authed.POST("/logout", c.AuthHandler.Logout)
		authed.POST("/renew", c.AuthHandler.Renew)
		authed.GET("/profile", c.AuthHandler.Profile)
		authed.PUT("/profile", c.AuthHandler.UpdateProfile)
		authed.PUT("/password", c.AuthHandler.ChangePassword)
	}

	users := v1.Group("/users", authn, adminOnly)
	{
		users.GET("", c.UserHandler.List)
		users.POST("", c.UserHandler.Create)
		users.GET("/:id", c.UserHandler.Get)
		users.PUT("/:id", c.UserHandler.Update)
		users.PUT("/:id/role", c.UserHandler.UpdateRole)
		users.DELETE("/:id", c.UserHandler.Delete)
	}

	categories := v1.Group("/categories", authn)
	{
		categories.GET("", anyRole, c.CategoryHandler.List)
		categories.GET("/:id", anyRole, c.CategoryHandler.Get)
		categories.POST("", adminOnly, c.CategoryHandler.Create)
		categories.PUT("/:id", adminOnly, c.CategoryHandler.Update)
		categories.DELETE("/:id", adminOnly, c.CategoryHandler.Delete)
	}

	events := v1.Group("/events", authn)
	{
		events.GET("", anyRole, c.EventHandler.List)
		events.GET("/mine", organizers, c.EventHandler.ListMine)
		events.GET("/:id", anyRole, c.EventHandler.Get)
		events.POST("", organizers, c.EventHandler.Create)
		events.PUT("/:id", organizers, c.EventHandler.Update)
		events.DELETE("/:id", organizers, c.EventHandler.Delete)
		events.GET("/:id/registrations", organizers, c.RegistrationHandler.ListByEvent)
	}

	registrations := v1.Group("/registrations", authn)
	{
		registrations.POST("", anyRole, c.RegistrationHandler.Create)
		registrations.GET("", organizers, c.RegistrationHandler.List)
		registrations.GET("/mine", anyRole, c.RegistrationHandler.ListMine)
		registrations.GET("/verify/:event_id", anyRole, c.RegistrationHandler.Verify)
		registrations.GET("/:id", anyRole, c.RegistrationHandler.Get)
		registrations.PUT("/:id/approve", organizers, c.RegistrationHandler.Approve)
		registrations.PUT("/:id/reject", organizers, c.RegistrationHandler.Reject)
		registrations.DELETE("/cancel/:event_id", anyRole, c.RegistrationHandler.Cancel)
		registrations.DELETE("/:id", anyRole, c.RegistrationHandler.Remove)
	}

	certificates := v1.Group("/certificates", authn)
	{
		certificates.POST("/issue/:registration_id", organizers, c.CertificateHandler.Issue)
		certificates.GET("", adminOnly, c.CertificateHandler.List)
		certificates.GET("/mine", anyRole, c.CertificateHandler.ListMine)
		certificates.GET("/view/:id", anyRole, c.CertificateHandler.View)
		certificates.GET("/registration/:registration_id", anyRole, c.CertificateHandler.GetByRegistration)
		certificates.GET("/:id", anyRole, c.CertificateHandler.Get)
		certificates.DELETE("/:id", organizers, c.CertificateHandler.Delete)
	}

	accessLogs := v1.Group("/access-logs", authn, adminOnly)
	{
		accessLogs.GET("", c.AccessLogHandler.List)
		accessLogs.GET("/recent", c.AccessLogHandler.ListRecent)
		accessLogs.GET("/stats", c.AccessLogHandler.Stats)
		accessLogs.GET("/:id", c.AccessLogHandler.Get)
		accessLogs.PUT("/:id", c.AccessLogHandler.Update)
		accessLogs.DELETE("/:id", c.AccessLogHandler.Delete)
	}

	v1.GET("/dashboard", authn, anyRole, c.DashboardHandler.Summary)

	return r
}
