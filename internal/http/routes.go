package http

import (
	"taskboard/internal/config"
	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps bundles what the router needs.
type Deps struct {
	Handler  *handlers.Handler
	Health   *handlers.HealthHandler
	Sessions middleware.TokenVerifier
	Limiter  *middleware.RateLimiter
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, d Deps) {
	r.Use(middleware.RequestLogger(), middleware.Metrics(), middleware.CORS(cfg.AllowedOrigins))

	// Health checks and metrics (no rate limiting)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := d.Handler
	authRL := d.Limiter.Limit("auth", cfg.AuthRateLimit, cfg.AuthRateWindow, middleware.ByClientIP)

	users := r.Group("/users")
	users.Use(d.Limiter.Limit("api", cfg.APIRateLimit, cfg.APIRateWindow, middleware.ByClientIP))
	{
		users.POST("/signup", authRL, h.SignUp)
		users.POST("/login", authRL, h.SignIn)
		users.POST("/logout", h.SignOut)

		users.GET("", h.ListUsers)
		users.PUT("/:id", h.UpdateUser)
		users.PATCH("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}

	tasks := r.Group("/tasks")
	tasks.Use(
		middleware.Auth(d.Sessions),
		d.Limiter.Limit("tasks", cfg.APIRateLimit, cfg.APIRateWindow, middleware.ByPrincipal),
	)
	{
		tasks.GET("", h.GetTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/:userId", h.GetTasksByAssignee)
		tasks.PATCH("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
	}
}
