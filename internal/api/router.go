package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/blog-api/internal/config"
	"github.com/blog-api/internal/service"
)

const serviceName = "blog-api"

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the Gin router. health may be nil.
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger, health HealthChecker) *gin.Engine {
	if gin.Mode() != gin.TestMode && cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	userHandler := NewUserHandler(services, log)
	articleHandler := NewArticleHandler(services, log)
	authed := requireAuth(services.User, log)

	router.GET("/health", healthCheck(health))
	router.GET("/metrics", metricsHandler(services, log))

	user := router.Group("/user")
	{
		user.POST("", userHandler.Register)
		user.POST("/login", userHandler.Login)
		user.DELETE("/logout", authed, userHandler.Logout)
	}

	router.GET("/articles", articleHandler.List)
	router.POST("/article", authed, articleHandler.Create)

	article := router.Group("/article/:id")
	{
		article.GET("", articleHandler.Get)
		article.PATCH("", authed, articleHandler.Update)
		article.DELETE("", authed, articleHandler.Delete)

		article.POST("/comment", authed, articleHandler.AddComment)
		article.DELETE("/comment/:cid", authed, articleHandler.DeleteComment)

		article.POST("/like", authed, articleHandler.AddLike)
		article.DELETE("/like", authed, articleHandler.RemoveLike)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(health HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if health != nil {
			if err := health.HealthCheck(c.Request.Context()); err != nil {
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   serviceName,
		})
	}
}

// metricsHandler returns record counts
func metricsHandler(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := services.Stats.Counts(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"database":  counts,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
