package app

import (
	"net/http"

	"task-tracker/internal/handlers"
	"task-tracker/internal/middleware"
	"task-tracker/internal/services"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	users := services.NewUserService(a.cfg.Auth.BCryptCost)
	tokens := services.NewTokenService(a.cfg.Auth)

	var tasks services.TaskService = services.NewTaskStore()
	var stats services.StatsService = services.NewStatsEngine()
	if a.cache != nil {
		tasks = services.NewCachedTaskService(tasks, a.cache)
		stats = services.NewCachedStatsService(stats, a.cache)
	}

	authHandler := handlers.NewAuthHandler(a.db, users, tokens, a.log)
	taskHandler := handlers.NewTaskHandler(a.db, tasks, a.log)
	statsHandler := handlers.NewStatsHandler(a.db, stats, a.log)

	auth := r.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.RequireAuth(tokens), authHandler.Me)

	protected := r.Group("", middleware.RequireAuth(tokens))

	taskRoutes := protected.Group("/tasks")
	taskRoutes.POST("", taskHandler.Create)
	taskRoutes.GET("", taskHandler.List)
	taskRoutes.GET("/:id", taskHandler.Get)
	taskRoutes.PUT("/:id", taskHandler.Update)
	taskRoutes.PATCH("/:id", taskHandler.Update)
	taskRoutes.DELETE("/:id", taskHandler.Delete)

	statsRoutes := protected.Group("/stats")
	statsRoutes.GET("", statsHandler.Summary)
	statsRoutes.GET("/status", statsHandler.StatusDistribution)
	statsRoutes.GET("/priority", statsHandler.PriorityDistribution)
}
