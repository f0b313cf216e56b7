package app

import (
	"fmt"
	"time"

	"task-tracker/internal/cache"
	"task-tracker/internal/config"
	"task-tracker/internal/database"
	"task-tracker/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App owns the process-wide dependencies: the database handle, the optional
// redis cache and the configured router.
type App struct {
	cfg    *config.Config
	log    *logrus.Logger
	db     *gorm.DB
	cache  *cache.Cache
	router *gin.Engine
}

func New(cfg *config.Config, log *logrus.Logger) (*App, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	var taskCache *cache.Cache
	if cfg.Redis.Enabled {
		taskCache, err = cache.New(cfg.Redis, cfg.RedisAddr())
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		log.Info("task cache enabled")
	}

	a := &App{cfg: cfg, log: log, db: db, cache: taskCache}
	a.router = a.buildRouter()
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close() error {
	if a.cache != nil {
		_ = a.cache.Close()
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (a *App) buildRouter() *gin.Engine {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(a.log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.Origins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if a.cfg.RateLimit.Enabled {
		r.Use(middleware.NewRateLimiter(a.cfg.RateLimit).Middleware())
	}

	a.registerRoutes(r)
	return r
}
