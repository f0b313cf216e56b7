package handlers

import (
	"net/http"

	"task-tracker/internal/middleware"
	"task-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type StatsHandler struct {
	db    *gorm.DB
	stats services.StatsService
	log   *logrus.Logger
}

func NewStatsHandler(db *gorm.DB, stats services.StatsService, log *logrus.Logger) *StatsHandler {
	return &StatsHandler{db: db, stats: stats, log: log}
}

func (h *StatsHandler) Summary(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	summary, err := h.stats.Summary(h.db, ownerID)
	if err != nil {
		h.log.WithError(err).Error("summary failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *StatsHandler) StatusDistribution(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	dist, err := h.stats.StatusDistribution(h.db, ownerID)
	if err != nil {
		h.log.WithError(err).Error("status distribution failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, dist)
}

func (h *StatsHandler) PriorityDistribution(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	dist, err := h.stats.PriorityDistribution(h.db, ownerID)
	if err != nil {
		h.log.WithError(err).Error("priority distribution failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, dist)
}
