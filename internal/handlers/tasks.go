package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"task-tracker/internal/middleware"
	"task-tracker/internal/models"
	"task-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type TaskHandler struct {
	db    *gorm.DB
	tasks services.TaskService
	log   *logrus.Logger
}

func NewTaskHandler(db *gorm.DB, tasks services.TaskService, log *logrus.Logger) *TaskHandler {
	return &TaskHandler{db: db, tasks: tasks, log: log}
}

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

type TaskListResponse struct {
	Tasks []models.Task `json:"tasks"`
	Total int64         `json:"total"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	task, err := h.tasks.Create(h.db, ownerID, services.TaskCreate{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.Status(req.Status),
		Priority:    models.Priority(req.Priority),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) Get(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	taskID, err := uuid.FromString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	task, err := h.tasks.Get(h.db, ownerID, taskID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) List(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var filter services.TaskFilter
	if v := c.Query("status"); v != "" {
		status := models.Status(v)
		filter.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := models.Priority(v)
		filter.Priority = &priority
	}
	filter.Search = c.Query("search")

	page, err := parsePage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, total, err := h.tasks.List(h.db, ownerID, filter, page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	c.JSON(http.StatusOK, TaskListResponse{Tasks: tasks, Total: total})
}

func (h *TaskHandler) Update(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	taskID, err := uuid.FromString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	patch := services.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := models.Status(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := models.Priority(*req.Priority)
		patch.Priority = &priority
	}

	task, err := h.tasks.Update(h.db, ownerID, taskID, patch)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	taskID, err := uuid.FromString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	if err := h.tasks.Delete(h.db, ownerID, taskID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": taskID, "message": "task deleted"})
}

// parsePage accepts either page/page_size or limit/offset addressing; both
// window the same creation-order listing.
func parsePage(c *gin.Context) (services.Page, error) {
	if c.Query("limit") != "" || c.Query("offset") != "" {
		limit, err := positiveIntQuery(c, "limit", defaultPageSize)
		if err != nil {
			return services.Page{}, err
		}
		offset, err := positiveIntQuery(c, "offset", 0)
		if err != nil {
			return services.Page{}, err
		}
		// An explicit limit=0 falls back to the default rather than
		// turning into an unbounded listing.
		if limit < 1 {
			limit = defaultPageSize
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
		return services.Page{Limit: limit, Offset: offset}, nil
	}

	pageNum, err := positiveIntQuery(c, "page", 1)
	if err != nil {
		return services.Page{}, err
	}
	if pageNum < 1 {
		pageNum = 1
	}
	size, err := positiveIntQuery(c, "page_size", defaultPageSize)
	if err != nil {
		return services.Page{}, err
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return services.Page{Limit: size, Offset: (pageNum - 1) * size}, nil
}

func positiveIntQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return v, nil
}

func (h *TaskHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.WithError(err).Error("task request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process task request"})
	}
}
