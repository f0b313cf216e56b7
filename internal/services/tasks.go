package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"task-tracker/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// TaskCreate carries the caller-supplied fields for a new task. Status and
// Priority fall back to their defaults when empty.
type TaskCreate struct {
	Title       string
	Description string
	Status      models.Status
	Priority    models.Priority
}

// TaskPatch is a partial update: nil fields keep their prior value.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *models.Status
	Priority    *models.Priority
}

// TaskFilter narrows a listing. All set filters combine with AND. Search is a
// case-insensitive substring match on title or description.
type TaskFilter struct {
	Status   *models.Status
	Priority *models.Priority
	Search   string
}

// Page addresses a window over the stable listing order.
type Page struct {
	Limit  int
	Offset int
}

// TaskService owns task records. Every operation is scoped by owner id; a
// task reached through another owner's id behaves as absent.
type TaskService interface {
	Create(db *gorm.DB, ownerID uuid.UUID, input TaskCreate) (models.Task, error)
	Get(db *gorm.DB, ownerID, taskID uuid.UUID) (models.Task, error)
	List(db *gorm.DB, ownerID uuid.UUID, filter TaskFilter, page Page) ([]models.Task, int64, error)
	Update(db *gorm.DB, ownerID, taskID uuid.UUID, patch TaskPatch) (models.Task, error)
	Delete(db *gorm.DB, ownerID, taskID uuid.UUID) error
}

type TaskStore struct{}

func NewTaskStore() *TaskStore {
	return &TaskStore{}
}

func (s *TaskStore) Create(db *gorm.DB, ownerID uuid.UUID, input TaskCreate) (models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	status := input.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !status.IsValid() {
		return models.Task{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, input.Status)
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.IsValid() {
		return models.Task{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, input.Priority)
	}

	now := time.Now().UTC()
	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		Priority:    priority,
		CreatedAt:   now,
	}
	if status == models.StatusDone {
		task.CompletedAt = &now
	}

	if err := db.Create(&task).Error; err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (s *TaskStore) Get(db *gorm.DB, ownerID, taskID uuid.UUID) (models.Task, error) {
	var task models.Task
	err := db.Where("id = ? AND owner_id = ?", taskID, ownerID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrNotFound
		}
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (s *TaskStore) List(db *gorm.DB, ownerID uuid.UUID, filter TaskFilter, page Page) ([]models.Task, int64, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *filter.Status)
	}
	if filter.Priority != nil && !filter.Priority.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *filter.Priority)
	}

	query := db.Model(&models.Task{}).Where("owner_id = ?", ownerID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	// Creation order with id tie-break keeps page boundaries stable across
	// repeated reads.
	query = query.Order("created_at ASC, id ASC")
	if page.Limit > 0 {
		query = query.Limit(page.Limit)
	}
	if page.Offset > 0 {
		query = query.Offset(page.Offset)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

func (s *TaskStore) Update(db *gorm.DB, ownerID, taskID uuid.UUID, patch TaskPatch) (models.Task, error) {
	// Validate before touching anything so a bad field leaves the record
	// untouched (all-or-nothing).
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return models.Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return models.Task{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *patch.Status)
	}
	if patch.Priority != nil && !patch.Priority.IsValid() {
		return models.Task{}, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *patch.Priority)
	}

	var updated models.Task
	err := db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		err := tx.Where("id = ? AND owner_id = ?", taskID, ownerID).First(&task).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("get task: %w", err)
		}

		if patch.Title != nil {
			task.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			task.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Priority != nil {
			task.Priority = *patch.Priority
		}
		if patch.Status != nil {
			applyStatusTransition(&task, *patch.Status)
		}

		if err := tx.Save(&task).Error; err != nil {
			return fmt.Errorf("save task: %w", err)
		}
		updated = task
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// applyStatusTransition keeps completed_at consistent with status: entering
// "done" stamps it, leaving "done" clears it.
func applyStatusTransition(task *models.Task, next models.Status) {
	switch {
	case next == models.StatusDone && task.CompletedAt == nil:
		now := time.Now().UTC()
		task.CompletedAt = &now
	case next != models.StatusDone:
		task.CompletedAt = nil
	}
	task.Status = next
}

func (s *TaskStore) Delete(db *gorm.DB, ownerID, taskID uuid.UUID) error {
	result := db.Where("id = ? AND owner_id = ?", taskID, ownerID).Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
