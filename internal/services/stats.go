package services

import (
	"fmt"

	"task-tracker/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Summary aggregates one owner's tasks. AverageCompletionTimeSeconds is the
// mean of completed_at - created_at over done tasks, 0 when none are done.
type Summary struct {
	TotalTasks                   int64   `json:"total_tasks"`
	CompletedTasks               int64   `json:"completed_tasks"`
	PendingTasks                 int64   `json:"pending_tasks"`
	InProgressTasks              int64   `json:"in_progress_tasks"`
	CompletionRate               float64 `json:"completion_rate"`
	AverageCompletionTimeSeconds float64 `json:"average_completion_time_seconds"`
}

// StatsService computes distributions and completion aggregates over a single
// owner's tasks.
type StatsService interface {
	StatusDistribution(db *gorm.DB, ownerID uuid.UUID) (map[models.Status]int64, error)
	PriorityDistribution(db *gorm.DB, ownerID uuid.UUID) (map[models.Priority]int64, error)
	Summary(db *gorm.DB, ownerID uuid.UUID) (Summary, error)
}

type StatsEngine struct{}

func NewStatsEngine() *StatsEngine {
	return &StatsEngine{}
}

type groupCount struct {
	Grp   string `gorm:"column:grp"`
	Count int64  `gorm:"column:count"`
}

func (s *StatsEngine) StatusDistribution(db *gorm.DB, ownerID uuid.UUID) (map[models.Status]int64, error) {
	rows, err := countByColumn(db, ownerID, "status")
	if err != nil {
		return nil, err
	}

	// Zero counts are part of the contract: every status appears.
	dist := make(map[models.Status]int64, len(models.Statuses))
	for _, status := range models.Statuses {
		dist[status] = 0
	}
	for _, row := range rows {
		if status := models.Status(row.Grp); status.IsValid() {
			dist[status] = row.Count
		}
	}
	return dist, nil
}

func (s *StatsEngine) PriorityDistribution(db *gorm.DB, ownerID uuid.UUID) (map[models.Priority]int64, error) {
	rows, err := countByColumn(db, ownerID, "priority")
	if err != nil {
		return nil, err
	}

	dist := make(map[models.Priority]int64, len(models.Priorities))
	for _, priority := range models.Priorities {
		dist[priority] = 0
	}
	for _, row := range rows {
		if priority := models.Priority(row.Grp); priority.IsValid() {
			dist[priority] = row.Count
		}
	}
	return dist, nil
}

func countByColumn(db *gorm.DB, ownerID uuid.UUID, column string) ([]groupCount, error) {
	var rows []groupCount
	err := db.Model(&models.Task{}).
		Select(column + " AS grp, COUNT(*) AS count").
		Where("owner_id = ?", ownerID).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count by %s: %w", column, err)
	}
	return rows, nil
}

func (s *StatsEngine) Summary(db *gorm.DB, ownerID uuid.UUID) (Summary, error) {
	var summary Summary

	err := db.Model(&models.Task{}).Where("owner_id = ?", ownerID).Count(&summary.TotalTasks).Error
	if err != nil {
		return Summary{}, fmt.Errorf("count tasks: %w", err)
	}

	err = db.Model(&models.Task{}).
		Where("owner_id = ? AND status = ?", ownerID, models.StatusDone).
		Count(&summary.CompletedTasks).Error
	if err != nil {
		return Summary{}, fmt.Errorf("count completed: %w", err)
	}

	err = db.Model(&models.Task{}).
		Where("owner_id = ? AND status = ?", ownerID, models.StatusInProgress).
		Count(&summary.InProgressTasks).Error
	if err != nil {
		return Summary{}, fmt.Errorf("count in progress: %w", err)
	}

	summary.PendingTasks = summary.TotalTasks - summary.CompletedTasks
	if summary.TotalTasks > 0 {
		summary.CompletionRate = float64(summary.CompletedTasks) / float64(summary.TotalTasks)
	}

	// Durations are computed here rather than in SQL so the arithmetic is
	// identical on Postgres and the sqlite test driver.
	var completed []models.Task
	err = db.Select("created_at", "completed_at").
		Where("owner_id = ? AND status = ?", ownerID, models.StatusDone).
		Find(&completed).Error
	if err != nil {
		return Summary{}, fmt.Errorf("load completed tasks: %w", err)
	}

	var totalSeconds float64
	var counted int64
	for _, task := range completed {
		if task.CompletedAt == nil {
			continue
		}
		totalSeconds += task.CompletedAt.Sub(task.CreatedAt).Seconds()
		counted++
	}
	if counted > 0 {
		summary.AverageCompletionTimeSeconds = totalSeconds / float64(counted)
	}

	return summary, nil
}
