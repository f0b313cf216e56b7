package models_test

import (
	"testing"
	"time"

	"task-tracker/internal/models"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStatus_IsValid(t *testing.T) {
	for _, s := range models.Statuses {
		assert.True(t, s.IsValid(), "expected %q to be valid", s)
	}

	assert.False(t, models.Status("").IsValid())
	assert.False(t, models.Status("pending").IsValid())
	assert.False(t, models.Status("DONE").IsValid())
}

func TestPriority_IsValid(t *testing.T) {
	for _, p := range models.Priorities {
		assert.True(t, p.IsValid(), "expected %q to be valid", p)
	}

	assert.False(t, models.Priority("").IsValid())
	assert.False(t, models.Priority("urgent").IsValid())
}

func TestTask_IsCompleted(t *testing.T) {
	now := time.Now()
	task := models.Task{
		ID:          uuid.Must(uuid.NewV4()),
		OwnerID:     uuid.Must(uuid.NewV4()),
		Title:       "Buy milk",
		Status:      models.StatusDone,
		Priority:    models.PriorityMedium,
		CompletedAt: &now,
	}

	assert.True(t, task.IsCompleted())

	task.Status = models.StatusInProgress
	assert.False(t, task.IsCompleted())
}
