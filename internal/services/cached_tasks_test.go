package services_test

import (
	"testing"
	"time"

	"task-tracker/internal/cache"
	"task-tracker/internal/models"
	"task-tracker/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCache(t *testing.T) *cache.Cache {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewWithClient(client, time.Minute)
}

// insertBehindCache writes a task directly, bypassing the cached service, so
// a stale cache entry is observable.
func insertBehindCache(t *testing.T, db *gorm.DB, owner uuid.UUID, title string) {
	t.Helper()

	task := models.Task{
		ID:        uuid.Must(uuid.NewV4()),
		OwnerID:   owner,
		Title:     title,
		Status:    models.StatusTodo,
		Priority:  models.PriorityMedium,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&task).Error)
}

func TestCachedTaskService_ListServedFromCache(t *testing.T) {
	db := setupTestDB(t)
	tasks := services.NewCachedTaskService(services.NewTaskStore(), setupCache(t))
	owner := newOwner()

	_, err := tasks.Create(db, owner, services.TaskCreate{Title: "first"})
	require.NoError(t, err)

	_, total, err := tasks.List(db, owner, services.TaskFilter{}, services.Page{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	insertBehindCache(t, db, owner, "sneaked in")

	_, total, err = tasks.List(db, owner, services.TaskFilter{}, services.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "unchanged key is served from cache")
}

func TestCachedTaskService_WritesInvalidate(t *testing.T) {
	db := setupTestDB(t)
	tasks := services.NewCachedTaskService(services.NewTaskStore(), setupCache(t))
	owner := newOwner()

	created, err := tasks.Create(db, owner, services.TaskCreate{Title: "first"})
	require.NoError(t, err)

	_, total, err := tasks.List(db, owner, services.TaskFilter{}, services.Page{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	// Each write through the service must be visible on the next read.
	_, err = tasks.Create(db, owner, services.TaskCreate{Title: "second"})
	require.NoError(t, err)

	listed, total, err := tasks.List(db, owner, services.TaskFilter{}, services.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, listed, 2)

	require.NoError(t, tasks.Delete(db, owner, created.ID))

	_, total, err = tasks.List(db, owner, services.TaskFilter{}, services.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCachedTaskService_OwnersDoNotShareEntries(t *testing.T) {
	db := setupTestDB(t)
	tasks := services.NewCachedTaskService(services.NewTaskStore(), setupCache(t))
	alice, bob := newOwner(), newOwner()

	_, err := tasks.Create(db, alice, services.TaskCreate{Title: "alice's"})
	require.NoError(t, err)

	_, total, err := tasks.List(db, alice, services.TaskFilter{}, services.Page{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	_, total, err = tasks.List(db, bob, services.TaskFilter{}, services.Page{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCachedStatsService_InvalidatedByTaskWrites(t *testing.T) {
	db := setupTestDB(t)
	c := setupCache(t)
	tasks := services.NewCachedTaskService(services.NewTaskStore(), c)
	stats := services.NewCachedStatsService(services.NewStatsEngine(), c)
	owner := newOwner()

	summary, err := stats.Summary(db, owner)
	require.NoError(t, err)
	require.Zero(t, summary.TotalTasks)

	// The stats keys live in the same owner namespace, so a task write
	// drops them too.
	_, err = tasks.Create(db, owner, services.TaskCreate{Title: "new"})
	require.NoError(t, err)

	summary, err = stats.Summary(db, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.TotalTasks)

	dist, err := stats.StatusDistribution(db, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dist[models.StatusTodo])
}
