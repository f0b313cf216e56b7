package services

import (
	"context"
	"fmt"

	"task-tracker/internal/cache"
	"task-tracker/internal/models"

	"github.com/gofrs/uuid"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// CachedTaskService decorates a TaskService with a per-owner redis cache for
// list results. Writes invalidate the owner's namespace before returning, so
// read-after-write stays consistent; concurrent identical list fills are
// deduplicated with singleflight. A fill racing a concurrent write can store
// its pre-write result after that write's invalidation; such an entry lives
// at most one cache TTL.
type CachedTaskService struct {
	inner TaskService
	cache *cache.Cache
	sf    singleflight.Group
}

func NewCachedTaskService(inner TaskService, c *cache.Cache) *CachedTaskService {
	return &CachedTaskService{inner: inner, cache: c}
}

type cachedListResult struct {
	Tasks []models.Task `json:"tasks"`
	Total int64         `json:"total"`
}

func listKey(ownerID uuid.UUID, filter TaskFilter, page Page) string {
	status, priority := "", ""
	if filter.Status != nil {
		status = string(*filter.Status)
	}
	if filter.Priority != nil {
		priority = string(*filter.Priority)
	}
	return cache.OwnerKey(ownerID, fmt.Sprintf("list:%s:%s:%s:%d:%d",
		status, priority, filter.Search, page.Limit, page.Offset))
}

func (s *CachedTaskService) Create(db *gorm.DB, ownerID uuid.UUID, input TaskCreate) (models.Task, error) {
	task, err := s.inner.Create(db, ownerID, input)
	if err != nil {
		return models.Task{}, err
	}
	s.invalidate(ownerID)
	return task, nil
}

func (s *CachedTaskService) Get(db *gorm.DB, ownerID, taskID uuid.UUID) (models.Task, error) {
	return s.inner.Get(db, ownerID, taskID)
}

func (s *CachedTaskService) List(db *gorm.DB, ownerID uuid.UUID, filter TaskFilter, page Page) ([]models.Task, int64, error) {
	key := listKey(ownerID, filter, page)

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		ctx := context.Background()

		var cached cachedListResult
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}

		tasks, total, err := s.inner.List(db, ownerID, filter, page)
		if err != nil {
			return nil, err
		}
		result := cachedListResult{Tasks: tasks, Total: total}
		// A failed fill is only a missed optimization.
		_ = s.cache.Set(ctx, key, result)
		return result, nil
	})
	if err != nil {
		return nil, 0, err
	}

	result := v.(cachedListResult)
	return result.Tasks, result.Total, nil
}

func (s *CachedTaskService) Update(db *gorm.DB, ownerID, taskID uuid.UUID, patch TaskPatch) (models.Task, error) {
	task, err := s.inner.Update(db, ownerID, taskID, patch)
	if err != nil {
		return models.Task{}, err
	}
	s.invalidate(ownerID)
	return task, nil
}

func (s *CachedTaskService) Delete(db *gorm.DB, ownerID, taskID uuid.UUID) error {
	if err := s.inner.Delete(db, ownerID, taskID); err != nil {
		return err
	}
	s.invalidate(ownerID)
	return nil
}

func (s *CachedTaskService) invalidate(ownerID uuid.UUID) {
	_ = s.cache.InvalidateOwner(context.Background(), ownerID)
}

// CachedStatsService decorates a StatsService with the same per-owner cache.
// It shares the owner namespace with CachedTaskService, so task writes also
// invalidate cached statistics.
type CachedStatsService struct {
	inner StatsService
	cache *cache.Cache
	sf    singleflight.Group
}

func NewCachedStatsService(inner StatsService, c *cache.Cache) *CachedStatsService {
	return &CachedStatsService{inner: inner, cache: c}
}

func (s *CachedStatsService) StatusDistribution(db *gorm.DB, ownerID uuid.UUID) (map[models.Status]int64, error) {
	key := cache.OwnerKey(ownerID, "stats:status")
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		ctx := context.Background()

		var cached map[models.Status]int64
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}

		dist, err := s.inner.StatusDistribution(db, ownerID)
		if err != nil {
			return nil, err
		}
		_ = s.cache.Set(ctx, key, dist)
		return dist, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[models.Status]int64), nil
}

func (s *CachedStatsService) PriorityDistribution(db *gorm.DB, ownerID uuid.UUID) (map[models.Priority]int64, error) {
	key := cache.OwnerKey(ownerID, "stats:priority")
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		ctx := context.Background()

		var cached map[models.Priority]int64
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}

		dist, err := s.inner.PriorityDistribution(db, ownerID)
		if err != nil {
			return nil, err
		}
		_ = s.cache.Set(ctx, key, dist)
		return dist, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[models.Priority]int64), nil
}

func (s *CachedStatsService) Summary(db *gorm.DB, ownerID uuid.UUID) (Summary, error) {
	key := cache.OwnerKey(ownerID, "stats:summary")
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		ctx := context.Background()

		var cached Summary
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}

		summary, err := s.inner.Summary(db, ownerID)
		if err != nil {
			return Summary{}, err
		}
		_ = s.cache.Set(ctx, key, summary)
		return summary, nil
	})
	if err != nil {
		return Summary{}, err
	}
	return v.(Summary), nil
}
