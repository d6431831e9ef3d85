package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/cache"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/constants"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/logger"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/queue"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/entity"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/repository"

	"github.com/codeGROOVE-dev/retry"
)

// ScheduleStore reads grids through the cache and falls back to the database.
// Writes land in the cache first and reach the database through the queue,
// or directly when no queue is configured.
type ScheduleStore struct {
	cache    cache.Cache
	repo     repository.ScheduleRepositoryInterface
	enqueuer queue.Enqueuer

	attempts   uint
	retryDelay time.Duration
	now        func() time.Time
}

type StoreOptions struct {
	// LoadAttempts - default 3
	LoadAttempts uint
	// RetryDelay - default 100ms, grows with jitter between attempts
	RetryDelay time.Duration
}

// NewScheduleStore wires the store. enqueuer may be nil.
func NewScheduleStore(c cache.Cache, repo repository.ScheduleRepositoryInterface, enqueuer queue.Enqueuer, opts StoreOptions) *ScheduleStore {
	if opts.LoadAttempts == 0 {
		opts.LoadAttempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 100 * time.Millisecond
	}
	return &ScheduleStore{
		cache:      c,
		repo:       repo,
		enqueuer:   enqueuer,
		attempts:   opts.LoadAttempts,
		retryDelay: opts.RetryDelay,
		now:        time.Now,
	}
}

func cacheKey(userID int64) string {
	return constants.ScheduleCacheKeyPrefix + strconv.FormatInt(userID, 10)
}

// Load returns nil, nil when the user has no stored grid.
func (s *ScheduleStore) Load(ctx context.Context, userID int64) (*entity.StoredSchedule, error) {
	if cached, ok := s.fromCache(ctx, userID); ok {
		return cached, nil
	}

	var stored *entity.StoredSchedule
	err := s.withRetry(ctx, "Load", func() error {
		var err error
		stored, err = s.repo.GetByUserID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}

	s.toCache(ctx, stored)
	return stored, nil
}

// LoadMany returns the stored schedules it found, keyed by user id. Ids with
// no stored grid are simply absent from the map.
func (s *ScheduleStore) LoadMany(ctx context.Context, userIDs []int64) (map[int64]*entity.StoredSchedule, error) {
	found := make(map[int64]*entity.StoredSchedule, len(userIDs))
	misses := make([]int64, 0, len(userIDs))
	for _, id := range userIDs {
		if _, seen := found[id]; seen {
			continue
		}
		if cached, ok := s.fromCache(ctx, id); ok {
			found[id] = cached
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return found, nil
	}

	var rows []entity.StoredSchedule
	err := s.withRetry(ctx, "LoadMany", func() error {
		var err error
		rows, err = s.repo.GetByUserIDs(ctx, misses)
		return err
	})
	if err != nil {
		return nil, err
	}

	for i := range rows {
		stored := rows[i]
		found[stored.UserID] = &stored
		s.toCache(ctx, &stored)
	}
	return found, nil
}

// Save stamps the schedule, updates the cache and hands the database write to
// the background queue. It returns once the cache holds the new grid.
func (s *ScheduleStore) Save(ctx context.Context, schedule *entity.StoredSchedule) error {
	schedule.UpdatedAt = s.now().UTC()

	cached := s.toCache(ctx, schedule)

	if s.enqueuer != nil {
		err := s.enqueuer.Enqueue(ctx, constants.TaskSchedulePersist, schedule)
		if err == nil {
			return nil
		}
		logger.Warn("ScheduleStore:Save:EnqueueFailed", "user_id", schedule.UserID, "error", err)
	}

	if err := s.repo.Upsert(ctx, schedule); err != nil {
		if cached {
			// The cache already serves the new grid; the database catches
			// up on the next save.
			logger.Error("ScheduleStore:Save:Persist", "user_id", schedule.UserID, "error", err)
			return nil
		}
		return err
	}
	return nil
}

// Delete stamps a deletion newer than every save already made, so a persist
// task still waiting in the queue cannot bring the grid back.
func (s *ScheduleStore) Delete(ctx context.Context, userID int64) error {
	if err := s.repo.Delete(ctx, userID, s.now().UTC()); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, cacheKey(userID)); err != nil {
		logger.Warn("ScheduleStore:Delete:Cache", "user_id", userID, "error", err)
	}
	return nil
}

// HandlePersistTask is the queue handler for constants.TaskSchedulePersist.
func (s *ScheduleStore) HandlePersistTask(ctx context.Context, payload []byte) error {
	var schedule entity.StoredSchedule
	if err := json.Unmarshal(payload, &schedule); err != nil {
		logger.Error("ScheduleStore:HandlePersistTask:Decode", err)
		return queue.SkipRetry(err)
	}

	if err := s.repo.Upsert(ctx, &schedule); err != nil {
		return err
	}

	logger.Debug("ScheduleStore:HandlePersistTask:Done", "user_id", schedule.UserID)
	return nil
}

func (s *ScheduleStore) withRetry(ctx context.Context, op string, fn func() error) error {
	return retry.Do(
		func() error {
			err := fn()
			if errors.Is(err, entity.ErrShapeMismatch) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.retryDelay),
		retry.MaxDelay(2*time.Second),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("ScheduleStore:"+op+":Retry", "attempt", n+1, "error", err)
		}),
	)
}

func (s *ScheduleStore) fromCache(ctx context.Context, userID int64) (*entity.StoredSchedule, bool) {
	data, err := s.cache.Get(ctx, cacheKey(userID))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("ScheduleStore:Cache:Get", "user_id", userID, "error", err)
		}
		return nil, false
	}

	var stored entity.StoredSchedule
	if err := json.Unmarshal(data, &stored); err != nil {
		logger.Warn("ScheduleStore:Cache:Decode", "user_id", userID, "error", err)
		return nil, false
	}
	return &stored, true
}

func (s *ScheduleStore) toCache(ctx context.Context, stored *entity.StoredSchedule) bool {
	data, err := json.Marshal(stored)
	if err != nil {
		logger.Warn("ScheduleStore:Cache:Encode", "user_id", stored.UserID, "error", err)
		return false
	}
	if err := s.cache.Set(ctx, cacheKey(stored.UserID), data); err != nil {
		logger.Warn("ScheduleStore:Cache:Set", "user_id", stored.UserID, "error", err)
		return false
	}
	return true
}
