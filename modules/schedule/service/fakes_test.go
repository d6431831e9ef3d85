package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/cache"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/entity"
)

var errTransient = errors.New("connection reset")

type fakeRepo struct {
	mu        sync.Mutex
	rows      map[int64]entity.StoredSchedule
	deleted   map[int64]time.Time
	getCalls  int
	manyCalls int
	upserts   int
	// failures makes the next N reads fail with failErr.
	failures int
	failErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[int64]entity.StoredSchedule{}, deleted: map[int64]time.Time{}}
}

func (r *fakeRepo) fail() error {
	if r.failures > 0 {
		r.failures--
		return r.failErr
	}
	return nil
}

func (r *fakeRepo) GetByUserID(_ context.Context, userID int64) (*entity.StoredSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if err := r.fail(); err != nil {
		return nil, err
	}
	row, ok := r.rows[userID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *fakeRepo) GetByUserIDs(_ context.Context, userIDs []int64) ([]entity.StoredSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manyCalls++
	if err := r.fail(); err != nil {
		return nil, err
	}
	var out []entity.StoredSchedule
	for _, id := range userIDs {
		if row, ok := r.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeRepo) Upsert(_ context.Context, schedule *entity.StoredSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	if existing, ok := r.rows[schedule.UserID]; ok && existing.UpdatedAt.After(schedule.UpdatedAt) {
		return nil
	}
	if at, ok := r.deleted[schedule.UserID]; ok && at.After(schedule.UpdatedAt) {
		return nil
	}
	delete(r.deleted, schedule.UserID)
	r.rows[schedule.UserID] = *schedule
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, userID int64, deletedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rows[userID]; ok && existing.UpdatedAt.After(deletedAt) {
		return nil
	}
	delete(r.rows, userID)
	r.deleted[userID] = deletedAt
	return nil
}

type enqueued struct {
	taskType string
	payload  []byte
}

type fakeEnqueuer struct {
	mu    sync.Mutex
	tasks []enqueued
	err   error
}

func (q *fakeEnqueuer) Enqueue(_ context.Context, taskType string, payload any) error {
	if q.err != nil {
		return q.err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, enqueued{taskType: taskType, payload: body})
	q.mu.Unlock()
	return nil
}

func newTestStore(repo *fakeRepo, q *fakeEnqueuer) (*ScheduleStore, cache.Cache) {
	c := cache.NewMemoryCache(100, time.Hour)
	opts := StoreOptions{LoadAttempts: 3, RetryDelay: time.Millisecond}
	if q == nil {
		return NewScheduleStore(c, repo, nil, opts), c
	}
	return NewScheduleStore(c, repo, q, opts), c
}
