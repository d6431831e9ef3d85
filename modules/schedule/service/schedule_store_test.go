package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/cache"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/constants"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/entity"

	"github.com/hibiken/asynq"
)

func storedFor(id int64, nickname string, g entity.Grid) entity.StoredSchedule {
	return entity.StoredSchedule{UserID: id, Nickname: nickname, Grid: g, UpdatedAt: time.Unix(1700000000, 0).UTC()}
}

func TestStoreLoadFillsCache(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	g, _ := entity.NewGrid().SetCell(1, 1, true)
	repo.rows[7] = storedFor(7, "seven", g)

	store, c := newTestStore(repo, nil)

	got, err := store.Load(ctx, 7)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || got.Grid != g {
		t.Fatalf("Load = %+v, want stored grid", got)
	}
	if _, err := c.Get(ctx, cacheKey(7)); err != nil {
		t.Fatalf("cache not filled: %v", err)
	}

	if _, err := store.Load(ctx, 7); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if repo.getCalls != 1 {
		t.Errorf("repository called %d times, want 1", repo.getCalls)
	}
}

func TestStoreLoadAbsent(t *testing.T) {
	store, c := newTestStore(newFakeRepo(), nil)

	got, err := store.Load(context.Background(), 99)
	if err != nil || got != nil {
		t.Fatalf("Load = %+v, %v; want nil, nil", got, err)
	}
	if _, err := c.Get(context.Background(), cacheKey(99)); !errors.Is(err, cache.ErrCacheMiss) {
		t.Errorf("absent schedule was cached: %v", err)
	}
}

func TestStoreLoadRetries(t *testing.T) {
	repo := newFakeRepo()
	repo.rows[3] = storedFor(3, "three", entity.NewGrid())
	repo.failures = 2
	repo.failErr = errTransient

	store, _ := newTestStore(repo, nil)
	got, err := store.Load(context.Background(), 3)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("Load returned nil after retries")
	}
	if repo.getCalls != 3 {
		t.Errorf("repository called %d times, want 3", repo.getCalls)
	}
}

func TestStoreLoadGivesUp(t *testing.T) {
	repo := newFakeRepo()
	repo.failures = 10
	repo.failErr = errTransient

	store, _ := newTestStore(repo, nil)
	if _, err := store.Load(context.Background(), 3); !errors.Is(err, errTransient) {
		t.Fatalf("err = %v, want errTransient", err)
	}
	if repo.getCalls != 3 {
		t.Errorf("repository called %d times, want 3", repo.getCalls)
	}
}

func TestStoreLoadDoesNotRetryMalformedRows(t *testing.T) {
	repo := newFakeRepo()
	repo.failures = 10
	repo.failErr = entity.ErrShapeMismatch

	store, _ := newTestStore(repo, nil)
	if _, err := store.Load(context.Background(), 3); !errors.Is(err, entity.ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
	if repo.getCalls != 1 {
		t.Errorf("repository called %d times, want 1", repo.getCalls)
	}
}

func TestStoreSaveThroughQueue(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	q := &fakeEnqueuer{}
	store, _ := newTestStore(repo, q)

	g, _ := entity.NewGrid().PaintRange(2, 10, 2, 13, true)
	if err := store.Save(ctx, &entity.StoredSchedule{UserID: 5, Nickname: "five", Grid: g}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if repo.upserts != 0 {
		t.Fatalf("database written synchronously")
	}
	got, err := store.Load(ctx, 5)
	if err != nil || got == nil || got.Grid != g {
		t.Fatalf("Load after Save = %+v, %v", got, err)
	}

	if len(q.tasks) != 1 || q.tasks[0].taskType != constants.TaskSchedulePersist {
		t.Fatalf("tasks = %+v, want one persist task", q.tasks)
	}
	if err := store.HandlePersistTask(ctx, q.tasks[0].payload); err != nil {
		t.Fatalf("HandlePersistTask: %v", err)
	}
	row, ok := repo.rows[5]
	if !ok || row.Grid != g || row.Nickname != "five" || row.UpdatedAt.IsZero() {
		t.Errorf("persisted row = %+v", row)
	}
}

func TestStoreSaveFallsBackToDirectWrite(t *testing.T) {
	tests := []struct {
		name string
		q    *fakeEnqueuer
	}{
		{"no queue", nil},
		{"enqueue fails", &fakeEnqueuer{err: errors.New("redis down")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			store, _ := newTestStore(repo, tt.q)

			if err := store.Save(context.Background(), &entity.StoredSchedule{UserID: 8, Nickname: "eight"}); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if repo.upserts != 1 {
				t.Errorf("upserts = %d, want 1", repo.upserts)
			}
			if _, ok := repo.rows[8]; !ok {
				t.Error("row not written")
			}
		})
	}
}

func TestHandlePersistTaskRejectsBadPayload(t *testing.T) {
	store, _ := newTestStore(newFakeRepo(), nil)

	err := store.HandlePersistTask(context.Background(), []byte(`{"user_id":1,"schedule":[[true]]}`))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("err = %v, want SkipRetry", err)
	}
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.rows[4] = storedFor(4, "four", entity.NewGrid())
	store, c := newTestStore(repo, nil)

	if _, err := store.Load(ctx, 4); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := store.Delete(ctx, 4); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, cacheKey(4)); !errors.Is(err, cache.ErrCacheMiss) {
		t.Errorf("cache still holds the schedule: %v", err)
	}
	if got, _ := store.Load(ctx, 4); got != nil {
		t.Errorf("Load after Delete = %+v", got)
	}
}

func TestStoreDeleteWinsOverQueuedSave(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	q := &fakeEnqueuer{}
	store, _ := newTestStore(repo, q)

	clock := time.Unix(1700000000, 0)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	g, _ := entity.NewGrid().SetCell(0, 9, true)
	if err := store.Save(ctx, &entity.StoredSchedule{UserID: 6, Nickname: "six", Grid: g}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, 6); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The persist task queued by Save runs after the delete.
	if len(q.tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(q.tasks))
	}
	if err := store.HandlePersistTask(ctx, q.tasks[0].payload); err != nil {
		t.Fatalf("HandlePersistTask: %v", err)
	}

	got, err := store.Load(ctx, 6)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Fatalf("deleted schedule returned with %d busy cells", got.Grid.BusyCellCount())
	}

	// A save made after the delete is kept.
	if err := store.Save(ctx, &entity.StoredSchedule{UserID: 6, Nickname: "six", Grid: g}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.HandlePersistTask(ctx, q.tasks[1].payload); err != nil {
		t.Fatalf("HandlePersistTask: %v", err)
	}
	if row, ok := repo.rows[6]; !ok || row.Grid != g {
		t.Errorf("row after a newer save = %+v, %v", row, ok)
	}
}

func TestStoreLoadMany(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.rows[1] = storedFor(1, "one", entity.NewGrid())
	repo.rows[2] = storedFor(2, "two", entity.NewGrid())
	store, _ := newTestStore(repo, nil)

	// Warm the cache for id 1 only.
	if _, err := store.Load(ctx, 1); err != nil {
		t.Fatalf("Load: %v", err)
	}

	found, err := store.LoadMany(ctx, []int64{1, 2, 3, 1})
	if err != nil {
		t.Fatalf("LoadMany: %v", err)
	}
	if len(found) != 2 || found[1] == nil || found[2] == nil {
		t.Fatalf("found = %v, want ids 1 and 2", found)
	}
	if _, ok := found[3]; ok {
		t.Error("id 3 should be absent")
	}
	if repo.manyCalls != 1 {
		t.Errorf("batch reads = %d, want 1", repo.manyCalls)
	}
}
