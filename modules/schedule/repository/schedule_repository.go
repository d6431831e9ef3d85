package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/database"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/logger"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/entity"

	"github.com/lib/pq"
)

// ScheduleRepository stores one weekly grid per user in the schedules table
type ScheduleRepository struct {
	DB database.IDatabase
}

// NewScheduleRepository creates a new repository instance
func NewScheduleRepository(db database.IDatabase) *ScheduleRepository {
	return &ScheduleRepository{DB: db}
}

// ScheduleRepositoryInterface defines the repository contract
type ScheduleRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID int64) (*entity.StoredSchedule, error)
	GetByUserIDs(ctx context.Context, userIDs []int64) ([]entity.StoredSchedule, error)
	Upsert(ctx context.Context, schedule *entity.StoredSchedule) error
	Delete(ctx context.Context, userID int64, deletedAt time.Time) error
}

// GetByUserID returns nil, nil when the user has never saved a grid.
func (r *ScheduleRepository) GetByUserID(ctx context.Context, userID int64) (*entity.StoredSchedule, error) {
	query := `
		SELECT user_id, nickname, grid, updated_at
		FROM schedules WHERE user_id = $1 AND deleted_at IS NULL
	`

	var schedule entity.StoredSchedule
	err := r.DB.GetContext(ctx, &schedule, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("ScheduleRepository:GetByUserID", "user_id", userID, "error", err)
		return nil, err
	}

	return &schedule, nil
}

func (r *ScheduleRepository) GetByUserIDs(ctx context.Context, userIDs []int64) ([]entity.StoredSchedule, error) {
	if len(userIDs) == 0 {
		return []entity.StoredSchedule{}, nil
	}

	query := `
		SELECT user_id, nickname, grid, updated_at
		FROM schedules WHERE user_id = ANY($1) AND deleted_at IS NULL
	`

	schedules := []entity.StoredSchedule{}
	err := r.DB.SelectContext(ctx, &schedules, query, pq.Array(userIDs))
	if err != nil {
		logger.Error("ScheduleRepository:GetByUserIDs", err)
		return nil, err
	}

	return schedules, nil
}

// Upsert writes the grid unless a newer version or a newer deletion is
// already stored. A delayed background write cannot roll a schedule back or
// revive a deleted one.
func (r *ScheduleRepository) Upsert(ctx context.Context, schedule *entity.StoredSchedule) error {
	query := `
		INSERT INTO schedules (user_id, nickname, grid, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET nickname = EXCLUDED.nickname,
		    grid = EXCLUDED.grid,
		    updated_at = EXCLUDED.updated_at,
		    deleted_at = NULL
		WHERE schedules.updated_at <= EXCLUDED.updated_at
	`

	err := r.DB.ExecContext(ctx, query,
		schedule.UserID, schedule.Nickname, schedule.Grid, schedule.UpdatedAt)
	if err != nil {
		logger.Error("ScheduleRepository:Upsert", "user_id", schedule.UserID, "error", err)
		return err
	}

	return nil
}

// Delete leaves a tombstone stamped deletedAt instead of removing the row,
// so writes stamped earlier are refused by Upsert.
func (r *ScheduleRepository) Delete(ctx context.Context, userID int64, deletedAt time.Time) error {
	query := `
		INSERT INTO schedules (user_id, nickname, grid, updated_at, deleted_at)
		VALUES ($1, '', $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET updated_at = EXCLUDED.updated_at,
		    deleted_at = EXCLUDED.deleted_at
		WHERE schedules.updated_at <= EXCLUDED.updated_at
	`

	if err := r.DB.ExecContext(ctx, query, userID, entity.NewGrid(), deletedAt); err != nil {
		logger.Error("ScheduleRepository:Delete", "user_id", userID, "error", err)
		return err
	}

	return nil
}
