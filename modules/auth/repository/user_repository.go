package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/database"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/logger"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/auth/entity"
)

type UserRepository struct {
	DB database.IDatabase
}

func NewUserRepository(db database.IDatabase) *UserRepository {
	return &UserRepository{DB: db}
}

type UserRepositoryInterface interface {
	RecordLogin(ctx context.Context, id int64, nickname string) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	Search(ctx context.Context, query string, limit int) ([]entity.User, error)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// RecordLogin inserts the user or bumps last_login_at. Two nicknames that hash
// to the same id share a row; the latest login wins the nickname column.
func (r *UserRepository) RecordLogin(ctx context.Context, id int64, nickname string) (*entity.User, error) {
	var user entity.User
	query := `
		INSERT INTO users (id, nickname)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET nickname = EXCLUDED.nickname, last_login_at = NOW()
		RETURNING id, nickname, created_at, last_login_at
	`

	if err := r.DB.GetContext(ctx, &user, query, id, nickname); err != nil {
		logger.Error("UserRepository:RecordLogin", err)
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var user entity.User
	query := `SELECT id, nickname, created_at, last_login_at FROM users WHERE id = $1`

	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("UserRepository:GetByID", err)
		return nil, err
	}
	return &user, nil
}

// Search matches nicknames containing query, most recently active first. An
// empty query lists recent users.
func (r *UserRepository) Search(ctx context.Context, query string, limit int) ([]entity.User, error) {
	users := []entity.User{}
	sqlQuery := `
		SELECT id, nickname, created_at, last_login_at
		FROM users
		WHERE nickname ILIKE $1
		ORDER BY last_login_at DESC
		LIMIT $2
	`

	pattern := "%" + likeEscaper.Replace(query) + "%"
	if err := r.DB.SelectContext(ctx, &users, sqlQuery, pattern, limit); err != nil {
		logger.Error("UserRepository:Search", err)
		return nil, err
	}
	return users, nil
}
