package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/database"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/logger"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/group/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// ErrInvitationAnswered is returned by RespondInvitation when the invitation
// was answered between the read and the write.
var ErrInvitationAnswered = errors.New("invitation already answered")

// GroupRepository handles groups and group_invitations
type GroupRepository struct {
	DB database.IDatabase
}

// NewGroupRepository creates a new repository instance
func NewGroupRepository(db database.IDatabase) *GroupRepository {
	return &GroupRepository{DB: db}
}

// GroupRepositoryInterface defines the repository contract
type GroupRepositoryInterface interface {
	CreateWithInvitations(ctx context.Context, group *entity.Group, invitees []string) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Group, error)
	GetByInviteCode(ctx context.Context, code string) (*entity.Group, error)
	ListByAcceptedMember(ctx context.Context, nickname string) ([]entity.Group, error)
	AddMember(ctx context.Context, groupID uuid.UUID, nickname string) error

	GetInvitation(ctx context.Context, groupID uuid.UUID, nickname string) (*entity.GroupInvitation, error)
	ListPendingInvitations(ctx context.Context, nickname string) ([]entity.PendingInvitation, error)
	RespondInvitation(ctx context.Context, groupID uuid.UUID, nickname string, status entity.InvitationStatus) error
}

// IsUniqueViolation reports whether err is a postgres unique constraint error.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

const groupColumns = `
	id, name, slug, invite_code, creator, creator_id,
	members, accepted_members, created_at, updated_at
`

// ===================== Groups =====================

// CreateWithInvitations inserts the group and one pending invitation per
// invitee in a single transaction. CreatedAt and UpdatedAt are filled in.
func (r *GroupRepository) CreateWithInvitations(ctx context.Context, group *entity.Group, invitees []string) error {
	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("GroupRepository:CreateWithInvitations:BeginTx", err)
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO groups (id, name, slug, invite_code, creator, creator_id, members, accepted_members)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRowxContext(ctx, query,
		group.ID, group.Name, group.Slug, group.InviteCode, group.Creator, group.CreatorID,
		group.Members, group.AcceptedMembers,
	).Scan(&group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		logger.Error("GroupRepository:CreateWithInvitations:InsertGroup", err)
		return err
	}

	inviteQuery := `
		INSERT INTO group_invitations (group_id, nickname, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id, nickname) DO NOTHING
	`
	for _, nickname := range invitees {
		if _, err := tx.ExecContext(ctx, inviteQuery, group.ID, nickname, entity.InvitationStatusPending); err != nil {
			logger.Error("GroupRepository:CreateWithInvitations:InsertInvitation", "nickname", nickname, "error", err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("GroupRepository:CreateWithInvitations:Commit", err)
		return err
	}
	return nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Group, error) {
	var group entity.Group
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`

	err := r.DB.GetContext(ctx, &group, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("GroupRepository:GetByID", err)
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) GetByInviteCode(ctx context.Context, code string) (*entity.Group, error) {
	var group entity.Group
	query := `SELECT ` + groupColumns + ` FROM groups WHERE invite_code = $1`

	err := r.DB.GetContext(ctx, &group, query, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("GroupRepository:GetByInviteCode", err)
		return nil, err
	}
	return &group, nil
}

func (r *GroupRepository) ListByAcceptedMember(ctx context.Context, nickname string) ([]entity.Group, error) {
	groups := []entity.Group{}
	query := `
		SELECT ` + groupColumns + `
		FROM groups
		WHERE accepted_members @> ARRAY[$1::TEXT]
		ORDER BY created_at DESC
	`

	if err := r.DB.SelectContext(ctx, &groups, query, nickname); err != nil {
		logger.Error("GroupRepository:ListByAcceptedMember", err)
		return nil, err
	}
	return groups, nil
}

// AddMember puts nickname in both member lists, once, and marks any
// invitation it holds for the group as accepted.
func (r *GroupRepository) AddMember(ctx context.Context, groupID uuid.UUID, nickname string) error {
	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("GroupRepository:AddMember:BeginTx", err)
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE groups
		SET members = CASE WHEN $2 = ANY(members) THEN members ELSE array_append(members, $2) END,
		    accepted_members = CASE WHEN $2 = ANY(accepted_members) THEN accepted_members ELSE array_append(accepted_members, $2) END,
		    updated_at = NOW()
		WHERE id = $1
	`, groupID, nickname)
	if err != nil {
		logger.Error("GroupRepository:AddMember:Join", err)
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE group_invitations
		SET status = $3, responded_at = NOW(), updated_at = NOW()
		WHERE group_id = $1 AND nickname = $2 AND status <> $3
	`, groupID, nickname, entity.InvitationStatusAccepted)
	if err != nil {
		logger.Error("GroupRepository:AddMember:Invitation", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("GroupRepository:AddMember:Commit", err)
		return err
	}
	return nil
}

// ===================== Invitations =====================

func (r *GroupRepository) GetInvitation(ctx context.Context, groupID uuid.UUID, nickname string) (*entity.GroupInvitation, error) {
	var invitation entity.GroupInvitation
	query := `
		SELECT id, group_id, nickname, status, responded_at, created_at, updated_at
		FROM group_invitations
		WHERE group_id = $1 AND nickname = $2
	`

	err := r.DB.GetContext(ctx, &invitation, query, groupID, nickname)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("GroupRepository:GetInvitation", err)
		return nil, err
	}
	return &invitation, nil
}

// ListPendingInvitations skips groups the nickname has already joined.
func (r *GroupRepository) ListPendingInvitations(ctx context.Context, nickname string) ([]entity.PendingInvitation, error) {
	invitations := []entity.PendingInvitation{}
	query := `
		SELECT g.id AS group_id, g.name AS group_name, g.creator, g.members, i.created_at AS invited_at
		FROM group_invitations i
		JOIN groups g ON g.id = i.group_id
		WHERE i.nickname = $1
		  AND i.status = $2
		  AND NOT (g.accepted_members @> ARRAY[$1::TEXT])
		ORDER BY i.created_at DESC
	`

	err := r.DB.SelectContext(ctx, &invitations, query, nickname, entity.InvitationStatusPending)
	if err != nil {
		logger.Error("GroupRepository:ListPendingInvitations", err)
		return nil, err
	}
	return invitations, nil
}

// RespondInvitation records the answer and, on accept, joins the group. Only
// a pending invitation is updated; otherwise ErrInvitationAnswered.
func (r *GroupRepository) RespondInvitation(ctx context.Context, groupID uuid.UUID, nickname string, status entity.InvitationStatus) error {
	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("GroupRepository:RespondInvitation:BeginTx", err)
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE group_invitations
		SET status = $3, responded_at = NOW(), updated_at = NOW()
		WHERE group_id = $1 AND nickname = $2 AND status = $4
	`, groupID, nickname, status, entity.InvitationStatusPending)
	if err != nil {
		logger.Error("GroupRepository:RespondInvitation:Update", err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		logger.Error("GroupRepository:RespondInvitation:RowsAffected", err)
		return err
	}
	if affected == 0 {
		return ErrInvitationAnswered
	}

	if status == entity.InvitationStatusAccepted {
		_, err = tx.ExecContext(ctx, `
			UPDATE groups
			SET accepted_members = array_append(accepted_members, $2), updated_at = NOW()
			WHERE id = $1 AND NOT ($2 = ANY(accepted_members))
		`, groupID, nickname)
		if err != nil {
			logger.Error("GroupRepository:RespondInvitation:Join", err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		logger.Error("GroupRepository:RespondInvitation:Commit", err)
		return err
	}
	return nil
}
