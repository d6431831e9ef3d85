package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Group is a set of nicknames that compare schedules together. Members holds
// everyone the creator invited; AcceptedMembers holds who has joined, creator
// included.
type Group struct {
	ID              uuid.UUID      `db:"id" json:"id"`
	Name            string         `db:"name" json:"name"`
	Slug            string         `db:"slug" json:"slug"`
	InviteCode      string         `db:"invite_code" json:"invite_code"`
	Creator         string         `db:"creator" json:"creator"`
	CreatorID       int64          `db:"creator_id" json:"creator_id"`
	Members         pq.StringArray `db:"members" json:"members"`
	AcceptedMembers pq.StringArray `db:"accepted_members" json:"accepted_members"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

func (g *Group) HasAccepted(nickname string) bool {
	return slices.Contains(g.AcceptedMembers, nickname)
}

func (g *Group) IsMember(nickname string) bool {
	return nickname == g.Creator || slices.Contains(g.Members, nickname)
}

// Participants lists the creator first and then every other member once.
func (g *Group) Participants() []string {
	out := []string{g.Creator}
	for _, m := range g.Members {
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
)

// GroupInvitation is a row of group_invitations
type GroupInvitation struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	GroupID     uuid.UUID        `db:"group_id" json:"group_id"`
	Nickname    string           `db:"nickname" json:"nickname"`
	Status      InvitationStatus `db:"status" json:"status"`
	RespondedAt *time.Time       `db:"responded_at" json:"responded_at,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updated_at"`
}

// PendingInvitation joins an invitation with the group it points at
type PendingInvitation struct {
	GroupID   uuid.UUID      `db:"group_id"`
	GroupName string         `db:"group_name"`
	Creator   string         `db:"creator"`
	Members   pq.StringArray `db:"members"`
	InvitedAt time.Time      `db:"invited_at"`
}
