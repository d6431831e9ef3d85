package dto

import (
	"time"

	"github.com/chooinsik-ship-it/WHEN-MEET/modules/group/entity"
	scheduleDto "github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/dto"

	"github.com/google/uuid"
)

// CreateGroupRequest names the group and who to invite
type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// JoinGroupRequest joins a group by its shared code
type JoinGroupRequest struct {
	InviteCode string `json:"invite_code"`
}

type GroupResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	InviteCode      string    `json:"invite_code"`
	Creator         string    `json:"creator"`
	CreatorID       int64     `json:"creator_id"`
	Members         []string  `json:"members"`
	AcceptedMembers []string  `json:"accepted_members"`
	CreatedAt       time.Time `json:"created_at"`
}

type InvitationResponse struct {
	GroupID   uuid.UUID `json:"group_id"`
	Name      string    `json:"name"`
	Creator   string    `json:"creator"`
	Members   []string  `json:"members"`
	InvitedAt time.Time `json:"invited_at"`
}

type PendingInvitationsResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
	Total       int                  `json:"total"`
}

type GroupRecommendationResponse struct {
	Group GroupResponse `json:"group"`
	scheduleDto.OverlapView
}

func ToGroupResponse(g *entity.Group) GroupResponse {
	members := []string(g.Members)
	if members == nil {
		members = []string{}
	}
	accepted := []string(g.AcceptedMembers)
	if accepted == nil {
		accepted = []string{}
	}
	return GroupResponse{
		ID:              g.ID,
		Name:            g.Name,
		Slug:            g.Slug,
		InviteCode:      g.InviteCode,
		Creator:         g.Creator,
		CreatorID:       g.CreatorID,
		Members:         members,
		AcceptedMembers: accepted,
		CreatedAt:       g.CreatedAt,
	}
}

func ToGroupResponses(groups []entity.Group) []GroupResponse {
	out := make([]GroupResponse, 0, len(groups))
	for i := range groups {
		out = append(out, ToGroupResponse(&groups[i]))
	}
	return out
}

func ToPendingInvitationsResponse(invitations []entity.PendingInvitation) *PendingInvitationsResponse {
	out := make([]InvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		members := []string(inv.Members)
		if members == nil {
			members = []string{}
		}
		out = append(out, InvitationResponse{
			GroupID:   inv.GroupID,
			Name:      inv.GroupName,
			Creator:   inv.Creator,
			Members:   members,
			InvitedAt: inv.InvitedAt,
		})
	}
	return &PendingInvitationsResponse{
		Invitations: out,
		Total:       len(out),
	}
}
