package service

import (
	"context"
	stderrors "errors"
	"slices"
	"strings"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/errors"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/logger"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/utils"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/group/dto"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/group/entity"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/group/repository"
	scheduleDto "github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/dto"
	scheduleService "github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/service"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	maxGroupNameLength = 64
	inviteCodeAttempts = 3
)

// ScheduleComparer runs the engine over members' stored grids.
type ScheduleComparer interface {
	CompareMembers(ctx context.Context, members []scheduleService.Member, minDuration int) (*scheduleDto.OverlapView, *errors.AppError)
}

type GroupService struct {
	repo      repository.GroupRepositoryInterface
	schedules ScheduleComparer
	newCode   func() string
}

// GroupServiceInterface defines the service contract
type GroupServiceInterface interface {
	CreateGroup(ctx context.Context, creator string, req *dto.CreateGroupRequest) (*dto.GroupResponse, *errors.AppError)
	GetGroup(ctx context.Context, groupID uuid.UUID, nickname string) (*dto.GroupResponse, *errors.AppError)
	GetMyGroups(ctx context.Context, nickname string) ([]dto.GroupResponse, *errors.AppError)
	JoinByInviteCode(ctx context.Context, nickname string, req *dto.JoinGroupRequest) (*dto.GroupResponse, *errors.AppError)
	GetPendingInvitations(ctx context.Context, nickname string) (*dto.PendingInvitationsResponse, *errors.AppError)
	RespondInvitation(ctx context.Context, groupID uuid.UUID, nickname string, accept bool) (*dto.GroupResponse, *errors.AppError)
	GetGroupRecommendation(ctx context.Context, groupID uuid.UUID, nickname string, minDuration int) (*dto.GroupRecommendationResponse, *errors.AppError)
}

func NewGroupService(repo repository.GroupRepositoryInterface, schedules ScheduleComparer) GroupServiceInterface {
	return &GroupService{
		repo:      repo,
		schedules: schedules,
		newCode:   utils.GenerateInviteCode,
	}
}

// CreateGroup stores the group with the creator as its only accepted member
// and sends a pending invitation to everyone else.
func (s *GroupService) CreateGroup(ctx context.Context, creator string, req *dto.CreateGroupRequest) (*dto.GroupResponse, *errors.AppError) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len([]rune(name)) > maxGroupNameLength {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Group name is required (max 64 characters)", nil)
	}

	invitees := make([]string, 0, len(req.Members))
	for _, raw := range req.Members {
		nickname, ok := utils.NormalizeNickname(raw)
		if !ok {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid member nickname: "+raw, nil)
		}
		if nickname == creator || slices.Contains(invitees, nickname) {
			continue
		}
		invitees = append(invitees, nickname)
	}
	if len(invitees) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invite at least one other member", nil)
	}

	groupSlug := slug.Make(name)
	if groupSlug == "" {
		groupSlug = "group"
	}

	group := &entity.Group{
		ID:              uuid.New(),
		Name:            name,
		Slug:            groupSlug,
		Creator:         creator,
		CreatorID:       utils.NicknameToID(creator),
		Members:         append([]string{creator}, invitees...),
		AcceptedMembers: []string{creator},
	}

	var err error
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		group.InviteCode = s.newCode()
		err = s.repo.CreateWithInvitations(ctx, group, invitees)
		if err == nil || !repository.IsUniqueViolation(err) {
			break
		}
		logger.Warn("GroupService:CreateGroup:InviteCodeTaken", "attempt", attempt+1)
	}
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create group", err)
	}

	logger.Info("GroupService:CreateGroup:Created", "group_id", group.ID, "creator", creator, "invited", len(invitees))
	resp := dto.ToGroupResponse(group)
	return &resp, nil
}

// GetGroup is visible to accepted members only
func (s *GroupService) GetGroup(ctx context.Context, groupID uuid.UUID, nickname string) (*dto.GroupResponse, *errors.AppError) {
	group, appErr := s.acceptedGroup(ctx, groupID, nickname)
	if appErr != nil {
		return nil, appErr
	}
	resp := dto.ToGroupResponse(group)
	return &resp, nil
}

// GetMyGroups lists the groups nickname has joined
func (s *GroupService) GetMyGroups(ctx context.Context, nickname string) ([]dto.GroupResponse, *errors.AppError) {
	groups, err := s.repo.ListByAcceptedMember(ctx, nickname)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get groups", err)
	}
	return dto.ToGroupResponses(groups), nil
}

// JoinByInviteCode adds nickname to the group behind a shared code
func (s *GroupService) JoinByInviteCode(ctx context.Context, nickname string, req *dto.JoinGroupRequest) (*dto.GroupResponse, *errors.AppError) {
	code := strings.ToUpper(strings.TrimSpace(req.InviteCode))
	if code == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invite code is required", nil)
	}

	group, err := s.repo.GetByInviteCode(ctx, code)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get group", err)
	}
	if group == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Group not found", nil)
	}

	if !group.HasAccepted(nickname) {
		if err := s.repo.AddMember(ctx, group.ID, nickname); err != nil {
			return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to join group", err)
		}
		if !slices.Contains(group.Members, nickname) {
			group.Members = append(group.Members, nickname)
		}
		group.AcceptedMembers = append(group.AcceptedMembers, nickname)
	}

	resp := dto.ToGroupResponse(group)
	return &resp, nil
}

// GetPendingInvitations returns invitations nickname has not answered
func (s *GroupService) GetPendingInvitations(ctx context.Context, nickname string) (*dto.PendingInvitationsResponse, *errors.AppError) {
	invitations, err := s.repo.ListPendingInvitations(ctx, nickname)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get invitations", err)
	}
	return dto.ToPendingInvitationsResponse(invitations), nil
}

// RespondInvitation accepts or declines. Repeating the same answer is a no-op;
// changing an answer is rejected.
func (s *GroupService) RespondInvitation(ctx context.Context, groupID uuid.UUID, nickname string, accept bool) (*dto.GroupResponse, *errors.AppError) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get group", err)
	}
	if group == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Group not found", nil)
	}
	if !group.IsMember(nickname) {
		return nil, errors.NewAppError(errors.ErrNotFound, "Invitation not found", nil)
	}

	invitation, err := s.repo.GetInvitation(ctx, groupID, nickname)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get invitation", err)
	}
	if invitation == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Invitation not found", nil)
	}

	status := entity.InvitationStatusDeclined
	if accept {
		status = entity.InvitationStatusAccepted
	}

	switch invitation.Status {
	case entity.InvitationStatusPending:
		if appErr := s.writeResponse(ctx, groupID, nickname, status); appErr != nil {
			return nil, appErr
		}
		if accept && !group.HasAccepted(nickname) {
			group.AcceptedMembers = append(group.AcceptedMembers, nickname)
		}
	case status:
		// Same answer again.
	default:
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "Invitation already responded", nil)
	}

	logger.Info("GroupService:RespondInvitation", "group_id", groupID, "nickname", nickname, "status", status)
	resp := dto.ToGroupResponse(group)
	return &resp, nil
}

// writeResponse stores the answer. When another request answered first, the
// same answer is accepted and a different one is a conflict.
func (s *GroupService) writeResponse(ctx context.Context, groupID uuid.UUID, nickname string, status entity.InvitationStatus) *errors.AppError {
	err := s.repo.RespondInvitation(ctx, groupID, nickname, status)
	if err == nil {
		return nil
	}
	if !stderrors.Is(err, repository.ErrInvitationAnswered) {
		return errors.NewAppError(errors.ErrUpdateFailed, "Failed to respond to invitation", err)
	}

	current, err := s.repo.GetInvitation(ctx, groupID, nickname)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "Failed to get invitation", err)
	}
	if current == nil || current.Status != status {
		return errors.NewAppError(errors.ErrAlreadyExists, "Invitation already responded", nil)
	}
	return nil
}

// GetGroupRecommendation compares the creator and every invited member, in
// that order. Members who never saved a grid count as free and are listed in
// Missing.
func (s *GroupService) GetGroupRecommendation(ctx context.Context, groupID uuid.UUID, nickname string, minDuration int) (*dto.GroupRecommendationResponse, *errors.AppError) {
	group, appErr := s.acceptedGroup(ctx, groupID, nickname)
	if appErr != nil {
		return nil, appErr
	}

	names := group.Participants()
	members := make([]scheduleService.Member, len(names))
	for i, n := range names {
		members[i] = scheduleService.MemberFromNickname(n)
	}

	view, appErr := s.schedules.CompareMembers(ctx, members, minDuration)
	if appErr != nil {
		return nil, appErr
	}

	return &dto.GroupRecommendationResponse{
		Group:       dto.ToGroupResponse(group),
		OverlapView: *view,
	}, nil
}

func (s *GroupService) acceptedGroup(ctx context.Context, groupID uuid.UUID, nickname string) (*entity.Group, *errors.AppError) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get group", err)
	}
	if group == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Group not found", nil)
	}
	if !group.HasAccepted(nickname) {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only members who joined the group can view it", nil)
	}
	return group, nil
}
