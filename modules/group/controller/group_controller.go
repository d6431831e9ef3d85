package controller

import (
	"context"
	"strconv"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/constants"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/controller"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/errors"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/utils"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/group/dto"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/group/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// GroupController handles group and invitation HTTP requests
type GroupController struct {
	controller.BaseController
	GroupService service.GroupServiceInterface
}

// NewGroupController creates a new controller
func NewGroupController(svc service.GroupServiceInterface) *GroupController {
	return &GroupController{
		BaseController: controller.NewBaseController(),
		GroupService:   svc,
	}
}

func (c *GroupController) nickname(ctx echo.Context) (string, error) {
	claims, err := c.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	return claims.Nickname, nil
}

func requestContext(ctx echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request().Context(), constants.DefaultRequestTimeout)
}

func groupIDParam(ctx echo.Context, name string) (uuid.UUID, bool) {
	id := utils.ToUUID(ctx.Param(name))
	return id, id != uuid.Nil
}

// CreateGroup handles POST /groups
// @Summary Create a group and invite members
// @Tags Group
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateGroupRequest true "Group"
// @Success 200 {object} dto.GroupResponse
// @Failure 400 {object} errors.AppError
// @Router /private/groups [post]
func (c *GroupController) CreateGroup(ctx echo.Context) error {
	nickname, err := c.nickname(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateGroupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	result, appErr := c.GroupService.CreateGroup(reqCtx, nickname, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Group created")
}

// GetMyGroups handles GET /groups
// @Summary List groups I joined
// @Tags Group
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.GroupResponse
// @Router /private/groups [get]
func (c *GroupController) GetMyGroups(ctx echo.Context) error {
	nickname, err := c.nickname(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	result, appErr := c.GroupService.GetMyGroups(reqCtx, nickname)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// GetGroup handles GET /groups/:id
// @Summary Get a group
// @Tags Group
// @Security BearerAuth
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /private/groups/{id} [get]
func (c *GroupController) GetGroup(ctx echo.Context) error {
	nickname, err := c.nickname(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, ok := groupIDParam(ctx, "id")
	if !ok {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	result, appErr := c.GroupService.GetGroup(reqCtx, groupID, nickname)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// JoinGroup handles POST /groups/join
// @Summary Join a group with its invite code
// @Tags Group
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.JoinGroupRequest true "Invite code"
// @Success 200 {object} dto.GroupResponse
// @Failure 404 {object} errors.AppError
// @Router /private/groups/join [post]
func (c *GroupController) JoinGroup(ctx echo.Context) error {
	nickname, err := c.nickname(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.JoinGroupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	result, appErr := c.GroupService.JoinByInviteCode(reqCtx, nickname, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Joined group")
}

// GetGroupRecommendation handles GET /groups/:id/recommendation
// @Summary Recommend a meeting window for every group member
// @Tags Group
// @Security BearerAuth
// @Produce json
// @Param id path string true "Group ID"
// @Param min_duration query int false "Minimum hours"
// @Success 200 {object} dto.GroupRecommendationResponse
// @Router /private/groups/{id}/recommendation [get]
func (c *GroupController) GetGroupRecommendation(ctx echo.Context) error {
	nickname, err := c.nickname(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, ok := groupIDParam(ctx, "id")
	if !ok {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	minDuration := 0
	if raw := ctx.QueryParam("min_duration"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 24 {
			return c.BadRequest(errors.ErrInvalidInput, "min_duration must be between 1 and 24")
		}
		minDuration = n
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	result, appErr := c.GroupService.GetGroupRecommendation(reqCtx, groupID, nickname, minDuration)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, result.Message)
}

// GetPendingInvitations handles GET /invitations
// @Summary List my unanswered group invitations
// @Tags Invitation
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.PendingInvitationsResponse
// @Router /private/invitations [get]
func (c *GroupController) GetPendingInvitations(ctx echo.Context) error {
	nickname, err := c.nickname(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	result, appErr := c.GroupService.GetPendingInvitations(reqCtx, nickname)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// AcceptInvitation handles POST /invitations/:groupId/accept
// @Summary Accept a group invitation
// @Tags Invitation
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Router /private/invitations/{groupId}/accept [post]
func (c *GroupController) AcceptInvitation(ctx echo.Context) error {
	return c.respond(ctx, true)
}

// DeclineInvitation handles POST /invitations/:groupId/decline
// @Summary Decline a group invitation
// @Tags Invitation
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Router /private/invitations/{groupId}/decline [post]
func (c *GroupController) DeclineInvitation(ctx echo.Context) error {
	return c.respond(ctx, false)
}

func (c *GroupController) respond(ctx echo.Context, accept bool) error {
	nickname, err := c.nickname(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	groupID, ok := groupIDParam(ctx, "groupId")
	if !ok {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid group ID")
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	result, appErr := c.GroupService.RespondInvitation(reqCtx, groupID, nickname, accept)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	message := "Invitation declined"
	if accept {
		message = "Invitation accepted"
	}
	return c.SuccessResponse(ctx, result, message)
}
