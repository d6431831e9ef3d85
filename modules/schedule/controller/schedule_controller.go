package controller

import (
	"context"
	"strconv"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/constants"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/controller"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/errors"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/dto"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

// ScheduleController handles schedule HTTP requests
type ScheduleController struct {
	controller.BaseController
	ScheduleService service.ScheduleServiceInterface
}

// NewScheduleController creates a new controller
func NewScheduleController(svc service.ScheduleServiceInterface) *ScheduleController {
	return &ScheduleController{
		BaseController:  controller.NewBaseController(),
		ScheduleService: svc,
	}
}

func (c *ScheduleController) self(ctx echo.Context) (service.Member, error) {
	claims, err := c.CurrentUser(ctx)
	if err != nil {
		return service.Member{}, err
	}
	return service.Member{UserID: claims.UserID, Nickname: claims.Nickname}, nil
}

func requestContext(ctx echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx.Request().Context(), constants.DefaultRequestTimeout)
}

// parseMinDuration reads ?min_duration=; zero means the configured default.
func parseMinDuration(ctx echo.Context) (int, bool) {
	raw := ctx.QueryParam("min_duration")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 24 {
		return 0, false
	}
	return n, true
}

// GetMySchedule handles GET /schedules/me
// @Summary Get my weekly schedule
// @Tags Schedule
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ScheduleResponse
// @Failure 401 {object} errors.AppError
// @Router /private/schedules/me [get]
func (c *ScheduleController) GetMySchedule(ctx echo.Context) error {
	self, err := c.self(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	result, appErr := c.ScheduleService.GetMySchedule(reqCtx, self)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// SaveMySchedule handles PUT /schedules/me
// @Summary Replace my weekly schedule
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SaveScheduleRequest true "7x24 busy grid"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 400 {object} errors.AppError
// @Router /private/schedules/me [put]
func (c *ScheduleController) SaveMySchedule(ctx echo.Context) error {
	self, err := c.self(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.SaveScheduleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	result, appErr := c.ScheduleService.SaveSchedule(reqCtx, self, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Schedule saved")
}

// DeleteMySchedule handles DELETE /schedules/me
// @Summary Delete my weekly schedule
// @Tags Schedule
// @Security BearerAuth
// @Success 200
// @Router /private/schedules/me [delete]
func (c *ScheduleController) DeleteMySchedule(ctx echo.Context) error {
	self, err := c.self(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	if appErr := c.ScheduleService.DeleteSchedule(reqCtx, self); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Schedule deleted")
}

// SetCell handles POST /schedules/me/cells
// @Summary Mark one hour busy or free
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Param request body dto.SetCellRequest true "Cell"
// @Success 200 {object} dto.ScheduleResponse
// @Router /private/schedules/me/cells [post]
func (c *ScheduleController) SetCell(ctx echo.Context) error {
	self, err := c.self(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.SetCellRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	result, appErr := c.ScheduleService.SetCell(reqCtx, self, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Schedule updated")
}

// PaintRange handles POST /schedules/me/paint
// @Summary Paint a drag path
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Param request body dto.PaintRequest true "Path endpoints"
// @Success 200 {object} dto.ScheduleResponse
// @Router /private/schedules/me/paint [post]
func (c *ScheduleController) PaintRange(ctx echo.Context) error {
	self, err := c.self(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.PaintRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	result, appErr := c.ScheduleService.PaintRange(reqCtx, self, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Schedule updated")
}

// Clear handles POST /schedules/me/clear
// @Summary Clear my weekly schedule
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Param request body dto.ClearRequest true "Confirmation"
// @Success 200 {object} dto.ScheduleResponse
// @Router /private/schedules/me/clear [post]
func (c *ScheduleController) Clear(ctx echo.Context) error {
	self, err := c.self(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.ClearRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	result, appErr := c.ScheduleService.Clear(reqCtx, self, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Schedule cleared")
}

// GetSchedule handles GET /schedules/:userId
// @Summary Get a user's weekly schedule
// @Tags Schedule
// @Security BearerAuth
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 404 {object} errors.AppError
// @Router /private/schedules/{userId} [get]
func (c *ScheduleController) GetSchedule(ctx echo.Context) error {
	userID, err := strconv.ParseInt(ctx.Param("userId"), 10, 64)
	if err != nil || userID < 0 {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid user ID")
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	result, appErr := c.ScheduleService.GetSchedule(reqCtx, userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Compare handles GET /schedules/compare
// @Summary Compare my schedule with a friend's
// @Tags Schedule
// @Security BearerAuth
// @Produce json
// @Param with query string true "Friend nickname"
// @Param min_duration query int false "Minimum hours"
// @Success 200 {object} dto.CompareResponse
// @Router /private/schedules/compare [get]
func (c *ScheduleController) Compare(ctx echo.Context) error {
	self, err := c.self(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	minDuration, ok := parseMinDuration(ctx)
	if !ok {
		return c.BadRequest(errors.ErrInvalidInput, "min_duration must be between 1 and 24")
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	result, appErr := c.ScheduleService.Compare(reqCtx, self, ctx.QueryParam("with"), minDuration)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, result.Message)
}

// Recommend handles POST /recommendations
// @Summary Recommend a meeting window for posted grids
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.RecommendRequest true "Grids"
// @Success 200 {object} dto.OverlapView
// @Failure 400 {object} errors.AppError
// @Router /private/recommendations [post]
func (c *ScheduleController) Recommend(ctx echo.Context) error {
	var req dto.RecommendRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if req.MinDuration < 0 || req.MinDuration > 24 {
		return c.BadRequest(errors.ErrInvalidInput, "min_duration must be between 1 and 24")
	}

	reqCtx, cancel := requestContext(ctx)
	defer cancel()

	result, appErr := c.ScheduleService.Recommend(reqCtx, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, result.Message)
}
