package controller

import (
	"github.com/chooinsik-ship-it/WHEN-MEET/core/controller"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/errors"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/auth/dto"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

func NewAuthController(authService service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    authService,
	}
}

// Login handles POST /auth/login
// @Summary Log in with a nickname
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Nickname"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} errors.AppError
// @Router /auth/login [post]
func (controller *AuthController) Login(c echo.Context) error {
	ctx := c.Request().Context()

	requestData := new(dto.LoginRequest)
	if err := c.Bind(requestData); err != nil {
		return controller.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	loginResponse, appErr := controller.AuthService.Login(ctx, requestData)
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	return controller.SuccessResponse(c, loginResponse, "Login success")
}

// Me handles GET /private/auth/me
// @Summary Current user
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} errors.AppError
// @Router /private/auth/me [get]
func (controller *AuthController) Me(c echo.Context) error {
	claims, err := controller.CurrentUser(c)
	if err != nil {
		return controller.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	user, appErr := controller.AuthService.Me(c.Request().Context(), claims)
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	return controller.SuccessResponse(c, user, "Success")
}

// SearchUsers handles GET /private/auth/users/search
// @Summary Search nicknames
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param q query string false "Part of a nickname"
// @Success 200 {array} dto.UserResponse
// @Router /private/auth/users/search [get]
func (controller *AuthController) SearchUsers(c echo.Context) error {
	users, appErr := controller.AuthService.SearchUsers(c.Request().Context(), c.QueryParam("q"))
	if appErr != nil {
		return controller.ErrorResponse(c, appErr)
	}

	return controller.SuccessResponse(c, users, "Success")
}
