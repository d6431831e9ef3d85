package auth

import (
	"github.com/chooinsik-ship-it/WHEN-MEET/core/database"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/middleware"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/utils"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/auth/controller"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/auth/repository"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/auth/router"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/auth/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Echo, db database.IDatabase, tokens *utils.TokenManager, mw *middleware.Middleware) {
	repo := repository.NewUserRepository(db)
	authService := service.NewAuthService(repo, tokens)
	authController := controller.NewAuthController(authService)

	router.NewAuthRouter(authController).Setup(e, mw)
}
