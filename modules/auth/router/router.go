package router

import (
	"github.com/chooinsik-ship-it/WHEN-MEET/core/middleware"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	AuthController *controller.AuthController
}

func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		AuthController: authController,
	}
}

func (r *AuthRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.POST("/login", r.AuthController.Login)

	privateAuth := v1.Group("/private/auth", mw.AuthMiddleware())
	privateAuth.GET("/me", r.AuthController.Me)
	privateAuth.GET("/users/search", r.AuthController.SearchUsers)
}
