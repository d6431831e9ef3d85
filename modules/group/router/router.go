package router

import (
	"github.com/chooinsik-ship-it/WHEN-MEET/core/middleware"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/group/controller"

	"github.com/labstack/echo/v4"
)

// GroupRouter handles group and invitation routes
type GroupRouter struct {
	GroupController *controller.GroupController
}

// NewGroupRouter creates a new router
func NewGroupRouter(groupController *controller.GroupController) *GroupRouter {
	return &GroupRouter{
		GroupController: groupController,
	}
}

// Setup registers group routes
func (r *GroupRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	groupRoutes := privateRoutes.Group("/groups", mw.AuthMiddleware())
	groupRoutes.POST("", r.GroupController.CreateGroup)
	groupRoutes.GET("", r.GroupController.GetMyGroups)
	groupRoutes.POST("/join", r.GroupController.JoinGroup)
	groupRoutes.GET("/:id", r.GroupController.GetGroup)
	groupRoutes.GET("/:id/recommendation", r.GroupController.GetGroupRecommendation)

	invitationRoutes := privateRoutes.Group("/invitations", mw.AuthMiddleware())
	invitationRoutes.GET("", r.GroupController.GetPendingInvitations)
	invitationRoutes.POST("/:groupId/accept", r.GroupController.AcceptInvitation)
	invitationRoutes.POST("/:groupId/decline", r.GroupController.DeclineInvitation)
}
