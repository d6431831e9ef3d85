package group

import (
	"github.com/chooinsik-ship-it/WHEN-MEET/core/database"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/middleware"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/group/controller"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/group/repository"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/group/router"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/group/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the group module. Group recommendations run through the
// schedule module's comparer.
func Init(e *echo.Echo, db database.IDatabase, schedules service.ScheduleComparer, mw *middleware.Middleware) {
	repo := repository.NewGroupRepository(db)
	svc := service.NewGroupService(repo, schedules)
	ctrl := controller.NewGroupController(svc)
	rtr := router.NewGroupRouter(ctrl)

	rtr.Setup(e, mw)
}
