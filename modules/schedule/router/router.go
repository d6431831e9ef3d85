package router

import (
	"github.com/chooinsik-ship-it/WHEN-MEET/core/middleware"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/controller"

	"github.com/labstack/echo/v4"
)

// ScheduleRouter handles schedule routes
type ScheduleRouter struct {
	ScheduleController *controller.ScheduleController
}

// NewScheduleRouter creates a new router
func NewScheduleRouter(scheduleController *controller.ScheduleController) *ScheduleRouter {
	return &ScheduleRouter{
		ScheduleController: scheduleController,
	}
}

// Setup registers schedule routes
func (r *ScheduleRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	scheduleRoutes := privateRoutes.Group("/schedules", mw.AuthMiddleware())

	// Caller's own grid
	scheduleRoutes.GET("/me", r.ScheduleController.GetMySchedule)
	scheduleRoutes.PUT("/me", r.ScheduleController.SaveMySchedule)
	scheduleRoutes.DELETE("/me", r.ScheduleController.DeleteMySchedule)
	scheduleRoutes.POST("/me/cells", r.ScheduleController.SetCell)
	scheduleRoutes.POST("/me/paint", r.ScheduleController.PaintRange)
	scheduleRoutes.POST("/me/clear", r.ScheduleController.Clear)

	scheduleRoutes.GET("/compare", r.ScheduleController.Compare)
	scheduleRoutes.GET("/:userId", r.ScheduleController.GetSchedule)

	privateRoutes.POST("/recommendations", r.ScheduleController.Recommend, mw.AuthMiddleware())
}
