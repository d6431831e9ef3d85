package schedule

import (
	"github.com/chooinsik-ship-it/WHEN-MEET/core/cache"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/constants"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/database"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/middleware"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/queue"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/controller"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/repository"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/router"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule/service"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	DB    database.IDatabase
	Cache cache.Cache
	// Enqueuer and Workers are nil when the queue is disabled.
	Enqueuer queue.Enqueuer
	Workers  *queue.Server

	MinDurationHours int
	LoadAttempts     uint
}

// Init initializes the schedule module, registers routes and the persist
// worker, and returns the service for modules that compare schedules.
func Init(e *echo.Echo, deps Deps, mw *middleware.Middleware) service.ScheduleServiceInterface {
	repo := repository.NewScheduleRepository(deps.DB)
	store := service.NewScheduleStore(deps.Cache, repo, deps.Enqueuer, service.StoreOptions{
		LoadAttempts: deps.LoadAttempts,
	})
	if deps.Workers != nil {
		deps.Workers.Handle(constants.TaskSchedulePersist, store.HandlePersistTask)
	}

	svc := service.NewScheduleService(store, service.NewOverlapFinder(deps.MinDurationHours))
	ctrl := controller.NewScheduleController(svc)
	rtr := router.NewScheduleRouter(ctrl)

	rtr.Setup(e, mw)
	return svc
}
