package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/salusapp/salus_backend/internal/api/http/handler"
	"github.com/salusapp/salus_backend/internal/api/http/middleware"
	"github.com/salusapp/salus_backend/pkg/authorize"
)

func (r *Router) registerProviderRoutes(
	api fiber.Router,
	ph *handler.ProviderHandler,
	sh *handler.ScheduleHandler,
	authRequired fiber.Handler,
	requirePerm func(middleware.DomainResolver, authorize.Resource, authorize.Action) fiber.Handler,
) {
	providers := api.Group("/providers", authRequired)

	// Registration is a system-domain operation.
	providers.Post("/", requirePerm(middleware.DomainSys, authorize.ResourceSchedule, authorize.ActionCreate), ph.Register)

	p := providers.Group("/:providerID")
	p.Get("/", ph.Get)
	p.Get("/slots", requirePerm(middleware.DomainProviderParam, authorize.ResourceSlot, authorize.ActionList), sh.ListSlots)

	sched := p.Group("/schedule", requirePerm(middleware.DomainProviderParam, authorize.ResourceSchedule, authorize.ActionManage))
	sched.Put("/days/:weekday", ph.SetDayWindow)
	sched.Delete("/days/:weekday", ph.ClearDayWindow)

	p.Patch("/granularity", requirePerm(middleware.DomainProviderParam, authorize.ResourceSchedule, authorize.ActionManage), ph.SetGranularity)
}
