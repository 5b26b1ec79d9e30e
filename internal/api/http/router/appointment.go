package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/salusapp/salus_backend/internal/api/http/handler"
)

// Appointment routes carry no provider scope in the path, so the RBAC
// domain cannot be resolved here. Create enforces in the handler once
// the target provider is known; every transition is guarded by the
// lifecycle rules and participant checks in the service.
func (r *Router) registerAppointmentRoutes(
	api fiber.Router,
	ah *handler.AppointmentHandler,
	authRequired fiber.Handler,
) {
	appts := api.Group("/appointments", authRequired)

	appts.Get("/", ah.List)
	appts.Post("/", ah.Create)

	a := appts.Group("/:id")
	a.Get("/", ah.GetByID)
	a.Patch("/decide", ah.Decide)
	a.Patch("/reschedule", ah.ProposeReschedule)
	a.Patch("/reschedule/respond", ah.RespondToReschedule)
	a.Patch("/complete", ah.Complete)
	a.Post("/follow-up", ah.CreateFollowUp)
}
