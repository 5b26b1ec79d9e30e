package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/salusapp/salus_backend/internal/schedule"
	"github.com/salusapp/salus_backend/internal/service/scheduling"
)

type ScheduleHandler struct {
	svc scheduling.Service
}

func NewScheduleHandler(svc scheduling.Service) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

func mapScheduleError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, scheduling.ErrProviderNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, scheduling.ErrInvalidRange):
		return badRequest(c, err.Error())
	case errors.Is(err, scheduling.ErrRangeTooWide):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /providers/:providerID/slots
//
// Either ?date=YYYY-MM-DD for a single day, or ?from=YYYY-MM-DD&to=YYYY-MM-DD
// for a range.
func (h *ScheduleHandler) ListSlots(c fiber.Ctx) error {
	providerID, err := uuid.Parse(c.Params("providerID"))
	if err != nil {
		return badRequest(c, "invalid provider id")
	}

	var q struct {
		Date string `query:"date"`
		From string `query:"from"`
		To   string `query:"to"`
	}
	_ = c.Bind().Query(&q)

	if q.Date != "" {
		date, err := schedule.ParseDate(q.Date)
		if err != nil {
			return badRequest(c, "invalid date")
		}
		day, err := h.svc.QueryDay(c.Context(), providerID, date)
		if err != nil {
			return mapScheduleError(c, err)
		}
		return ok(c, day)
	}

	if q.From == "" || q.To == "" {
		return badRequest(c, "date or from/to is required")
	}
	from, err := schedule.ParseDate(q.From)
	if err != nil {
		return badRequest(c, "invalid from date")
	}
	to, err := schedule.ParseDate(q.To)
	if err != nil {
		return badRequest(c, "invalid to date")
	}

	days, err := h.svc.QueryRange(c.Context(), providerID, from, to)
	if err != nil {
		return mapScheduleError(c, err)
	}

	return ok(c, days)
}
