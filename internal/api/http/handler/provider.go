package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/salusapp/salus_backend/internal/service/provider"
)

type ProviderHandler struct {
	svc provider.Service
}

func NewProviderHandler(svc provider.Service) *ProviderHandler {
	return &ProviderHandler{svc: svc}
}

func mapProviderError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, provider.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, provider.ErrInvalidWindow):
		return unprocessable(c, err.Error())
	case errors.Is(err, provider.ErrInvalidGranularity):
		return unprocessable(c, err.Error())
	default:
		return internalError(c)
	}
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// parseWeekday accepts a numeric weekday (0 = Sunday) or a lowercase
// English name.
func parseWeekday(s string) (time.Weekday, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, false
		}
		return time.Weekday(n), true
	}
	wd, ok := weekdayNames[strings.ToLower(s)]
	return wd, ok
}

// POST /providers
func (h *ProviderHandler) Register(c fiber.Ctx) error {
	var body struct {
		DisplayName        string `json:"display_name"`
		Phone              string `json:"phone"`
		Email              string `json:"email"`
		GranularityMinutes int    `json:"granularity_minutes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.DisplayName == "" {
		return badRequest(c, "display_name is required")
	}

	p, err := h.svc.Register(c.Context(), provider.RegisterRequest{
		DisplayName:        body.DisplayName,
		Phone:              body.Phone,
		Email:              body.Email,
		GranularityMinutes: body.GranularityMinutes,
	})
	if err != nil {
		return mapProviderError(c, err)
	}

	return created(c, p)
}

// GET /providers/:providerID
func (h *ProviderHandler) Get(c fiber.Ctx) error {
	providerID, err := uuid.Parse(c.Params("providerID"))
	if err != nil {
		return badRequest(c, "invalid provider id")
	}

	p, err := h.svc.Get(c.Context(), providerID)
	if err != nil {
		return mapProviderError(c, err)
	}

	return ok(c, p)
}

// PUT /providers/:providerID/schedule/days/:weekday
func (h *ProviderHandler) SetDayWindow(c fiber.Ctx) error {
	providerID, err := uuid.Parse(c.Params("providerID"))
	if err != nil {
		return badRequest(c, "invalid provider id")
	}
	weekday, okWd := parseWeekday(c.Params("weekday"))
	if !okWd {
		return badRequest(c, "invalid weekday")
	}

	var body struct {
		Enabled bool   `json:"enabled"`
		Open    string `json:"open"`
		Close   string `json:"close"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.SetDayWindow(c.Context(), providerID, provider.SetDayWindowRequest{
		Weekday: weekday,
		Enabled: body.Enabled,
		Open:    body.Open,
		Close:   body.Close,
	})
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) || errors.Is(err, provider.ErrInvalidWindow) {
			return mapProviderError(c, err)
		}
		return badRequest(c, err.Error())
	}

	return ok(c, p)
}

// DELETE /providers/:providerID/schedule/days/:weekday
func (h *ProviderHandler) ClearDayWindow(c fiber.Ctx) error {
	providerID, err := uuid.Parse(c.Params("providerID"))
	if err != nil {
		return badRequest(c, "invalid provider id")
	}
	weekday, okWd := parseWeekday(c.Params("weekday"))
	if !okWd {
		return badRequest(c, "invalid weekday")
	}

	p, err := h.svc.ClearDayWindow(c.Context(), providerID, weekday)
	if err != nil {
		return mapProviderError(c, err)
	}

	return ok(c, p)
}

// PATCH /providers/:providerID/granularity
func (h *ProviderHandler) SetGranularity(c fiber.Ctx) error {
	providerID, err := uuid.Parse(c.Params("providerID"))
	if err != nil {
		return badRequest(c, "invalid provider id")
	}

	var body struct {
		Minutes int `json:"minutes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	p, err := h.svc.SetGranularity(c.Context(), providerID, body.Minutes)
	if err != nil {
		return mapProviderError(c, err)
	}

	return ok(c, p)
}
