package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	domain "github.com/salusapp/salus_backend/internal/appointment"
	"github.com/salusapp/salus_backend/internal/service/appointment"
	"github.com/salusapp/salus_backend/pkg/authorize"
	pasetotoken "github.com/salusapp/salus_backend/pkg/paseto"
)

type AppointmentHandler struct {
	svc  appointment.Service
	auth authorize.IAuthorization
}

func NewAppointmentHandler(svc appointment.Service, auth authorize.IAuthorization) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, auth: auth}
}

func mapAppointmentError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, appointment.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, appointment.ErrProviderNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, appointment.ErrNotParticipant):
		return forbidden(c)
	case errors.Is(err, appointment.ErrLockTimeout):
		return serviceUnavailable(c, err.Error())
	case errors.Is(err, appointment.ErrNotCompleted):
		return conflict(c, err.Error())
	case errors.Is(err, appointment.ErrConcurrentUpdate):
		return conflict(c, err.Error())
	case errors.Is(err, domain.ErrPastDateTime):
		return unprocessable(c, err.Error())
	case errors.Is(err, domain.ErrProviderClosed):
		return unprocessable(c, err.Error())
	case errors.Is(err, domain.ErrSlotTaken):
		return conflict(c, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		return conflict(c, err.Error())
	case errors.Is(err, domain.ErrNotAuthorized):
		return forbidden(c)
	default:
		return internalError(c)
	}
}

// GET /appointments
//
// Lists the caller's own appointments, as provider or as subject.
func (h *AppointmentHandler) List(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	var q struct {
		As      string `query:"as"` // "provider" or "subject"
		Status  string `query:"status"`
		From    string `query:"from"`
		To      string `query:"to"`
		Page    int    `query:"page"`
		PerPage int    `query:"per_page"`
	}
	_ = c.Bind().Query(&q)

	req := appointment.ListRequest{
		Page:    q.Page,
		PerPage: q.PerPage,
	}
	if q.As == "provider" {
		req.ProviderID = &claims.UserID
	} else {
		req.SubjectID = &claims.UserID
	}
	if q.Status != "" {
		st := domain.Status(q.Status)
		req.Status = &st
	}
	if q.From != "" {
		if t, err := time.Parse(time.RFC3339, q.From); err == nil {
			req.From = &t
		}
	}
	if q.To != "" {
		if t, err := time.Parse(time.RFC3339, q.To); err == nil {
			req.To = &t
		}
	}

	appts, err := h.svc.List(c.Context(), req)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return ok(c, appts)
}

// GET /appointments/:id
func (h *AppointmentHandler) GetByID(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	apptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	appt, err := h.svc.Get(c.Context(), claims.UserID, apptID)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return ok(c, appt)
}

// POST /appointments
func (h *AppointmentHandler) Create(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	var body struct {
		ProviderID   string    `json:"provider_id"`
		Start        time.Time `json:"start"`
		Purpose      string    `json:"purpose"`
		ShareRecords bool      `json:"share_records"`
		Remote       bool      `json:"remote"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.ProviderID == "" || body.Start.IsZero() {
		return badRequest(c, "provider_id and start are required")
	}

	providerID, err := uuid.Parse(body.ProviderID)
	if err != nil {
		return badRequest(c, "invalid provider_id")
	}

	// Booking permission lives in the target provider's domain, which
	// only the body names, so the route guard cannot cover it.
	subject := authorize.GroupSubject(claims.UserID.String())
	pdom := authorize.ProviderDomain(providerID.String())
	if err := h.auth.MustEnforce(c.Context(), subject, pdom, authorize.ResourceAppointment, authorize.ActionCreate); err != nil {
		if errors.Is(err, authorize.ErrForbidden) {
			return forbidden(c)
		}
		return err
	}

	appt, err := h.svc.Create(c.Context(), appointment.CreateRequest{
		ProviderID:   providerID,
		SubjectID:    claims.UserID,
		Start:        body.Start,
		Purpose:      body.Purpose,
		ShareRecords: body.ShareRecords,
		Remote:       body.Remote,
	})
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return created(c, appt)
}

// PATCH /appointments/:id/decide
func (h *AppointmentHandler) Decide(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	apptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	var body struct {
		Decision string  `json:"decision"` // "confirm" or "cancel"
		Note     *string `json:"note"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	decision := domain.Decision(body.Decision)
	if decision != domain.DecisionConfirm && decision != domain.DecisionCancel {
		return badRequest(c, "decision must be confirm or cancel")
	}

	appt, err := h.svc.Decide(c.Context(), claims.UserID, apptID, appointment.DecideRequest{
		Decision: decision,
		Note:     body.Note,
	})
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return ok(c, appt)
}

// PATCH /appointments/:id/reschedule
func (h *AppointmentHandler) ProposeReschedule(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	apptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	var body struct {
		NewStart time.Time `json:"new_start"`
		Note     *string   `json:"note"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.NewStart.IsZero() {
		return badRequest(c, "new_start is required")
	}

	appt, err := h.svc.ProposeReschedule(c.Context(), claims.UserID, apptID, appointment.ProposeRequest{
		NewStart: body.NewStart,
		Note:     body.Note,
	})
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return ok(c, appt)
}

// PATCH /appointments/:id/reschedule/respond
func (h *AppointmentHandler) RespondToReschedule(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	apptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	var body struct {
		Accept bool `json:"accept"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	appt, err := h.svc.RespondToReschedule(c.Context(), claims.UserID, apptID, body.Accept)
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return ok(c, appt)
}

// PATCH /appointments/:id/complete
func (h *AppointmentHandler) Complete(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	apptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	var body struct {
		VisitNotes *string `json:"visit_notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	appt, err := h.svc.Complete(c.Context(), claims.UserID, apptID, appointment.CompleteRequest{
		VisitNotes: body.VisitNotes,
	})
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return ok(c, appt)
}

// POST /appointments/:id/follow-up
func (h *AppointmentHandler) CreateFollowUp(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	apptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	var body struct {
		Start        time.Time `json:"start"`
		Purpose      string    `json:"purpose"`
		ShareRecords bool      `json:"share_records"`
		Remote       bool      `json:"remote"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Start.IsZero() {
		return badRequest(c, "start is required")
	}

	appt, err := h.svc.CreateFollowUp(c.Context(), claims.UserID, appointment.FollowUpRequest{
		OriginalID:   apptID,
		Start:        body.Start,
		Purpose:      body.Purpose,
		ShareRecords: body.ShareRecords,
		Remote:       body.Remote,
	})
	if err != nil {
		return mapAppointmentError(c, err)
	}

	return created(c, appt)
}
