package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/salusapp/salus_backend/internal/service/notification"
	pasetotoken "github.com/salusapp/salus_backend/pkg/paseto"
)

type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func mapNotificationError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, notification.ErrNotFound):
		return notFound(c, err.Error())
	default:
		return internalError(c)
	}
}

// GET /notifications
func (h *NotificationHandler) List(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	var q struct {
		UnreadOnly bool `query:"unread_only"`
		Page       int  `query:"page"`
		PerPage    int  `query:"per_page"`
	}
	_ = c.Bind().Query(&q)

	notifs, err := h.svc.List(c.Context(), claims.UserID, notification.ListRequest{
		UnreadOnly: q.UnreadOnly,
		Page:       q.Page,
		PerPage:    q.PerPage,
	})
	if err != nil {
		return mapNotificationError(c, err)
	}

	return ok(c, notifs)
}

// GET /notifications/unread-count
func (h *NotificationHandler) CountUnread(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	count, err := h.svc.CountUnread(c.Context(), claims.UserID)
	if err != nil {
		return mapNotificationError(c, err)
	}

	return ok(c, fiber.Map{"count": count})
}

// PATCH /notifications/:id/read
func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	notifID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid notification id")
	}

	if err := h.svc.MarkRead(c.Context(), claims.UserID, notifID); err != nil {
		return mapNotificationError(c, err)
	}

	return noContent(c)
}

// PATCH /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c fiber.Ctx) error {
	claims, claimsOK := pasetotoken.ClaimsFromFiber(c)
	if !claimsOK {
		return unauthorized(c)
	}

	count, err := h.svc.MarkAllRead(c.Context(), claims.UserID)
	if err != nil {
		return mapNotificationError(c, err)
	}

	return ok(c, fiber.Map{"marked": count})
}
