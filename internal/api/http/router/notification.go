package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/salusapp/salus_backend/internal/api/http/handler"
	"github.com/salusapp/salus_backend/internal/api/http/middleware"
	"github.com/salusapp/salus_backend/pkg/authorize"
)

func (r *Router) registerNotificationRoutes(
	api fiber.Router,
	nh *handler.NotificationHandler,
	authRequired fiber.Handler,
	requirePerm func(middleware.DomainResolver, authorize.Resource, authorize.Action) fiber.Handler,
) {
	notifs := api.Group("/notifications", authRequired,
		requirePerm(middleware.DomainSelf, authorize.ResourceNotification, authorize.ActionManage))

	notifs.Get("/", nh.List)
	notifs.Get("/unread-count", nh.CountUnread)
	notifs.Patch("/read-all", nh.MarkAllRead)
	notifs.Patch("/:id/read", nh.MarkRead)
}
