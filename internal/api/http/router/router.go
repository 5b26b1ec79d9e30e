package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/salusapp/salus_backend/config"
	"github.com/salusapp/salus_backend/internal/api/http/handler"
	"github.com/salusapp/salus_backend/internal/api/http/middleware"
	"github.com/salusapp/salus_backend/internal/service/appointment"
	"github.com/salusapp/salus_backend/internal/service/notification"
	"github.com/salusapp/salus_backend/internal/service/provider"
	"github.com/salusapp/salus_backend/internal/service/scheduling"
	"github.com/salusapp/salus_backend/pkg/authorize"
	pasetotoken "github.com/salusapp/salus_backend/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg             *config.Config
	Redis           *redis.Client
	Auth            authorize.IAuthorization
	ProviderSvc     provider.Service
	SchedulingSvc   scheduling.Service
	AppointmentSvc  appointment.Service
	NotificationSvc notification.Service
	PasetoMgr       *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	authRequired := middleware.AuthRequired(r.p.PasetoMgr, r.p.Redis)

	requirePerm := func(resolve middleware.DomainResolver, res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, resolve, res, act)
	}

	providerH := handler.NewProviderHandler(r.p.ProviderSvc)
	scheduleH := handler.NewScheduleHandler(r.p.SchedulingSvc)
	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc, r.p.Auth)
	notificationH := handler.NewNotificationHandler(r.p.NotificationSvc)

	api := app.Group("/api/v1")

	r.registerProviderRoutes(api, providerH, scheduleH, authRequired, requirePerm)
	r.registerAppointmentRoutes(api, appointmentH, authRequired)
	r.registerNotificationRoutes(api, notificationH, authRequired, requirePerm)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool { return authorize.IsPolicyHealthy() },
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
