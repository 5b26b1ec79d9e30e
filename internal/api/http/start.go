package http

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"

	"github.com/salusapp/salus_backend/config"
	"github.com/salusapp/salus_backend/internal/api/http/router"
	"github.com/salusapp/salus_backend/internal/app"
)

// Start assembles the fx graph and runs the HTTP server until shutdown.
func Start(cfg *config.Config, timeout time.Duration) {
	fx.New(
		fx.Supply(cfg),
		app.InfraModule,
		app.ServiceModule,
		app.WorkerModule,
		router.Module,
		Module,

		// Invoking *fiber.App forces its construction, which registers
		// the OnStart hook that actually listens.
		fx.Invoke(func(*fiber.App) {}),

		fx.StopTimeout(timeout),
	).Run()
}
