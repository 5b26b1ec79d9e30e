package app

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/salusapp/salus_backend/config"
	"github.com/salusapp/salus_backend/internal/events"
	"github.com/salusapp/salus_backend/internal/repo"
	"github.com/salusapp/salus_backend/internal/service/appointment"
	"github.com/salusapp/salus_backend/internal/service/notification"
	"github.com/salusapp/salus_backend/internal/service/provider"
	"github.com/salusapp/salus_backend/internal/service/scheduling"
	pasetotoken "github.com/salusapp/salus_backend/pkg/paseto"
)

// ServiceModule provides the stores and application services.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideProviderStore,
		ProvideAppointmentStore,
		ProvideNotificationStore,
		ProvideEventEmitter,
		ProvideProviderService,
		ProvideSchedulingService,
		ProvideAppointmentService,
		ProvideNotificationService,
		ProvidePasetoManager,
	),
)

func ProvideProviderStore(pool *pgxpool.Pool) *repo.ProviderStore {
	return repo.NewProviderStore(pool)
}

func ProvideAppointmentStore(pool *pgxpool.Pool) *repo.AppointmentStore {
	return repo.NewAppointmentStore(pool)
}

func ProvideNotificationStore(pool *pgxpool.Pool) *repo.NotificationStore {
	return repo.NewNotificationStore(pool)
}

func ProvideEventEmitter(nc *nats.Conn) events.Emitter {
	if nc == nil {
		return events.NopEmitter{}
	}
	return events.NewNatsEmitter(nc)
}

func ProvideProviderService(store *repo.ProviderStore) provider.Service {
	return provider.New(store)
}

func ProvideSchedulingService(providers *repo.ProviderStore, appts *repo.AppointmentStore, rdb *redis.Client) scheduling.Service {
	return scheduling.New(providers, appts, rdb, slog.Default())
}

func ProvideAppointmentService(
	appts *repo.AppointmentStore,
	providers *repo.ProviderStore,
	rdb *redis.Client,
	emitter events.Emitter,
	cfg *config.Config,
) appointment.Service {
	return appointment.New(appts, providers, rdb, emitter, cfg.Scheduling, slog.Default())
}

func ProvideNotificationService(store *repo.NotificationStore) notification.Service {
	return notification.New(store)
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}
