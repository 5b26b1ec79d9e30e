package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/salusapp/salus_backend/config"
	domain "github.com/salusapp/salus_backend/internal/appointment"
	"github.com/salusapp/salus_backend/internal/events"
	"github.com/salusapp/salus_backend/internal/repo"
	"github.com/salusapp/salus_backend/internal/service/notification"
	"github.com/salusapp/salus_backend/pkg/email"
	svcsms "github.com/salusapp/salus_backend/pkg/sms"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc        fx.Lifecycle
	Cfg       *config.Config
	NC        *nats.Conn
	Appts     *repo.AppointmentStore
	Providers *repo.ProviderStore
	NotifSvc  notification.Service
	Email     *email.Client
	SMS       *svcsms.Client
}

func RegisterWorkers(p WorkerParams) {
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			startNotificationWorker(p.NC, p.NotifSvc)
			startProviderAlertWorker(p)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Drain handled by ProvideNatsClient
			return nil
		},
	})
}

// ---------------------------------------------------------------------------
// notification_worker
// ---------------------------------------------------------------------------

// startNotificationWorker turns every lifecycle event into in-app feed
// rows. Delivery is at-least-once; duplicate rows are acceptable and
// rare.
func startNotificationWorker(nc *nats.Conn, notifSvc notification.Service) {
	_, err := nc.Subscribe(events.SubjectPrefix+".>", func(msg *nats.Msg) {
		ev, err := events.Decode(msg.Data)
		if err != nil {
			slog.Warn("notification_worker: bad event payload", "subject", msg.Subject, "err", err)
			return
		}
		if err := notifSvc.RecordEvent(context.Background(), ev); err != nil {
			slog.Warn("notification_worker: record event failed",
				"appointment_id", ev.AppointmentID, "kind", ev.Kind, "err", err)
		}
	})
	if err != nil {
		slog.Error("notification_worker: subscribe failed", "err", err)
		return
	}

	slog.Info("notification_worker: started")
}

// ---------------------------------------------------------------------------
// provider_alert_worker
// ---------------------------------------------------------------------------

// startProviderAlertWorker emails and texts providers about events the
// other party triggered. Subject contact details live outside this
// service, so alerts go to providers only.
func startProviderAlertWorker(p WorkerParams) {
	_, err := p.NC.Subscribe(events.SubjectPrefix+".>", func(msg *nats.Msg) {
		ev, err := events.Decode(msg.Data)
		if err != nil {
			return
		}
		if ev.Actor != domain.ActorSubject {
			return
		}

		ctx := context.Background()

		prov, err := p.Providers.Get(ctx, ev.ProviderID)
		if err != nil {
			slog.Warn("provider_alert_worker: provider not found", "id", ev.ProviderID, "err", err)
			return
		}
		appt, err := p.Appts.Get(ctx, ev.AppointmentID)
		if err != nil {
			slog.Warn("provider_alert_worker: appointment not found", "id", ev.AppointmentID, "err", err)
			return
		}

		if prov.Email != "" {
			sendProviderEmail(ctx, p.Email, prov, appt, ev)
		}
		if prov.Phone != "" && p.SMS.IsEnabled() {
			when := appt.Start.Format("2006-01-02 15:04")
			err := p.SMS.SendAppointmentAlert(ctx, prov.Phone, p.Cfg.SMS.SMSIR.TemplateID, string(ev.Kind), when)
			if err != nil {
				slog.Warn("provider_alert_worker: sms failed", "appointment_id", ev.AppointmentID, "err", err)
			}
		}
	})
	if err != nil {
		slog.Error("provider_alert_worker: subscribe failed", "err", err)
		return
	}

	slog.Info("provider_alert_worker: started")
}

func sendProviderEmail(ctx context.Context, client *email.Client, prov *repo.Provider, appt *domain.Appointment, ev events.Event) {
	data := email.AppointmentEmailData{
		RecipientName:  prov.DisplayName,
		RecipientEmail: prov.Email,
		ProviderName:   prov.DisplayName,
		Start:          appt.Start,
		Duration:       appt.Duration,
		Remote:         appt.Remote,
	}

	var m email.Message
	switch ev.Kind {
	case domain.TransitionCreated:
		m = email.BuildAppointmentRequestedEmail(data)
	case domain.TransitionRescheduleAccepted:
		m = email.BuildAppointmentConfirmedEmail(data)
	case domain.TransitionRescheduleDeclined, domain.TransitionCancelled:
		m = email.BuildAppointmentCancelledEmail(data)
	default:
		return
	}

	if err := client.Send(ctx, m); err != nil && !errors.Is(err, email.ErrDisabled{}) {
		slog.Warn("provider_alert_worker: email failed", "appointment_id", ev.AppointmentID, "err", err)
	}
}
