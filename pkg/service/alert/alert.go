// Package alert lists transfer notices and delivers them.
//
// Alerts are written by the ledger in the same unit of work as the transfer
// they describe (an outbox). The Dispatcher later hands unsent alerts to a
// Publisher and marks the delivered ones as sent.
package alert

import (
	"context"
	"log/slog"
	"time"

	"github.com/amirasaad/bankapi/pkg/domain"
	"github.com/amirasaad/bankapi/pkg/domain/alert"
	"github.com/amirasaad/bankapi/pkg/dto"
	"github.com/amirasaad/bankapi/pkg/repository"
	"github.com/google/uuid"
)

// Publisher delivers one alert to its recipient.
type Publisher interface {
	Publish(ctx context.Context, a *alert.Alert) error
}

// Service provides alert listing and delivery.
type Service struct {
	uow       repository.UnitOfWork
	publisher Publisher
	logger    *slog.Logger
}

// New creates a new Service. publisher may be nil when the service is only
// used for listing.
func New(
	uow repository.UnitOfWork,
	publisher Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, publisher: publisher, logger: logger}
}

// ListAlerts returns the alerts addressed to a user's e-mail, newest first.
func (s *Service) ListAlerts(
	ctx context.Context,
	userID uuid.UUID,
	page dto.Page,
) (alerts []*alert.Alert, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err := users.Get(ctx, userID)
		if err != nil {
			return err
		}
		repo, err := uow.AlertRepository()
		if err != nil {
			return err
		}
		alerts, err = repo.ListByRecipient(ctx, u.Email, page)
		return err
	})
	if err != nil {
		s.logger.Error("ListAlerts failed", "userID", userID, "error", err)
		return nil, domain.AsStorageFailure(err)
	}
	return alerts, nil
}

// DispatchPending publishes up to batch unsent alerts and marks the
// published ones as sent. An alert whose publish fails stays unsent and is
// retried on the next call. It returns the number of alerts sent. Without a
// publisher nothing is dispatched.
func (s *Service) DispatchPending(ctx context.Context, batch int) (sent int, err error) {
	if s.publisher == nil {
		return 0, nil
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AlertRepository()
		if err != nil {
			return err
		}
		pending, err := repo.ListPending(ctx, batch)
		if err != nil {
			return err
		}
		delivered := make([]uuid.UUID, 0, len(pending))
		for _, a := range pending {
			if err := s.publisher.Publish(ctx, a); err != nil {
				s.logger.Warn("Publish alert failed", "alertID", a.ID, "error", err)
				continue
			}
			delivered = append(delivered, a.ID)
		}
		sent = len(delivered)
		return repo.MarkSent(ctx, delivered)
	})
	if err != nil {
		s.logger.Error("DispatchPending failed", "error", err)
		return 0, domain.AsStorageFailure(err)
	}
	if sent > 0 {
		s.logger.Info("DispatchPending successful", "sent", sent)
	}
	return sent, nil
}

// Dispatcher runs DispatchPending on a fixed interval.
type Dispatcher struct {
	svc      *Service
	interval time.Duration
	batch    int
	logger   *slog.Logger
}

// DefaultInterval is used when NewDispatcher is given a non-positive interval.
const DefaultInterval = 5 * time.Second

// NewDispatcher returns a Dispatcher delivering up to batch alerts per tick.
func NewDispatcher(svc *Service, interval time.Duration, batch int, logger *slog.Logger) *Dispatcher {
	if interval <= 0 {
		logger.Warn("Non-positive alert interval, using default", "interval", interval, "default", DefaultInterval)
		interval = DefaultInterval
	}
	return &Dispatcher{svc: svc, interval: interval, batch: batch, logger: logger}
}

// Run dispatches until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	d.logger.Info("Alert dispatcher started", "interval", d.interval, "batch", d.batch)
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Alert dispatcher stopped")
			return
		case <-ticker.C:
			// errors are logged by the service; the next tick retries
			_, _ = d.svc.DispatchPending(ctx, d.batch)
		}
	}
}
