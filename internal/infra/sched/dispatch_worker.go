package sched

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"earn-notification-bot/internal/domain/ports/source"
	"earn-notification-bot/internal/infra/logging"
	"earn-notification-bot/internal/usecase"
)

// DispatchWorker wraps robfig/cron and runs the notification cycle: fetch
// recent listings, dispatch whatever falls inside the window.
type DispatchWorker struct {
	cron   *cron.Cron
	src    source.ListingSource
	notify usecase.NotificationUseCase
	spec   string
	log    *zerolog.Logger
}

func NewDispatchWorker(src source.ListingSource, notify usecase.NotificationUseCase, spec string, logger *zerolog.Logger) *DispatchWorker {
	componentLogger := logger.With().Str("component", "dispatch-worker").Logger()
	return &DispatchWorker{
		cron:   cron.New(),
		src:    src,
		notify: notify,
		spec:   spec,
		log:    &componentLogger,
	}
}

// Start registers the job and starts the scheduler. One cycle also runs
// immediately so a restart does not push listings out of their window.
func (w *DispatchWorker) Start(ctx context.Context) error {
	_, err := w.cron.AddFunc(w.spec, func() {
		w.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	w.cron.Start()
	w.log.Info().Str("spec", w.spec).Msg("dispatch worker started")

	go w.RunOnce(ctx)
	return nil
}

// Stop shuts the scheduler down; running jobs finish first.
func (w *DispatchWorker) Stop() {
	stopCtx := w.cron.Stop()
	<-stopCtx.Done()
	w.log.Info().Msg("dispatch worker stopped")
}

// RunOnce executes a single fetch-and-dispatch cycle.
func (w *DispatchWorker) RunOnce(ctx context.Context) {
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	log := logging.With(ctx, w.log)

	listings, err := w.src.FetchRecent(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch listings")
		return
	}
	if len(listings) == 0 {
		log.Debug().Msg("no listings to process")
		return
	}

	sent, err := w.notify.Dispatch(ctx, listings)
	if err != nil {
		log.Error().Err(err).Int("sent", sent).Msg("dispatch cycle failed")
		return
	}
	log.Info().Int("listings", len(listings)).Int("sent", sent).Msg("dispatch cycle complete")
}
