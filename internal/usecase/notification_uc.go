package usecase

import (
	"context"
	"time"

	"earn-notification-bot/internal/domain/model"
	"earn-notification-bot/internal/domain/ports/adapter"
	"earn-notification-bot/internal/domain/ports/repository"
	"earn-notification-bot/internal/infra/logging"
	"earn-notification-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Listings are notified once, roughly 12 hours after publication. The window
// is wide enough that any dispatch cadence of 1h or faster observes each
// listing at least once; the notification log keeps repeats from double-sending.
const (
	notifyAfter  = 12 * time.Hour
	windowRadius = 30 * time.Minute
)

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

// NotificationUseCase is the dispatcher: it filters listings by the
// publication-time window, matches them against every saved preference
// record and sends one message per matched user.
type NotificationUseCase interface {
	// Dispatch processes a batch of listings and returns how many
	// notifications were sent. Per-user delivery failures are logged and do
	// not abort the batch.
	Dispatch(ctx context.Context, listings []model.Listing) (int, error)
}

// MatchUsers is the matching engine: it evaluates one listing against a
// snapshot of preference records and returns the Telegram IDs to notify.
// Pure function, no ordering guarantee.
func MatchUsers(l *model.Listing, prefs []*model.Preferences) []int64 {
	var out []int64
	for _, p := range prefs {
		if p.Matches(l) {
			out = append(out, p.TelegramID)
		}
	}
	return out
}

type notificationUC struct {
	prefs repository.PreferenceRepository
	sent  repository.NotificationLogRepository
	bot   adapter.BotTransport
	log   *zerolog.Logger

	now func() time.Time
}

func NewNotificationUseCase(
	prefs repository.PreferenceRepository,
	sent repository.NotificationLogRepository,
	bot adapter.BotTransport,
	logger *zerolog.Logger,
) *notificationUC {
	return &notificationUC{
		prefs: prefs,
		sent:  sent,
		bot:   bot,
		log:   logger,
		now:   time.Now,
	}
}

// eligible reports whether the listing sits inside the dispatch window.
func (n *notificationUC) eligible(l *model.Listing) bool {
	elapsed := n.now().Sub(l.PublishedAt)
	return elapsed >= notifyAfter-windowRadius && elapsed <= notifyAfter+windowRadius
}

func (n *notificationUC) Dispatch(ctx context.Context, listings []model.Listing) (int, error) {
	defer logging.TraceDuration(n.log, "NotificationUC.Dispatch")()
	timer := metrics.StartDispatchTimer()
	defer timer()

	sent := 0
	for i := range listings {
		l := &listings[i]
		if !n.eligible(l) {
			metrics.IncListingProcessed("outside_window")
			continue
		}
		metrics.IncListingProcessed("eligible")

		// Fresh snapshot per listing; a save committed mid-dispatch is
		// picked up by the next listing in the batch.
		prefs, err := n.prefs.All(ctx)
		if err != nil {
			return sent, err
		}

		for _, tgID := range MatchUsers(l, prefs) {
			sent += n.notifyOne(ctx, l, tgID)
		}
	}
	return sent, nil
}

// notifyOne sends a single notification, guarded by the sent log.
// Returns 1 when a message went out, 0 otherwise.
func (n *notificationUC) notifyOne(ctx context.Context, l *model.Listing, tgID int64) int {
	already, err := n.sent.Exists(ctx, l.ID, tgID)
	if err != nil {
		n.log.Error().Err(err).Str("listing_id", l.ID).Int64("tg_id", tgID).Msg("sent-log lookup failed")
		return 0
	}
	if already {
		metrics.IncNotification("duplicate")
		return 0
	}

	err = n.bot.SendMessage(ctx, adapter.SendMessageParams{
		ChatID:    tgID,
		Text:      FormatListingMessage(l),
		ParseMode: "Markdown",
	})
	if err != nil {
		metrics.IncNotification("failed")
		n.log.Error().Err(err).Str("listing_id", l.ID).Int64("tg_id", tgID).Msg("failed to send notification")
		return 0
	}

	if err := n.sent.MarkSent(ctx, l.ID, tgID); err != nil {
		n.log.Error().Err(err).Str("listing_id", l.ID).Int64("tg_id", tgID).Msg("failed to record sent notification")
	}
	metrics.IncNotification("sent")
	return 1
}
