package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"earn-notification-bot/internal/domain/ports/source"
	"earn-notification-bot/internal/usecase"
)

// UpdateHandler consumes a raw Telegram update delivered over the webhook.
// The real bot adapter implements it.
type UpdateHandler interface {
	HandleWebhookUpdate(ctx context.Context, body []byte) error
}

// Server exposes the operational HTTP surface: the manual notify trigger,
// the Telegram webhook receiver, health and metrics.
type Server struct {
	notifyUC    usecase.NotificationUseCase
	src         source.ListingSource
	bot         UpdateHandler // nil in polling mode
	apiKey      string
	secretToken string
	log         *zerolog.Logger
}

func NewServer(
	notifyUC usecase.NotificationUseCase,
	src source.ListingSource,
	bot UpdateHandler,
	apiKey string,
	secretToken string,
	logger *zerolog.Logger,
) *Server {
	componentLogger := logger.With().Str("component", "web").Logger()
	return &Server{
		notifyUC:    notifyUC,
		src:         src,
		bot:         bot,
		apiKey:      apiKey,
		secretToken: secretToken,
		log:         &componentLogger,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.With(s.authMiddleware).Post("/notify", s.notifyHandler)
		r.Post("/telegram/webhook", s.webhookHandler)
	})
	return r
}

// authMiddleware provides simple Bearer token authentication for the
// operational endpoints.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("notify API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			http.Error(w, "Unauthorized: Malformed token", http.StatusUnauthorized)
			return
		}

		if tokenParts[1] != s.apiKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
