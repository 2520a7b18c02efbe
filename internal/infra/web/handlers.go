package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"earn-notification-bot/internal/infra/logging"
)

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// notifyHandler triggers one fetch-and-dispatch cycle on demand. External
// schedulers (or an operator) call it instead of waiting for the cron tick.
func (s *Server) notifyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := logging.WithTraceID(r.Context(), uuid.NewString())

	listings, err := s.src.FetchRecent(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to fetch listings")
		http.Error(w, "Failed to fetch listings", http.StatusBadGateway)
		return
	}

	sent, err := s.notifyUC.Dispatch(ctx, listings)
	if err != nil {
		s.log.Error().Err(err).Msg("dispatch failed")
		http.Error(w, "Failed to process listings", http.StatusInternalServerError)
		return
	}

	response := struct {
		Success  bool `json:"success"`
		Listings int  `json:"listings"`
		Sent     int  `json:"sent"`
	}{
		Success:  true,
		Listings: len(listings),
		Sent:     sent,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// webhookHandler receives Telegram updates in webhook mode. Telegram echoes
// the secret token configured at setWebhook time in a header; mismatches are
// dropped. Always answers 200 on handler errors so Telegram does not retry.
func (s *Server) webhookHandler(w http.ResponseWriter, r *http.Request) {
	if s.bot == nil {
		http.Error(w, "Webhook mode is not enabled", http.StatusNotFound)
		return
	}
	if s.secretToken != "" && r.Header.Get("X-Telegram-Bot-Api-Secret-Token") != s.secretToken {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.bot.HandleWebhookUpdate(r.Context(), body); err != nil {
		s.log.Error().Err(err).Msg("failed to handle webhook update")
	}
	w.WriteHeader(http.StatusOK)
}
