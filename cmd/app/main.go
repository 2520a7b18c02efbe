package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"earn-notification-bot/internal/config"
	"earn-notification-bot/internal/domain/ports/adapter"
	"earn-notification-bot/internal/domain/ports/repository"
	"earn-notification-bot/internal/domain/ports/source"
	"earn-notification-bot/internal/infra/earn"
	"earn-notification-bot/internal/infra/i18n"
	"earn-notification-bot/internal/infra/logging"
	"earn-notification-bot/internal/infra/memory"
	"earn-notification-bot/internal/infra/metrics"
	pg "earn-notification-bot/internal/infra/postgres"
	red "earn-notification-bot/internal/infra/redis"
	"earn-notification-bot/internal/infra/sched"
	tele "earn-notification-bot/internal/infra/telegram"
	"earn-notification-bot/internal/infra/web"
	"earn-notification-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed checks)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}
	metrics.MustRegister()

	// ---- Preference + notification-log stores ----
	var prefRepo repository.PreferenceRepository
	var sentRepo repository.NotificationLogRepository
	if cfg.Database.URL != "" {
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		prefRepo = pg.NewPreferenceRepo(pool)
		sentRepo = pg.NewNotificationLogRepo(pool)
	} else {
		logger.Warn().Msg("database.url not set; preferences are in-memory and lost on restart")
		prefRepo = memory.NewPreferenceRepo()
		sentRepo = memory.NewNotificationLogRepo()
	}

	// ---- Conversation state + rate limiter ----
	var stateRepo repository.StateRepository
	var rateLimiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		stateRepo = red.NewStateRepo(redisClient, cfg.Redis.TTL)
		rateLimiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis.url not set; conversation state is in-memory, rate limiting disabled")
		stateRepo = memory.NewStateRepo()
	}

	// ---- Translations ----
	translator, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		log.Fatalf("i18n: %v", err)
	}

	// ---- Use cases ----
	prefUC := usecase.NewPreferenceUseCase(prefRepo, logger)
	setupUC := usecase.NewSetupUseCase(stateRepo, prefUC, logger)

	// ---- Telegram ----
	// Without a token (dev only) the dispatcher runs against the noop
	// transport and outgoing messages are logged instead of sent.
	var transport adapter.BotTransport
	var bot *tele.Bot
	if cfg.Bot.Token == "" {
		logger.Warn().Msg("bot.token not set; using noop bot transport")
		transport = tele.NewNoopBot(logger)
	} else {
		bot, err = tele.NewBot(&cfg.Bot, prefUC, setupUC, rateLimiter, translator, logger)
		if err != nil {
			log.Fatalf("telegram: %v", err)
		}
		transport = bot
	}
	notifyUC := usecase.NewNotificationUseCase(prefRepo, sentRepo, transport, logger)

	// ---- Listing source ----
	var src source.ListingSource
	if cfg.Earn.Mock {
		logger.Warn().Msg("earn.mock enabled; serving canned listings")
		src = earn.NewMockSource()
	} else {
		src = earn.NewClient(cfg.Earn.BaseURL, cfg.Earn.PageSize, logger)
	}

	// ---- Update delivery: webhook or polling ----
	webhookMode := strings.ToLower(cfg.Bot.Mode) == "webhook"
	var webhookBot web.UpdateHandler
	if bot == nil {
		// noop transport: nothing to poll, no webhook to register
	} else if webhookMode {
		if err := bot.SetWebhook(cfg.Bot.WebhookURL); err != nil {
			log.Fatalf("set webhook: %v", err)
		}
		webhookBot = bot
		logger.Info().Str("url", cfg.Bot.WebhookURL).Msg("webhook registered")
	} else {
		if err := bot.DeleteWebhook(); err != nil {
			logger.Warn().Err(err).Msg("failed to delete webhook before polling")
		}
		go func() {
			if err := bot.StartPolling(ctx); err != nil && ctx.Err() == nil {
				logger.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
	}

	// ---- HTTP server ----
	srv := web.NewServer(notifyUC, src, webhookBot, cfg.Server.APIKey, cfg.Bot.SecretToken, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Dispatch worker ----
	worker := sched.NewDispatchWorker(src, notifyUC, cfg.Dispatch.Cron, logger)
	if err := worker.Start(ctx); err != nil {
		log.Fatalf("dispatch worker: %v", err)
	}

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	worker.Stop()
	if bot != nil && !webhookMode {
		bot.StopPolling()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
	cancel()
}
