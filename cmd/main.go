package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"readbrief/internal/bot"
	"readbrief/internal/brief"
	"readbrief/internal/card"
	"readbrief/internal/config"
	"readbrief/internal/page"
	"readbrief/internal/scheduler"
	"readbrief/internal/session"
	"readbrief/internal/summarizer"
	"syscall"
	"time"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	start := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return
	}

	level, _ := cfg.Level()
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	store, closeStore, err := initSessionStore(ctx, cfg.Session, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize session store",
			"error", err,
			"store", cfg.Session.Store)

		return
	}
	defer closeStore()
	log.InfoContext(ctx, "Session store is initialized",
		"store", cfg.Session.Store,
		"ttl", cfg.Session.TTL.String())

	sched := scheduler.New(ctx, cfg.Session.SweepSpec, store, log)

	if err = sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", cfg.Session.SweepSpec)

		return
	}
	defer sched.Stop()
	log.InfoContext(ctx, "Scheduler is started",
		"spec", cfg.Session.SweepSpec,
		"timezone", time.FixedZone(scheduler.Timezone, scheduler.TimezoneOffsetSeconds).String())

	service, err := brief.New(
		cfg.Brief,
		store,
		session.NewLocker(),
		initFetcher(cfg.Fetcher, log),
		summarizer.New(cfg.Provider, cfg.LLM, log),
		initRenderer(cfg.Card, log),
		log,
	)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize brief service",
			"error", err)

		return
	}
	log.InfoContext(ctx, "Brief service is initialized",
		"enabled", cfg.Brief.Enabled,
		"provider", cfg.Provider,
		"fetcher", cfg.Fetcher.Kind,
		"cardEnabled", cfg.Card.Enabled,
		"followUpEnabled", cfg.Brief.FollowUpEnabled)

	botInst, err := bot.New(
		cfg.Token,
		service,
		cfg.AllowedUsers,
		bot.HelpText(cfg.Brief.FollowUpEnabled, cfg.Brief.FollowUpPrefix),
		log,
	)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize bot",
			"error", err,
			"allowedUsersCount", len(cfg.AllowedUsers))

		return
	}
	log.InfoContext(ctx, "Bot is initialized",
		"allowedUsersCount", len(cfg.AllowedUsers))

	go func() {
		botInst.Start(ctx)
	}()
	log.InfoContext(ctx, "Bot is started",
		"updateTimeoutSeconds", bot.BotUpdateTimeout)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	sig := <-c
	log.InfoContext(ctx, "Shutdown signal is received",
		"signal", sig.String())
	cancel()

	log.InfoContext(ctx, "Exiting...",
		"signal", sig.String(),
		"uptimeSeconds", time.Since(start).Seconds())

	botInst.Stop()
	log.InfoContext(ctx, "Bot is stopped",
		"uptimeSeconds", time.Since(start).Seconds())
}

func initSessionStore(
	ctx context.Context,
	cfg config.SessionConfig,
	log *slog.Logger,
) (session.Store, func(), error) {
	if cfg.Store != config.StoreRedis {
		return session.NewMemoryStore(cfg.TTL, cfg.MaxEntries), func() {}, nil
	}

	store, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.TTL)
	if err != nil {
		return nil, nil, err
	}

	closeStore := func() {
		if err := store.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close session store",
				"error", err)
		}
	}

	return store, closeStore, nil
}

func initFetcher(cfg config.FetcherConfig, log *slog.Logger) page.Fetcher {
	if cfg.Kind == config.FetcherJina {
		return page.NewJinaFetcher(cfg.JinaBaseURL, cfg.JinaAPIKey, cfg.Timeout, log)
	}

	return page.NewReadabilityFetcher(cfg.Timeout, log)
}

func initRenderer(cfg config.CardConfig, log *slog.Logger) brief.CardRenderer {
	if !cfg.Enabled {
		return nil
	}

	return card.New(cfg.APIURL, cfg.QRFallbackURL, cfg.Timeout, cfg.InsecureSkipVerify, log)
}
