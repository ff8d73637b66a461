package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	coreconfig "github.com/m3rciful/fitbot/core/config"
	"github.com/m3rciful/fitbot/core/database"
	"github.com/m3rciful/fitbot/core/logger"
	coretelegram "github.com/m3rciful/fitbot/core/telegram"
	"github.com/m3rciful/fitbot/core/telegram/middleware"
	"github.com/m3rciful/fitbot/internal/bot"
	"github.com/m3rciful/fitbot/internal/catalog"
	"github.com/m3rciful/fitbot/internal/chat"
	"github.com/m3rciful/fitbot/internal/session"
	"github.com/m3rciful/fitbot/internal/store"
	tgadapter "github.com/m3rciful/fitbot/internal/telegram"
	"github.com/m3rciful/fitbot/internal/users"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := coreconfig.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() {
		_ = logger.Shutdown()
	}()

	if err := run(cfg); err != nil {
		logger.L.Error("fatal",
			slog.String("component", "app"),
			slog.String("event", "fatal"),
			slog.String("err", err.Error()),
		)
		_ = logger.Shutdown()
		os.Exit(1)
	}
}

func run(cfg *coreconfig.Config) error {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}

	ctx := context.Background()
	st := store.New(db)

	products := catalog.NewRepository(st)
	if err := products.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := products.Seed(ctx, catalog.SampleProducts()); err != nil {
		return err
	}
	items, err := products.LoadAll(ctx)
	if err != nil {
		return err
	}

	userRepo := users.NewRepository(st)
	if err := userRepo.EnsureSchema(ctx); err != nil {
		return err
	}

	sender := tgadapter.NewSender()
	b, err := bot.New(bot.Options{
		Sessions: session.NewStore(),
		Replier:  sender,
		Products: items,
		Users:    userRepo,
	})
	if err != nil {
		return err
	}
	dispatcher := chat.NewDispatcher(b.Rules())

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return coretelegram.RunTelegram(runCtx, coretelegram.RunOptions{
		Config: cfg,
		Middlewares: []coretelegram.Middleware{
			{Name: "recover", Use: middleware.Recover()},
			{Name: "logging", Use: middleware.Logging()},
			{Name: "rate_limit", Use: middleware.RateLimit(
				time.Duration(cfg.RateLimit.IntervalMS)*time.Millisecond,
				cfg.RateLimit.ExcludeUpdates,
			)},
		},
		BuildRoutes: tgadapter.Routes(dispatcher),
		OnStart: func(_ context.Context, rt coretelegram.Runtime) error {
			sender.Bind(rt.Bot, rt.Sender)
			logger.Info(context.Background(), "app", "started")
			return nil
		},
		OnStop: func(_ context.Context, _ coretelegram.Runtime) error {
			logger.Info(context.Background(), "app", "stopping")
			return nil
		},
	})
}
