// The bot command runs the domain-watch Telegram bot: it accepts domain
// names in chat, scans them for lookalike registrations with dnstwist, and
// reports the findings back to the user.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"

	"github.com/domainwatch/twistbot/internal/analyzer"
	"github.com/domainwatch/twistbot/internal/bot"
	"github.com/domainwatch/twistbot/internal/bot/handlers"
	"github.com/domainwatch/twistbot/internal/bot/tasks"
	"github.com/domainwatch/twistbot/internal/config"
	"github.com/domainwatch/twistbot/internal/database"
	"github.com/domainwatch/twistbot/internal/logger"
	"github.com/domainwatch/twistbot/internal/router"
	"github.com/domainwatch/twistbot/internal/stats"
	"github.com/domainwatch/twistbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx))
}

func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	log.Info("Starting bot", "log_level", cfg.Log.Level, "analyzer", cfg.Analyzer.Command)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to initialize database", "error", err, "path", cfg.Database.Path)
		return 1
	}
	defer database.CloseDB(db)

	store := database.NewStore(db, log)
	statsStore := stats.New(log, cfg.Stats.Path)
	scanner := analyzer.New(log, cfg.Analyzer.Command, cfg.Analyzer.PermutationLimit, cfg.Analyzer.Timeout)

	// Handler dependencies are shared by pointer: the default handler has
	// to be registered as a bot option before the sender and router exist,
	// because they in turn need the bot API client.
	deps := handlers.HandlerDeps{
		Logger: log,
		Config: cfg,
		Store:  store,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewMessageHandler(&deps)),
	}

	tg, err := telegram.New(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to initialize Telegram client", "error", err)
		return 1
	}

	sender := telegram.NewSender(log, tg, &cfg.Telegram)
	deps.Sender = sender
	deps.Router = router.New(log, cfg, sender, scanner, statsStore, store)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(&deps)); err != nil {
		log.Error("Failed to register handlers", "error", err)
		return 1
	}

	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	})

	scheduler, err := bot.NewScheduler(log, &cfg.Scheduler, taskMap)
	if err != nil {
		log.Error("Failed to initialize scheduler", "error", err)
		return 1
	}

	app := bot.New(log, tg, scheduler)
	if err := app.Run(ctx); err != nil {
		log.Error("Bot exited with error", "error", err)
		return 1
	}

	return 0
}
