// Package bot implements lifecycle management and component orchestration
// for the domain-watch Telegram bot.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"
)

// Bot owns the long-lived components and runs them until shutdown.
type Bot struct {
	log       *slog.Logger
	tgBot     *tgbot.Bot
	scheduler *Scheduler
}

// New creates the bot orchestrator.
func New(log *slog.Logger, tg *tgbot.Bot, scheduler *Scheduler) *Bot {
	return &Bot{
		log:       log.With("component", "orchestrator"),
		tgBot:     tg,
		scheduler: scheduler,
	}
}

// Run starts the Telegram listener and the scheduler, then blocks until the
// context is cancelled or a component fails. The listener dispatches each
// update on its own goroutine, so one slow scan never blocks the receive
// loop.
func (b *Bot) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		b.log.Info("Starting Telegram listener")
		b.tgBot.Start(gCtx)
		b.log.Info("Telegram listener stopped")

		if gCtx.Err() == nil {
			return fmt.Errorf("telegram listener stopped unexpectedly")
		}
		return nil
	})

	g.Go(func() error {
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}

		<-gCtx.Done()
		b.log.Info("Shutdown signal received, stopping scheduler")
		if err := b.scheduler.Stop(); err != nil {
			b.log.Error("Error stopping scheduler", "error", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	b.log.Info("Bot stopped gracefully")
	return nil
}
