// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/remindme/internal/bot"
	"github.com/keshon/remindme/internal/config"
	"github.com/keshon/remindme/internal/discord"
	"github.com/keshon/remindme/internal/logging"
	v "github.com/keshon/remindme/internal/version"
	zlog "github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		zlog.Fatal().Err(err).Msg("Discord bot stopped")
	}
}

func run() error {
	dotenv := config.LoadDotEnv()

	cfg, err := config.New()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	zlog.Logger = log
	if !dotenv {
		log.Debug().Msg("No .env file loaded")
	}
	log.Info().Str("version", v.Version).Msgf("Starting %v bot...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bot.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close storage")
		}
	}()

	b, err := discord.NewBot(cfg.DiscordToken, app.Dispatcher, log)
	if err != nil {
		return err
	}
	if err := app.StartScheduler(ctx, b.Notifier()); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := b.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("Received signal, shutting down...")
		cancel()
	case err := <-errCh:
		cancel()
		if err != nil {
			return err
		}
	}

	<-errCh
	log.Info().Msg("Discord bot exited cleanly")
	return nil
}
