// Package bot wires configuration, storage, commands and background jobs into
// a runnable application shared by every transport.
package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/keshon/remindme/internal/commands/core"
	remindcmd "github.com/keshon/remindme/internal/commands/reminder"
	"github.com/keshon/remindme/internal/config"
	"github.com/keshon/remindme/internal/reminder"
	"github.com/keshon/remindme/internal/storage"
	"github.com/keshon/remindme/pkg/cmd"
	"github.com/keshon/remindme/pkg/jobmgr"
	"github.com/rs/zerolog"
)

type App struct {
	Config     *config.Config
	Log        zerolog.Logger
	Repo       storage.Repository
	Dispatcher *cmd.Dispatcher
	Jobs       *jobmgr.Manager
}

// New opens storage and builds a dispatcher with every command registered.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	repo, err := storage.Open(ctx, storage.Options{
		Driver:     cfg.StorageDriver,
		Path:       cfg.StoragePath,
		ValkeyAddr: cfg.ValkeyAddr,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	regOpts := []cmd.RegistryOption{cmd.WithLogger(log)}
	if cfg.StrictAliases {
		regOpts = append(regOpts, cmd.WithStrictAliases())
	}
	d := cmd.NewDispatcher(cmd.NewRegistry(regOpts...), cmd.Config{
		Prefix:        cfg.Prefix,
		Logger:        &log,
		AllowedGuilds: cfg.AllowedGuilds,
		NotFoundText:  cfg.NotFoundText,
		Middlewares:   []cmd.Middleware{cmd.CommandLogger(log)},
	})
	for _, c := range Commands(repo) {
		if err := d.Register(c); err != nil {
			return nil, errors.Join(fmt.Errorf("register %q: %w", c.Name(), err), repo.Close())
		}
	}

	return &App{
		Config:     cfg,
		Log:        log,
		Repo:       repo,
		Dispatcher: d,
		Jobs:       jobmgr.NewManager(log),
	}, nil
}

// Commands lists every command the bot serves, in help order.
func Commands(repo storage.Repository) []*cmd.Command {
	return append(remindcmd.New(repo).All(), core.Ping())
}

// StartScheduler starts reminder delivery through n as a background job.
func (a *App) StartScheduler(ctx context.Context, n reminder.Notifier) error {
	s := &reminder.Scheduler{
		Repo:     a.Repo,
		Notifier: n,
		Interval: a.Config.ReminderPoll,
		Logger:   a.Log.With().Str("component", "scheduler").Logger(),
	}
	return a.Jobs.StartAsync(ctx, reminder.JobName, s.Run)
}

// Close stops background jobs and closes storage.
func (a *App) Close() error {
	a.Jobs.StopAll()
	return a.Repo.Close()
}
