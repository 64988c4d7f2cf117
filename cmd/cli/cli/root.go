// Package cli is the terminal front end: it runs the same commands as the
// Discord bot against lines read from stdin.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/remindme/internal/bot"
	"github.com/keshon/remindme/internal/config"
	"github.com/keshon/remindme/internal/console"
	"github.com/keshon/remindme/internal/logging"
	v "github.com/keshon/remindme/internal/version"
	"github.com/keshon/remindme/pkg/cmd"
	"github.com/spf13/cobra"
)

type options struct {
	prefix        string
	grants        []string
	user          string
	guild         string
	channel       string
	storageDriver string
	storagePath   string
	logLevel      string
}

// NewRootCommand builds the cli command tree.
func NewRootCommand() *cobra.Command {
	var o options
	defaults := console.DefaultOptions()

	root := &cobra.Command{
		Use:   "remindme",
		Short: v.AppName + " - reminder bot console",
		Long: `Reads one message per line from stdin and prints the bot's replies.
Reminders fire in the same terminal while it stays open.

Example:
  echo '!remind 5m stretch' | remindme --storage-path /tmp/reminders.json`,
		SilenceUsage: true,
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, c, o)
		},
	}

	f := root.Flags()
	f.StringVar(&o.prefix, "prefix", "", "command prefix (default: COMMAND_PREFIX or !)")
	f.StringSliceVar(&o.grants, "grant", nil, "authorization tokens held by the console user, e.g. MANAGE_MESSAGES")
	f.StringVar(&o.user, "user", defaults.UserID, "simulated user id")
	f.StringVar(&o.guild, "guild", defaults.GuildID, "simulated guild id")
	f.StringVar(&o.channel, "channel", defaults.ChannelID, "simulated channel id")
	f.StringVar(&o.storageDriver, "storage-driver", "", "json, sqlite or valkey (default: STORAGE_DRIVER)")
	f.StringVar(&o.storagePath, "storage-path", "", "storage file (default: STORAGE_PATH)")
	f.StringVar(&o.logLevel, "log-level", "", "log level (default: LOG_LEVEL)")

	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().ExecuteContext(context.Background())
}

func run(ctx context.Context, c *cobra.Command, o options) error {
	config.LoadDotEnv()
	cfg, err := config.New()
	if err != nil {
		return err
	}
	applyFlags(cfg, o)

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: c.ErrOrStderr()})
	if err != nil {
		return err
	}

	app, err := bot.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	opts := console.Options{
		UserID:    o.user,
		UserName:  o.user,
		GuildID:   o.guild,
		ChannelID: o.channel,
	}
	for _, g := range o.grants {
		opts.Grants = append(opts.Grants, cmd.Authorization(g))
	}
	con := console.New(app.Dispatcher, c.OutOrStdout(), opts)

	if err := app.StartScheduler(ctx, con); err != nil {
		return err
	}
	return con.Run(ctx, c.InOrStdin())
}

func applyFlags(cfg *config.Config, o options) {
	if o.prefix != "" {
		cfg.Prefix = o.prefix
	}
	if o.storageDriver != "" {
		cfg.StorageDriver = o.storageDriver
	}
	if o.storagePath != "" {
		cfg.StoragePath = o.storagePath
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(c *cobra.Command, _ []string) {
			fmt.Fprintf(c.OutOrStdout(), "%s %s\n", v.AppName, v.Version)
		},
	}
}
