package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/remindme/pkg/cmd"
	"github.com/rs/zerolog"
)

// Bot connects the dispatcher to the Discord gateway.
type Bot struct {
	dg         *discordgo.Session
	dispatcher *cmd.Dispatcher
	sender     *sender
	log        zerolog.Logger
	ctx        context.Context
}

// NewBot creates a session for token. Nothing connects until Run.
func NewBot(token string, d *cmd.Dispatcher, log zerolog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentGuilds | discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	b := &Bot{
		dg:         dg,
		dispatcher: d,
		sender:     newSender(dg, log),
		log:        log,
		ctx:        context.Background(),
	}
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	return b, nil
}

// Notifier posts through the bot's session and limiter.
func (b *Bot) Notifier() *Notifier {
	return &Notifier{sender: b.sender}
}

// Run opens the gateway and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msg("Discord bot is running")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || (s.State.User != nil && m.Author.ID == s.State.User.ID) {
		return
	}
	b.dispatcher.Dispatch(b.ctx, &message{event: m, sender: b.sender, log: b.log})
}
