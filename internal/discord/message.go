package discord

import (
	"context"
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/remindme/pkg/cmd"
	"github.com/keshon/remindme/pkg/retrylimit"
	"github.com/rs/zerolog"
)

const (
	embedColor = 0x5865F2
	emptyField = "\u200b"
)

// session is the part of *discordgo.Session the transport uses.
type session interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelPermissions(userID, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error)
}

// restError exposes the HTTP status of a discordgo REST failure to retrylimit.
type restError struct {
	*discordgo.RESTError
}

func (e restError) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

func (e restError) Unwrap() error { return e.RESTError }

// sender sends replies through the adaptive limiter. Only 429s are retried:
// Discord may answer 5xx or drop the connection after the message was posted.
type sender struct {
	s     session
	lim   *retrylimit.AdaptiveLimiter
	retry retrylimit.RetryConfig
}

func newSender(s session, log zerolog.Logger) *sender {
	retry := retrylimit.DefaultRetryConfig()
	retry.Logger = log
	retry.RetryIf = retrylimit.IsRateLimit
	return &sender{
		s:     s,
		lim:   retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5),
		retry: retry,
	}
}

func (snd *sender) send(ctx context.Context, channelID string, r cmd.Reply) error {
	return retrylimit.WithRetryConfig(ctx, func() error {
		var err error
		if r.IsEmbed() {
			_, err = snd.s.ChannelMessageSendEmbed(channelID, toEmbed(r))
		} else {
			_, err = snd.s.ChannelMessageSend(channelID, r.Content)
		}
		var re *discordgo.RESTError
		if errors.As(err, &re) {
			return restError{re}
		}
		return err
	}, snd.lim, snd.retry)
}

// toEmbed converts a structured reply. Discord rejects empty field names and
// values, so blanks become a zero-width space.
func toEmbed(r cmd.Reply) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       r.Title,
		Description: r.Content,
		Color:       embedColor,
	}
	for _, f := range r.Fields {
		name, value := f.Name, f.Value
		if name == "" {
			name = emptyField
		}
		if value == "" {
			value = emptyField
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: false})
	}
	return embed
}

// message adapts a gateway MessageCreate event to cmd.Message.
type message struct {
	event  *discordgo.MessageCreate
	sender *sender
	log    zerolog.Logger

	permsOnce sync.Once
	perms     int64
	permsErr  error
}

var _ cmd.Message = (*message)(nil)

func (m *message) AuthorID() string {
	if m.event.Author == nil {
		return ""
	}
	return m.event.Author.ID
}

func (m *message) AuthorName() string {
	if m.event.Author == nil {
		return ""
	}
	return m.event.Author.Username
}

func (m *message) AuthorIsBot() bool {
	return m.event.Author != nil && m.event.Author.Bot
}

func (m *message) GuildID() string   { return m.event.GuildID }
func (m *message) ChannelID() string { return m.event.ChannelID }
func (m *message) MessageID() string { return m.event.ID }
func (m *message) Content() string   { return m.event.Content }

// HasAuthorization resolves the author's channel permissions once per message.
func (m *message) HasAuthorization(_ context.Context, a cmd.Authorization) bool {
	m.permsOnce.Do(func() {
		m.perms, m.permsErr = m.sender.s.UserChannelPermissions(m.AuthorID(), m.event.ChannelID)
		if m.permsErr != nil {
			m.log.Warn().Err(m.permsErr).Str("user_id", m.AuthorID()).Str("channel", m.event.ChannelID).Msg("Failed to get user permissions")
		}
	})
	if m.permsErr != nil {
		return false
	}
	return Allows(m.perms, a)
}

func (m *message) Reply(ctx context.Context, r cmd.Reply) error {
	return m.sender.send(ctx, m.event.ChannelID, r)
}

// Notifier delivers plain messages to channels, e.g. due reminders.
type Notifier struct {
	sender *sender
}

func (n *Notifier) Notify(ctx context.Context, channelID, content string) error {
	return n.sender.send(ctx, channelID, cmd.Text(content))
}
