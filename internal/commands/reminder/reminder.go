// Package reminder holds the reminder commands: setting one and listing the
// pending ones.
package reminder

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/keshon/remindme/internal/storage"
	"github.com/keshon/remindme/pkg/cmd"
	"github.com/keshon/remindme/pkg/util"
)

const (
	MinDuration = 30 * time.Second

	replyNoTime      = ":x: Please provide a time"
	replyBadTime     = ":x: Please provide a valid time"
	replyTooShort    = ":x: The time must be >30s"
	replyStoreFailed = ":x: Could not save the reminder"
	replyNoPending   = "You have no pending reminders"

	listTitle  = "Your reminders"
	noReason   = "(no reason)"
	dateLayout = "YYYY-MM-DD hh:mm"
)

// Commands builds the reminder descriptors on top of repo.
type Commands struct {
	Repo  storage.Repository
	Now   func() time.Time
	NewID func() string
}

func New(repo storage.Repository) *Commands {
	return &Commands{Repo: repo, Now: time.Now, NewID: uuid.NewString}
}

// All returns every reminder descriptor, ready to register.
func (c *Commands) All() []*cmd.Command {
	return []*cmd.Command{c.Remind(), c.List()}
}

func (c *Commands) Remind() *cmd.Command {
	return cmd.MustNew(cmd.Options{
		Aliases:     []string{"reminder", "remindme", "remind"},
		Description: "Set a reminder",
		Run:         c.runRemind,
	})
}

func (c *Commands) List() *cmd.Command {
	return cmd.MustNew(cmd.Options{
		Aliases:     []string{"reminders"},
		Description: "List your pending reminders",
		Run:         c.runList,
	})
}

func (c *Commands) runRemind(ctx context.Context, msg cmd.Message, args string) error {
	token, reason, _ := strings.Cut(args, " ")
	if token == "" {
		return msg.Reply(ctx, cmd.Text(replyNoTime))
	}

	d, err := ParseDuration(token)
	if err != nil {
		return msg.Reply(ctx, cmd.Text(replyBadTime))
	}
	if d < MinDuration {
		return msg.Reply(ctx, cmd.Text(replyTooShort))
	}

	r := storage.Reminder{
		ID:          c.NewID(),
		CreatedAt:   c.Now().UTC(),
		Duration:    d,
		GuildID:     msg.GuildID(),
		ChannelID:   msg.ChannelID(),
		MemberID:    msg.AuthorID(),
		MessageLink: MessageLink(msg.GuildID(), msg.ChannelID(), msg.MessageID()),
		Reason:      reason,
	}
	if err := c.Repo.Insert(ctx, r); err != nil {
		if replyErr := msg.Reply(ctx, cmd.Text(replyStoreFailed)); replyErr != nil {
			return fmt.Errorf("%w (reply: %v)", err, replyErr)
		}
		return err
	}

	return msg.Reply(ctx, cmd.Text(fmt.Sprintf(
		":ballot_box_with_check: Reminder set! I will remind you in ~**%s**", Humanize(d))))
}

func (c *Commands) runList(ctx context.Context, msg cmd.Message, _ string) error {
	list, err := c.Repo.ListByMember(ctx, msg.GuildID(), msg.AuthorID())
	if err != nil {
		return fmt.Errorf("list reminders: %w", err)
	}
	if len(list) == 0 {
		return msg.Reply(ctx, cmd.Text(replyNoPending))
	}

	fields := make([]cmd.Field, 0, len(list))
	for _, r := range list {
		reason := strings.TrimSpace(r.Reason)
		if reason == "" {
			reason = noReason
		}
		fields = append(fields, cmd.Field{
			Name:  util.FormatDate(r.DueAt().UTC(), dateLayout) + " UTC",
			Value: reason,
		})
	}
	return msg.Reply(ctx, cmd.Embed(listTitle, fields...))
}

// MessageLink is the jump URL of a guild message.
func MessageLink(guildID, channelID, messageID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}

// magnitudes stop at days so long reminders read "10 days", not "1 week".
var magnitudes = []humanize.RelTimeMagnitude{
	{D: time.Second, Format: "%d milliseconds %s", DivBy: time.Millisecond},
	{D: 2 * time.Second, Format: "1 second %s", DivBy: 1},
	{D: time.Minute, Format: "%d seconds %s", DivBy: time.Second},
	{D: 2 * time.Minute, Format: "1 minute %s", DivBy: 1},
	{D: time.Hour, Format: "%d minutes %s", DivBy: time.Minute},
	{D: 2 * time.Hour, Format: "1 hour %s", DivBy: 1},
	{D: humanize.Day, Format: "%d hours %s", DivBy: time.Hour},
	{D: 2 * humanize.Day, Format: "1 day %s", DivBy: 1},
	{D: math.MaxInt64, Format: "%d days %s", DivBy: humanize.Day},
}

// Humanize renders d as "5 minutes", "2 hours" and so on, rounded to the
// nearest whole unit: 90m is "2 hours" and 36h is "2 days".
func Humanize(d time.Duration) string {
	var base time.Time
	return strings.TrimSpace(humanize.CustomRelTime(base, base.Add(roundToUnit(d)), "", "", magnitudes))
}

func roundToUnit(d time.Duration) time.Duration {
	abs := d.Abs()
	for _, unit := range []time.Duration{humanize.Day, time.Hour, time.Minute, time.Second} {
		if abs >= unit {
			return d.Round(unit)
		}
	}
	return d
}
