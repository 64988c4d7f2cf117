// Package reminder delivers reminders once they fall due.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/keshon/remindme/internal/storage"
	"github.com/keshon/remindme/pkg/retrylimit"
	"github.com/rs/zerolog"
)

const (
	JobName         = "reminders"
	DefaultInterval = 15 * time.Second
)

// Notifier posts a message to a channel.
type Notifier interface {
	Notify(ctx context.Context, channelID, content string) error
}

// Scheduler polls the repository and sends every due reminder.
type Scheduler struct {
	Repo     storage.Repository
	Notifier Notifier
	Interval time.Duration
	Logger   zerolog.Logger
	Now      func() time.Time
}

// Run delivers due reminders every Interval until ctx is done. A reminder
// whose delivery fails transiently stays stored and is retried on the next
// tick; one rejected with a non-retryable status (deleted channel, lost
// access) is dropped. Delivery is at-least-once: a reminder that was posted
// but could not be deleted is posted again.
func (s *Scheduler) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.Tick(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick delivers the reminders due right now and returns how many were sent
// and removed from the repository.
func (s *Scheduler) Tick(ctx context.Context) int {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	due, err := s.Repo.Due(ctx, now())
	if err != nil {
		s.Logger.Error().Err(err).Msg("Failed to load due reminders")
		return 0
	}

	sent := 0
	for _, r := range due {
		if ctx.Err() != nil {
			break
		}
		if err := s.Notifier.Notify(ctx, r.ChannelID, Format(r)); err != nil {
			if retrylimit.Retryable(err) {
				s.Logger.Warn().Err(err).Str("reminder", r.ID).Str("channel", r.ChannelID).Msg("Failed to deliver reminder")
				continue
			}
			s.Logger.Error().Err(err).Str("reminder", r.ID).Str("channel", r.ChannelID).Msg("Dropping undeliverable reminder")
			if err := s.Repo.Delete(ctx, r.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
				s.Logger.Error().Err(err).Str("reminder", r.ID).Msg("Failed to delete undeliverable reminder")
			}
			continue
		}
		if err := s.Repo.Delete(ctx, r.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.Logger.Error().Err(err).Str("reminder", r.ID).Msg("Failed to delete delivered reminder")
			continue
		}
		s.Logger.Info().Str("reminder", r.ID).Str("member", r.MemberID).Msg("Reminder delivered")
		sent++
	}
	return sent
}

// Format renders the delivery message for r.
func Format(r storage.Reminder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<@%s> :alarm_clock: Reminder", r.MemberID)
	if reason := strings.TrimSpace(r.Reason); reason != "" {
		b.WriteString(": " + reason)
	}
	if r.MessageLink != "" {
		b.WriteString("\n" + r.MessageLink)
	}
	return b.String()
}
