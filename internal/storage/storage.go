// /internal/storage/storage.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrNotFound      = errors.New("reminder not found")
	ErrUnknownDriver = errors.New("unknown storage driver")
)

// Reminder is a pending reminder set by a guild member.
type Reminder struct {
	ID          string        `json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	Duration    time.Duration `json:"duration"`
	GuildID     string        `json:"guild_id"`
	ChannelID   string        `json:"channel_id"`
	MemberID    string        `json:"member_id"`
	MessageLink string        `json:"message_link"`
	Reason      string        `json:"reason"`
}

// DueAt is when the reminder should fire.
func (r Reminder) DueAt() time.Time {
	return r.CreatedAt.Add(r.Duration)
}

// Repository persists reminders. Implementations are safe for concurrent use.
type Repository interface {
	Insert(ctx context.Context, r Reminder) error
	// Due returns reminders whose DueAt is not after now, oldest first.
	Due(ctx context.Context, now time.Time) ([]Reminder, error)
	// ListByMember returns a member's reminders in a guild, soonest first.
	ListByMember(ctx context.Context, guildID, memberID string) ([]Reminder, error)
	// Delete removes a reminder; ErrNotFound when it does not exist.
	Delete(ctx context.Context, id string) error
	Close() error
}

// Options selects and configures a driver.
type Options struct {
	Driver     string // json, sqlite or valkey
	Path       string // file for json and sqlite
	ValkeyAddr string
	Logger     zerolog.Logger
}

// Open returns the repository for opts.Driver.
func Open(ctx context.Context, opts Options) (Repository, error) {
	switch opts.Driver {
	case "", "json":
		return OpenJSON(opts.Path, opts.Logger)
	case "sqlite":
		return OpenSQLite(opts.Path)
	case "valkey":
		return OpenValkey(ctx, opts.ValkeyAddr)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}

func validate(r Reminder) error {
	switch {
	case r.ID == "":
		return errors.New("reminder id is required")
	case r.MemberID == "":
		return errors.New("reminder member id is required")
	case r.Duration <= 0:
		return errors.New("reminder duration must be positive")
	case r.CreatedAt.IsZero():
		return errors.New("reminder creation time is required")
	}
	return nil
}
