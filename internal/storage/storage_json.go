package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/keshon/remindme/datastore"
	"github.com/rs/zerolog"
)

const reminderKeyPrefix = "reminder:"

// JSONStore keeps reminders in the JSON datastore, one key per reminder.
type JSONStore struct {
	ds *datastore.DataStore
}

// OpenJSON opens (or creates) the JSON file at path.
func OpenJSON(path string, logger zerolog.Logger) (*JSONStore, error) {
	cfg := datastore.DefaultConfig(path)
	cfg.Logger = logger
	ds, err := datastore.NewWithConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("open datastore: %w", err)
	}
	return &JSONStore{ds: ds}, nil
}

func (s *JSONStore) Insert(ctx context.Context, r Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(r); err != nil {
		return err
	}
	if err := s.ds.Put(reminderKeyPrefix+r.ID, r); err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

func (s *JSONStore) Due(ctx context.Context, now time.Time) ([]Reminder, error) {
	return s.filter(ctx, func(r Reminder) bool { return !r.DueAt().After(now) })
}

func (s *JSONStore) ListByMember(ctx context.Context, guildID, memberID string) ([]Reminder, error) {
	return s.filter(ctx, func(r Reminder) bool {
		return r.GuildID == guildID && r.MemberID == memberID
	})
}

func (s *JSONStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := reminderKeyPrefix + id
	var r Reminder
	ok, err := s.ds.Get(key, &r)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return s.ds.Delete(key)
}

func (s *JSONStore) Close() error {
	return s.ds.Close()
}

func (s *JSONStore) filter(ctx context.Context, keep func(Reminder) bool) ([]Reminder, error) {
	var out []Reminder
	for _, key := range s.ds.Keys(reminderKeyPrefix) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var r Reminder
		ok, err := s.ds.Get(key, &r)
		if err != nil {
			return nil, fmt.Errorf("read reminder: %w", err)
		}
		if ok && keep(r) {
			out = append(out, r)
		}
	}
	sortByDue(out)
	return out, nil
}

func sortByDue(list []Reminder) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].DueAt().Before(list[j].DueAt())
	})
}
