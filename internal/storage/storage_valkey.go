package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"
)

const (
	valkeyDueKey  = "remindme:due"       // sorted set: id scored by due time in ms
	valkeyDataKey = "remindme:reminders" // hash: id -> reminder JSON
)

// ValkeyStore keeps reminders in Valkey.
type ValkeyStore struct {
	client valkey.Client
}

// OpenValkey connects to addr and checks the connection.
func OpenValkey(ctx context.Context, addr string) (*ValkeyStore, error) {
	if addr == "" {
		return nil, errors.New("valkey address is required")
	}
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("connect valkey: %w", err)
	}
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}
	return &ValkeyStore{client: client}, nil
}

func (s *ValkeyStore) Insert(ctx context.Context, r Reminder) error {
	if err := validate(r); err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reminder: %w", err)
	}
	for _, res := range s.client.DoMulti(ctx,
		s.client.B().Hset().Key(valkeyDataKey).FieldValue().FieldValue(r.ID, string(data)).Build(),
		s.client.B().Zadd().Key(valkeyDueKey).ScoreMember().ScoreMember(float64(toMillis(r.DueAt())), r.ID).Build(),
	) {
		if err := res.Error(); err != nil {
			return fmt.Errorf("insert reminder: %w", err)
		}
	}
	return nil
}

func (s *ValkeyStore) Due(ctx context.Context, now time.Time) ([]Reminder, error) {
	ids, err := s.client.Do(ctx, s.client.B().Zrangebyscore().Key(valkeyDueKey).
		Min("-inf").Max(strconv.FormatInt(toMillis(now), 10)).Build()).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("query due reminders: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	values, err := s.client.Do(ctx, s.client.B().Hmget().Key(valkeyDataKey).Field(ids...).Build()).ToArray()
	if err != nil {
		return nil, fmt.Errorf("load due reminders: %w", err)
	}
	out := make([]Reminder, 0, len(values))
	for _, v := range values {
		raw, err := v.ToString()
		if valkey.IsValkeyNil(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load due reminders: %w", err)
		}
		var r Reminder
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("decode reminder: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *ValkeyStore) ListByMember(ctx context.Context, guildID, memberID string) ([]Reminder, error) {
	values, err := s.client.Do(ctx, s.client.B().Hvals().Key(valkeyDataKey).Build()).AsStrSlice()
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	var out []Reminder
	for _, raw := range values {
		var r Reminder
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("decode reminder: %w", err)
		}
		if r.GuildID == guildID && r.MemberID == memberID {
			out = append(out, r)
		}
	}
	sortByDue(out)
	return out, nil
}

func (s *ValkeyStore) Delete(ctx context.Context, id string) error {
	results := s.client.DoMulti(ctx,
		s.client.B().Hdel().Key(valkeyDataKey).Field(id).Build(),
		s.client.B().Zrem().Key(valkeyDueKey).Member(id).Build(),
	)
	removed, err := results[0].AsInt64()
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if err := results[1].Error(); err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ValkeyStore) Close() error {
	s.client.Close()
	return nil
}
