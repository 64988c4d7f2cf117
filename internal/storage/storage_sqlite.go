package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS reminders (
	id           TEXT PRIMARY KEY,
	created_at   INTEGER NOT NULL,
	duration_ms  INTEGER NOT NULL,
	due_at       INTEGER NOT NULL,
	guild_id     TEXT NOT NULL,
	channel_id   TEXT NOT NULL,
	member_id    TEXT NOT NULL,
	message_link TEXT NOT NULL,
	reason       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS reminders_due_at ON reminders (due_at);
CREATE INDEX IF NOT EXISTS reminders_member ON reminders (guild_id, member_id);
`

const reminderColumns = `id, created_at, duration_ms, guild_id, channel_id, member_id, message_link, reason`

// SQLiteStore keeps reminders in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// OpenSQLite opens the database at path and creates the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, r Reminder) error {
	if err := validate(r); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (`+reminderColumns+`, due_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, toMillis(r.CreatedAt), r.Duration.Milliseconds(),
		r.GuildID, r.ChannelID, r.MemberID, r.MessageLink, r.Reason,
		toMillis(r.DueAt()),
	)
	if err != nil {
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Due(ctx context.Context, now time.Time) ([]Reminder, error) {
	return s.query(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE due_at <= ? ORDER BY due_at, id`,
		toMillis(now))
}

func (s *SQLiteStore) ListByMember(ctx context.Context, guildID, memberID string) ([]Reminder, error) {
	return s.query(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE guild_id = ? AND member_id = ? ORDER BY due_at, id`,
		guildID, memberID)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]Reminder, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var out []Reminder
	for rows.Next() {
		var (
			r                     Reminder
			createdAt, durationMs int64
		)
		if err := rows.Scan(&r.ID, &createdAt, &durationMs, &r.GuildID, &r.ChannelID, &r.MemberID, &r.MessageLink, &r.Reason); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		r.CreatedAt = fromMillis(createdAt)
		r.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, r)
	}
	return out, rows.Err()
}
