package cmd

import (
	"context"
	"sync"
)

// fakeMessage implements Message for tests and records replies and checks.
type fakeMessage struct {
	authorID string
	bot      bool
	guildID  string
	content  string
	granted  map[Authorization]bool

	mu      sync.Mutex
	replies []Reply
	checks  []Authorization
}

func newMessage(content string) *fakeMessage {
	return &fakeMessage{
		authorID: "u1",
		guildID:  "g1",
		content:  content,
		granted:  map[Authorization]bool{},
	}
}

func (m *fakeMessage) AuthorID() string   { return m.authorID }
func (m *fakeMessage) AuthorName() string { return "tester" }
func (m *fakeMessage) AuthorIsBot() bool  { return m.bot }
func (m *fakeMessage) GuildID() string    { return m.guildID }
func (m *fakeMessage) ChannelID() string  { return "c1" }
func (m *fakeMessage) MessageID() string  { return "m1" }
func (m *fakeMessage) Content() string    { return m.content }

func (m *fakeMessage) HasAuthorization(_ context.Context, a Authorization) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks = append(m.checks, a)
	return m.granted[a]
}

func (m *fakeMessage) Reply(_ context.Context, r Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, r)
	return nil
}

func (m *fakeMessage) Replies() []Reply {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Reply, len(m.replies))
	copy(out, m.replies)
	return out
}

// recorder is a handler that remembers the args it was called with.
type recorder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (r *recorder) Run(_ context.Context, _ Message, args string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, args)
	return r.err
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}
