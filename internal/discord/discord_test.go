package discord

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/remindme/pkg/cmd"
	"github.com/keshon/remindme/pkg/retrylimit"
	"github.com/rs/zerolog"
)

type fakeSession struct {
	mu        sync.Mutex
	texts     []string
	embeds    []*discordgo.MessageEmbed
	sendErrs  []error
	perms     int64
	permsErr  error
	permCalls int
}

func (f *fakeSession) nextErr() error {
	if len(f.sendErrs) == 0 {
		return nil
	}
	err := f.sendErrs[0]
	f.sendErrs = f.sendErrs[1:]
	return err
}

func (f *fakeSession) ChannelMessageSend(channelID, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.nextErr(); err != nil {
		return nil, err
	}
	f.texts = append(f.texts, channelID+"|"+content)
	return &discordgo.Message{}, nil
}

func (f *fakeSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.nextErr(); err != nil {
		return nil, err
	}
	f.embeds = append(f.embeds, embed)
	return &discordgo.Message{}, nil
}

func (f *fakeSession) UserChannelPermissions(string, string, ...discordgo.RequestOption) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.permCalls++
	return f.perms, f.permsErr
}

func testSender(s session) *sender {
	snd := newSender(s, zerolog.Nop())
	snd.retry.InitialDelay = time.Millisecond
	snd.retry.MaxDelay = time.Millisecond
	snd.retry.RateLimitDelay = time.Millisecond
	snd.retry.Jitter = false
	return snd
}

func restErr(code int) error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: code, Status: http.StatusText(code)}}
}

func newEvent(content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "m1",
		ChannelID: "c1",
		GuildID:   "g1",
		Content:   content,
		Author:    &discordgo.User{ID: "u1", Username: "alice"},
	}}
}

func TestAllows(t *testing.T) {
	cases := []struct {
		name  string
		perms int64
		token cmd.Authorization
		want  bool
	}{
		{"held", discordgo.PermissionManageMessages, "MANAGE_MESSAGES", true},
		{"lower case token", discordgo.PermissionManageMessages, "manage_messages", true},
		{"missing", discordgo.PermissionSendMessages, "MANAGE_MESSAGES", false},
		{"admin passes", discordgo.PermissionAdministrator, "BAN_MEMBERS", true},
		{"admin passes unknown", discordgo.PermissionAdministrator, "NOT_A_PERMISSION", true},
		{"unknown fails", discordgo.PermissionManageMessages, "NOT_A_PERMISSION", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allows(tc.perms, tc.token); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestToEmbed(t *testing.T) {
	e := toEmbed(cmd.Embed("Help Message",
		cmd.Field{Name: "ping", Value: "Pong"},
		cmd.Field{Name: "empty", Value: ""},
	))
	if e.Title != "Help Message" || len(e.Fields) != 2 {
		t.Fatalf("unexpected embed %+v", e)
	}
	if e.Fields[0].Inline || e.Fields[0].Value != "Pong" {
		t.Fatalf("unexpected field %+v", e.Fields[0])
	}
	if e.Fields[1].Value != emptyField {
		t.Fatalf("blank values must be replaced, got %q", e.Fields[1].Value)
	}
}

func TestMessageAdapter(t *testing.T) {
	fs := &fakeSession{perms: discordgo.PermissionManageMessages}
	m := &message{event: newEvent("!ping"), sender: testSender(fs), log: zerolog.Nop()}

	if m.AuthorID() != "u1" || m.AuthorName() != "alice" || m.AuthorIsBot() {
		t.Fatal("unexpected author fields")
	}
	if m.GuildID() != "g1" || m.ChannelID() != "c1" || m.MessageID() != "m1" || m.Content() != "!ping" {
		t.Fatal("unexpected message fields")
	}

	ctx := context.Background()
	if !m.HasAuthorization(ctx, "MANAGE_MESSAGES") || m.HasAuthorization(ctx, "BAN_MEMBERS") {
		t.Fatal("unexpected authorization result")
	}
	if fs.permCalls != 1 {
		t.Fatalf("permissions should be fetched once, got %d", fs.permCalls)
	}

	if err := m.Reply(ctx, cmd.Text("hi")); err != nil {
		t.Fatal(err)
	}
	if err := m.Reply(ctx, cmd.Embed("T", cmd.Field{Name: "a", Value: "b"})); err != nil {
		t.Fatal(err)
	}
	if len(fs.texts) != 1 || fs.texts[0] != "c1|hi" || len(fs.embeds) != 1 {
		t.Fatalf("unexpected sends %v %v", fs.texts, fs.embeds)
	}
}

func TestPermissionLookupFailureDenies(t *testing.T) {
	fs := &fakeSession{perms: discordgo.PermissionAdministrator, permsErr: errors.New("unknown channel")}
	var buf bytes.Buffer
	m := &message{event: newEvent("!x"), sender: testSender(fs), log: zerolog.New(&buf)}
	if m.HasAuthorization(context.Background(), "SEND_MESSAGES") {
		t.Fatal("lookup failure must deny")
	}
	if m.HasAuthorization(context.Background(), "MANAGE_MESSAGES") {
		t.Fatal("lookup failure must deny every token")
	}
	if n := strings.Count(buf.String(), "Failed to get user permissions"); n != 1 {
		t.Fatalf("expected one warning per message, got %d:\n%s", n, buf.String())
	}
	if fs.permCalls != 1 {
		t.Fatalf("permissions should be fetched once, got %d", fs.permCalls)
	}
}

func TestSendRetries(t *testing.T) {
	cases := []struct {
		name      string
		errs      []error
		wantSent  int
		wantError bool
	}{
		{"rate limit retried", []error{restErr(429)}, 1, false},
		{"server error not retried", []error{restErr(502)}, 0, true},
		{"transport error not retried", []error{errors.New("connection reset")}, 0, true},
		{"forbidden not retried", []error{restErr(403), nil}, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs := &fakeSession{sendErrs: tc.errs}
			n := &Notifier{sender: testSender(fs)}
			err := n.Notify(context.Background(), "c9", "ding")

			if (err != nil) != tc.wantError {
				t.Fatalf("unexpected error %v", err)
			}
			if len(fs.texts) != tc.wantSent {
				t.Fatalf("expected %d sends, got %v", tc.wantSent, fs.texts)
			}
			if tc.wantError && !retrylimit.Retryable(err) {
				var re *discordgo.RESTError
				if !errors.As(err, &re) {
					t.Fatalf("expected the REST error to be kept, got %v", err)
				}
			}
		})
	}
}
