// Package console drives the dispatcher from a terminal: every input line is
// a message from one fixed member in one fixed guild channel.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/keshon/remindme/pkg/cmd"
)

// Options identifies the simulated member and what they may do.
type Options struct {
	UserID    string
	UserName  string
	GuildID   string
	ChannelID string
	Grants    []cmd.Authorization
}

// DefaultOptions is a member called "console" in guild "local", channel "terminal".
func DefaultOptions() Options {
	return Options{UserID: "console", UserName: "console", GuildID: "local", ChannelID: "terminal"}
}

// Console reads commands and prints replies.
type Console struct {
	d    *cmd.Dispatcher
	opts Options

	mu  sync.Mutex
	out io.Writer
	seq int
}

func New(d *cmd.Dispatcher, out io.Writer, opts Options) *Console {
	return &Console{d: d, out: out, opts: opts}
}

// Run dispatches each line of in until EOF or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		c.d.Dispatch(ctx, c.newMessage(line))
	}
	return sc.Err()
}

// Notify prints a message addressed to channelID.
func (c *Console) Notify(_ context.Context, channelID, content string) error {
	return c.print(fmt.Sprintf("[#%s] %s", channelID, content))
}

func (c *Console) newMessage(content string) *message {
	c.mu.Lock()
	c.seq++
	id := strconv.Itoa(c.seq)
	c.mu.Unlock()
	return &message{c: c, id: id, content: content}
}

func (c *Console) print(s string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, s)
	return err
}

// Render formats a reply for the terminal: text as-is, structured replies as
// the title followed by "name: value" lines.
func Render(r cmd.Reply) string {
	if !r.IsEmbed() {
		return r.Content
	}
	var b strings.Builder
	if r.Title != "" {
		b.WriteString("== " + r.Title + " ==")
	}
	if r.Content != "" {
		b.WriteString("\n" + r.Content)
	}
	for _, f := range r.Fields {
		b.WriteString("\n" + f.Name + ": " + f.Value)
	}
	return strings.TrimPrefix(b.String(), "\n")
}

type message struct {
	c       *Console
	id      string
	content string
}

func (m *message) AuthorID() string   { return m.c.opts.UserID }
func (m *message) AuthorName() string { return m.c.opts.UserName }
func (m *message) AuthorIsBot() bool  { return false }
func (m *message) GuildID() string    { return m.c.opts.GuildID }
func (m *message) ChannelID() string  { return m.c.opts.ChannelID }
func (m *message) MessageID() string  { return m.id }
func (m *message) Content() string    { return m.content }

func (m *message) HasAuthorization(_ context.Context, a cmd.Authorization) bool {
	return slices.Contains(m.c.opts.Grants, a)
}

func (m *message) Reply(_ context.Context, r cmd.Reply) error {
	return m.c.print(Render(r))
}
