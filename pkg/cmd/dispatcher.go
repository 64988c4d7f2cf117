package cmd

import (
	"context"
	"slices"
	"strings"

	"github.com/keshon/remindme/pkg/util"
	"github.com/rs/zerolog"
)

// DefaultDeniedText is sent when the author lacks a command's authorizations.
const DefaultDeniedText = ":x: You do not have the privileges"

// NotFoundFunc handles messages whose command token matches nothing.
type NotFoundFunc func(ctx context.Context, msg Message) error

// Config holds the dispatcher settings.
type Config struct {
	// Prefix every command word must start with, e.g. "!".
	Prefix string
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
	// AllowedGuilds restricts handling to these communities when non-empty.
	AllowedGuilds []string
	// HelpRenderer replaces the default help output.
	HelpRenderer HelpRenderer
	// NotFound runs on a routing miss. It takes precedence over NotFoundText.
	NotFound NotFoundFunc
	// NotFoundText is replied on a routing miss when NotFound is nil.
	NotFoundText string
	// DeniedText overrides DefaultDeniedText.
	DeniedText string
	// Middlewares wrap every handler invocation; the first is the outermost.
	Middlewares []Middleware
}

// Outcome is the result of one matched command for one message.
type Outcome struct {
	Command *Command
	// Denied is set when the author failed an authorization check and the
	// handler did not run.
	Denied bool
	Err    error
}

// Dispatcher routes inbound messages to registered commands.
type Dispatcher struct {
	registry *Registry
	cfg      Config
	log      zerolog.Logger
}

// NewDispatcher returns a dispatcher over reg and registers the built-in help
// command ahead of everything else. A nil reg gets a fresh registry.
func NewDispatcher(reg *Registry, cfg Config) *Dispatcher {
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	if reg == nil {
		reg = NewRegistry(WithLogger(log))
	}
	if cfg.DeniedText == "" {
		cfg.DeniedText = DefaultDeniedText
	}

	d := &Dispatcher{registry: reg, cfg: cfg, log: log}
	reg.prepend(d.helpCommand())
	return d
}

// Registry returns the registry the dispatcher reads from.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Register adds c to the dispatcher's registry.
func (d *Dispatcher) Register(c *Command) error { return d.registry.Register(c) }

// Parse splits content into the command word and the remainder text. Only a
// single space separates tokens, so runs of spaces survive in the remainder.
func Parse(content string) (word, args string) {
	word, args, _ = strings.Cut(content, " ")
	return word, args
}

// Token extracts the lower-cased command token from content. ok is false when
// the command word does not start with prefix.
func Token(content, prefix string) (token, args string, ok bool) {
	word, args := Parse(content)
	rest, found := strings.CutPrefix(word, prefix)
	if !found {
		return "", "", false
	}
	return strings.ToLower(rest), args, true
}

// Dispatch handles one inbound message and returns an outcome per matched
// command, in registration order. It returns nil when the message is ignored or
// nothing matches. Matched commands run concurrently; Dispatch waits for all of
// them.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) []Outcome {
	if msg.AuthorIsBot() || msg.GuildID() == "" {
		return nil
	}
	if len(d.cfg.AllowedGuilds) > 0 && !slices.Contains(d.cfg.AllowedGuilds, msg.GuildID()) {
		return nil
	}

	token, args, ok := Token(msg.Content(), d.cfg.Prefix)
	if !ok {
		return nil
	}

	matched := d.registry.Find(token)
	if len(matched) == 0 {
		d.notFound(ctx, msg, token)
		return nil
	}

	outcomes := make([]Outcome, len(matched))
	idx := make([]int, len(matched))
	for i := range idx {
		idx[i] = i
	}
	errs := util.Settle(ctx, idx, func(ctx context.Context, i int) error {
		c := matched[i]
		if !d.authorized(ctx, c, msg) {
			outcomes[i].Denied = true
			if err := msg.Reply(ctx, Text(d.cfg.DeniedText)); err != nil {
				d.log.Warn().Err(err).Str("command", c.Name()).Msg("Failed to send denial")
			}
			return nil
		}
		return Apply(c, c.run, d.cfg.Middlewares...)(ctx, msg, args)
	})

	for i, err := range errs {
		outcomes[i].Command = matched[i]
		outcomes[i].Err = err
		if err != nil {
			d.log.Error().Err(err).
				Str("command", matched[i].Name()).
				Str("guild", msg.GuildID()).
				Str("message", msg.MessageID()).
				Msg("Command failed")
		}
	}
	return outcomes
}

// authorized evaluates every authorization of c once, stopping at the first miss.
func (d *Dispatcher) authorized(ctx context.Context, c *Command, msg Message) bool {
	for _, a := range c.authorizations {
		if !msg.HasAuthorization(ctx, a) {
			return false
		}
	}
	return true
}

func (d *Dispatcher) notFound(ctx context.Context, msg Message, token string) {
	var err error
	switch {
	case d.cfg.NotFound != nil:
		err = d.cfg.NotFound(ctx, msg)
	case d.cfg.NotFoundText != "":
		err = msg.Reply(ctx, Text(d.cfg.NotFoundText))
	default:
		return
	}
	if err != nil {
		d.log.Warn().Err(err).Str("token", token).Msg("Command-not-found handler failed")
	}
}
