package cmd

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Middleware wraps a command handler (logging, metrics).
type Middleware func(c *Command, next HandlerFunc) HandlerFunc

// Apply wraps h with mws; the first in the list is the outermost.
func Apply(c *Command, h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](c, h)
	}
	return h
}

// CommandLogger logs every executed command after it finishes.
func CommandLogger(l zerolog.Logger) Middleware {
	return func(c *Command, next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msg Message, args string) error {
			start := time.Now()
			err := next(ctx, msg, args)

			ev := l.Info()
			if err != nil {
				ev = l.Warn().Err(err)
			}
			ev.Str("command", c.Name()).
				Str("guild", msg.GuildID()).
				Str("channel", msg.ChannelID()).
				Str("user", msg.AuthorName()).
				Str("user_id", msg.AuthorID()).
				Dur("took", time.Since(start)).
				Msg("Command executed")
			return err
		}
	}
}
