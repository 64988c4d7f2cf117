package cmd

import (
	"context"
	"strings"
)

const helpTitle = "Help Message"

// Summary is the public view of a command handed to custom help renderers.
type Summary struct {
	Aliases     []string
	Description string
}

// HelpRenderer replaces the default help output. It receives every registered
// command in registration order and the message that asked for help.
type HelpRenderer func(ctx context.Context, commands []Summary, msg Message) error

func (d *Dispatcher) helpCommand() *Command {
	return MustNew(Options{
		Aliases:     []string{"help"},
		Description: "Help Command",
		Run:         d.runHelp,
	})
}

func (d *Dispatcher) runHelp(ctx context.Context, msg Message, args string) error {
	commands := d.registry.List()
	summaries := make([]Summary, len(commands))
	for i, c := range commands {
		summaries[i] = c.summary()
	}

	if d.cfg.HelpRenderer != nil {
		return d.cfg.HelpRenderer(ctx, summaries, msg)
	}
	return msg.Reply(ctx, RenderHelp(summaries, args))
}

// RenderHelp builds the default help reply. A non-empty query naming a known
// alias yields that command's detail; anything else yields the full listing.
func RenderHelp(commands []Summary, query string) Reply {
	if q := strings.TrimSpace(query); q != "" {
		name := strings.ToLower(strings.Fields(q)[0])
		for _, c := range commands {
			for _, a := range c.Aliases {
				if a == name {
					return Embed(helpTitle,
						Field{Name: "Aliases", Value: strings.Join(c.Aliases, ", ")},
						Field{Name: "Description", Value: c.Description},
					)
				}
			}
		}
	}

	fields := make([]Field, 0, len(commands))
	for _, c := range commands {
		fields = append(fields, Field{Name: c.Aliases[0], Value: c.Description})
	}
	return Embed(helpTitle, fields...)
}
