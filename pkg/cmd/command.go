// Package cmd provides a transport-agnostic prefix command core: commands are
// plain records (aliases, description, required authorizations, handler) kept in
// an ordered registry, and a dispatcher turns inbound messages into handler calls.
// How messages arrive and how replies are delivered (Discord, console) is defined
// by adapters that implement Message.
package cmd

import (
	"context"
	"errors"
	"slices"
	"strings"
)

var (
	ErrNilCommand = errors.New("command is nil")
	ErrNoAliases  = errors.New("command needs at least one alias")
	ErrNilHandler = errors.New("command handler is nil")
	ErrAliasTaken = errors.New("alias already registered")
)

// Authorization is an opaque privilege token. Only the transport knows what it
// means; the core just asks Message.HasAuthorization about it.
type Authorization string

// HandlerFunc runs a command. args is the message text after the command word.
type HandlerFunc func(ctx context.Context, msg Message, args string) error

// Options describes a command at registration time.
type Options struct {
	Aliases        []string
	Description    string
	Authorizations []Authorization
	Run            HandlerFunc
}

// Command is an immutable registration record. Build it with New.
type Command struct {
	aliases        []string
	description    string
	authorizations []Authorization
	run            HandlerFunc
}

// New validates opts and returns a command with lower-cased, de-duplicated aliases.
func New(opts Options) (*Command, error) {
	aliases := make([]string, 0, len(opts.Aliases))
	for _, a := range opts.Aliases {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" || slices.Contains(aliases, a) {
			continue
		}
		aliases = append(aliases, a)
	}
	if len(aliases) == 0 {
		return nil, ErrNoAliases
	}
	if opts.Run == nil {
		return nil, ErrNilHandler
	}

	return &Command{
		aliases:        aliases,
		description:    opts.Description,
		authorizations: slices.Clone(opts.Authorizations),
		run:            opts.Run,
	}, nil
}

// MustNew is New for package-level command definitions; it panics on invalid options.
func MustNew(opts Options) *Command {
	c, err := New(opts)
	if err != nil {
		panic("cmd: " + err.Error())
	}
	return c
}

// Name returns the primary alias.
func (c *Command) Name() string { return c.aliases[0] }

func (c *Command) Aliases() []string { return slices.Clone(c.aliases) }

func (c *Command) Description() string { return c.description }

func (c *Command) Authorizations() []Authorization { return slices.Clone(c.authorizations) }

// HasAlias reports whether token routes to this command. token must be lower-case.
func (c *Command) HasAlias(token string) bool {
	return slices.Contains(c.aliases, token)
}

func (c *Command) summary() Summary {
	return Summary{Aliases: c.Aliases(), Description: c.description}
}
