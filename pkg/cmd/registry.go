package cmd

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Registry stores commands in registration order. It does not perform dispatch;
// the Dispatcher looks commands up and invokes them. There is no removal.
type Registry struct {
	mu       sync.RWMutex
	commands []*Command
	strict   bool
	log      zerolog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for registration diagnostics.
func WithLogger(l zerolog.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

// WithStrictAliases makes Register reject a command whose alias is already owned
// by another command. Without it, shared aliases fan out to every owner.
func WithStrictAliases() RegistryOption {
	return func(r *Registry) { r.strict = true }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends a command. Usually called during startup.
func (r *Registry) Register(c *Command) error {
	if c == nil {
		return ErrNilCommand
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.strict {
		for _, a := range c.aliases {
			for _, existing := range r.commands {
				if existing.HasAlias(a) {
					return fmt.Errorf("%w: %q (owned by %q)", ErrAliasTaken, a, existing.Name())
				}
			}
		}
	}

	r.commands = append(r.commands, c)
	r.log.Debug().Str("command", c.Name()).Msg("Added command")
	return nil
}

// prepend puts c ahead of every registered command. Used for the built-in help.
func (r *Registry) prepend(c *Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands = append([]*Command{c}, r.commands...)
	r.log.Debug().Str("command", c.Name()).Msg("Added command")
}

// Find returns every command with the given alias, in registration order.
// token must already be lower-cased.
func (r *Registry) Find(token string) []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found []*Command
	for _, c := range r.commands {
		if c.HasAlias(token) {
			found = append(found, c)
		}
	}
	return found
}

// List returns all registered commands in registration order.
func (r *Registry) List() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Command, len(r.commands))
	copy(list, r.commands)
	return list
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}
