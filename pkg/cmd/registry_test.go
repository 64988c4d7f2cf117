package cmd

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func noop(context.Context, Message, string) error { return nil }

func TestNewNormalizesAliases(t *testing.T) {
	c, err := New(Options{Aliases: []string{"Ping", "PING", " pong "}, Run: noop})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := c.Aliases(); !slices.Equal(got, []string{"ping", "pong"}) {
		t.Fatalf("unexpected aliases %v", got)
	}
	if c.Name() != "ping" {
		t.Fatalf("expected primary alias ping, got %q", c.Name())
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"no aliases", Options{Run: noop}, ErrNoAliases},
		{"blank aliases", Options{Aliases: []string{"", "  "}, Run: noop}, ErrNoAliases},
		{"nil handler", Options{Aliases: []string{"x"}}, ErrNilHandler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCommandAccessorsReturnCopies(t *testing.T) {
	c := MustNew(Options{Aliases: []string{"a"}, Authorizations: []Authorization{"ADMIN"}, Run: noop})

	c.Aliases()[0] = "mutated"
	c.Authorizations()[0] = "mutated"

	if c.Name() != "a" || c.Authorizations()[0] != "ADMIN" {
		t.Fatal("command should be immutable through its accessors")
	}
}

func TestRegistryFindIsCaseInsensitiveByNormalization(t *testing.T) {
	r := NewRegistry()
	c := MustNew(Options{Aliases: []string{"Ping", "PING"}, Run: noop})
	if err := r.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}

	found := r.Find("ping")
	if len(found) != 1 || found[0] != c {
		t.Fatalf("expected to find the ping command, got %v", found)
	}
	if len(r.Find("PING")) != 0 {
		t.Fatal("Find expects a lower-cased token")
	}
}

func TestRegistryFindReturnsEverySharedAlias(t *testing.T) {
	r := NewRegistry()
	first := MustNew(Options{Aliases: []string{"dup", "one"}, Run: noop})
	second := MustNew(Options{Aliases: []string{"two", "dup"}, Run: noop})
	_ = r.Register(first)
	_ = r.Register(second)

	found := r.Find("dup")
	if len(found) != 2 || found[0] != first || found[1] != second {
		t.Fatalf("expected both commands in registration order, got %v", found)
	}
	if len(r.Find("missing")) != 0 {
		t.Fatal("expected no match")
	}
}

func TestRegistryListKeepsOrder(t *testing.T) {
	r := NewRegistry()
	names := []string{"c", "a", "b"}
	for _, n := range names {
		_ = r.Register(MustNew(Options{Aliases: []string{n}, Run: noop}))
	}

	list := r.List()
	for i, c := range list {
		if c.Name() != names[i] {
			t.Fatalf("position %d: expected %q, got %q", i, names[i], c.Name())
		}
	}

	list[0] = nil
	if r.List()[0] == nil {
		t.Fatal("List should return a copy")
	}
}

func TestRegistryStrictAliases(t *testing.T) {
	r := NewRegistry(WithStrictAliases())
	if err := r.Register(MustNew(Options{Aliases: []string{"remind"}, Run: noop})); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := r.Register(MustNew(Options{Aliases: []string{"other", "remind"}, Run: noop}))
	if !errors.Is(err, ErrAliasTaken) {
		t.Fatalf("expected ErrAliasTaken, got %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("rejected command must not be stored, len=%d", r.Len())
	}
}

func TestRegistryRejectsNil(t *testing.T) {
	if err := NewRegistry().Register(nil); !errors.Is(err, ErrNilCommand) {
		t.Fatalf("expected ErrNilCommand, got %v", err)
	}
}
