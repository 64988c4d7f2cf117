package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v (stderr: %s)", err, errOut.String())
	}
	return out.String()
}

func TestConsoleSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.json")
	out := execute(t, "!ping\n!remind 10s\n!remind 2h water plants\n!reminders\n",
		"--storage-path", path, "--storage-driver", "json", "--log-level", "error")

	for _, want := range []string{
		"Pong!",
		":x: The time must be >30s",
		"Reminder set! I will remind you in ~**2 hours**",
		"== Your reminders ==",
		"water plants",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCustomPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.db")
	out := execute(t, "!ping\n?ping\n",
		"--prefix", "?", "--storage-path", path, "--storage-driver", "sqlite", "--log-level", "error")

	if strings.Count(out, "Pong!") != 1 {
		t.Fatalf("only the custom prefix should match, got:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	if out := execute(t, "", "version"); !strings.HasPrefix(out, "Remindme ") {
		t.Fatalf("unexpected version output %q", out)
	}
}
