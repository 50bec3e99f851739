package ui

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

// forceColor enables ANSI output for the duration of a test.
func forceColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = orig })
}

func TestFormatters_PlainDecorations(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name string
		f    Formatter
		in   string
		want string
	}{
		{"code", Code, "lockd open notes", "`lockd open notes`"},
		{"path", Path, "notes/todo.lockd", "notes/todo.lockd"},
		{"flag", Flag, "--dry-run", "--dry-run"},
		{"success", Success, "✓", "✓"},
		{"error", Error, "✗", "✗"},
		{"warning", Warning, "⚠", "⚠"},
		{"info", Info, "→", "→"},
		{"highlight", Highlight, "alice", "'alice'"},
		{"muted", Muted, "3f2a", "(3f2a)"},
		{"folder", Folder, "journal", "journal/"},
		{"note", Note, "todo.lockd", "todo.lockd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Sprint(tt.in); got != tt.want {
				t.Errorf("Sprint(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatters_Colored(t *testing.T) {
	forceColor(t)

	got := Highlight.Sprintf("user: %s", "alice")
	if strings.Contains(got, "'") {
		t.Errorf("Expected no quotes with colors enabled, got %q", got)
	}
	if !strings.Contains(got, "\x1b[") || !strings.Contains(got, "user: alice") {
		t.Errorf("Expected colored text, got %q", got)
	}

	if got := Folder.Sprint("journal"); strings.HasSuffix(got, "/") {
		t.Errorf("Expected no trailing slash with colors enabled, got %q", got)
	}
}

func TestFormatters_NoColorWins(t *testing.T) {
	forceColor(t)
	t.Setenv("NO_COLOR", "")

	if got := Code.Sprint("lockd", " ", "shell"); got != "`lockd shell`" {
		t.Errorf("Expected plain decoration when NO_COLOR is set, got %q", got)
	}
}

func TestEnsureNewline(t *testing.T) {
	for in, want := range map[string]string{
		"":           "\n",
		"line":       "line\n",
		"line\n":     "line\n",
		"two\nlines": "two\nlines\n",
	} {
		if got := EnsureNewline(in); got != want {
			t.Errorf("EnsureNewline(%q) = %q, want %q", in, got, want)
		}
	}
}
