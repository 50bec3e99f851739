package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders one kind of output. With colors it paints the text,
// without colors it wraps the text in a plain decoration.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments like fmt.Sprint.
func (f Formatter) Sprint(a ...any) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats like fmt.Sprintf.
func (f Formatter) Sprintf(format string, a ...any) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if colorDisabled() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline appends a newline unless s already ends with one.
func EnsureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// colorDisabled honours NO_COLOR (https://no-color.org/) and fatih/color's
// own terminal detection.
func colorDisabled() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return true
	}
	return color.NoColor
}

func newFormatter(prefix, suffix string, attrs ...color.Attribute) Formatter {
	return Formatter{color: color.New(attrs...), prefix: prefix, suffix: suffix}
}

// Formatters for command output and the workspace tree.
var (
	// Code is a command the user can run: `lockd open notes`.
	Code = newFormatter("`", "`", color.FgYellow)

	Path = newFormatter("", "", color.FgYellow)
	Flag = newFormatter("", "", color.FgYellow)

	Success = newFormatter("", "", color.FgGreen)
	Error   = newFormatter("", "", color.FgRed)
	Warning = newFormatter("", "", color.FgYellow)
	Info    = newFormatter("", "", color.FgCyan)

	// Highlight marks values the user typed or will need again, such as ids,
	// usernames and note titles.
	Highlight = newFormatter("'", "'", color.FgCyan)

	// Muted is secondary text, e.g. item ids after a tree entry.
	Muted = newFormatter("(", ")", color.FgHiBlack)

	// Folder and Note label workspace tree entries.
	Folder = newFormatter("", "/", color.FgBlue, color.Bold)
	Note   = newFormatter("", "", color.FgMagenta)
)
