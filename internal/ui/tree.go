package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/PolarWolf314/lockd/internal/workspace"
)

// TreeOptions controls RenderTree.
type TreeOptions struct {
	// ShowIDs appends each item's id.
	ShowIDs bool
}

// RenderTree writes the opened items as an indented tree.
func RenderTree(w io.Writer, roots []workspace.Item, opts TreeOptions) error {
	var b strings.Builder
	for i := range roots {
		b.WriteString(itemLabel(&roots[i], opts))
		b.WriteString("\n")
		renderChildren(&b, roots[i].Children, "", opts)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderChildren(b *strings.Builder, children []*workspace.Item, prefix string, opts TreeOptions) {
	for i, child := range children {
		connector, next := "├── ", "│   "
		if i == len(children)-1 {
			connector, next = "└── ", "    "
		}
		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(itemLabel(child, opts))
		b.WriteString("\n")
		renderChildren(b, child.Children, prefix+next, opts)
	}
}

func itemLabel(it *workspace.Item, opts TreeOptions) string {
	var label string
	switch {
	case it.IsDirectory:
		label = Folder.Sprint(it.Name)
	case it.IsNote:
		label = Note.Sprint(it.Name)
	default:
		label = it.Name
	}
	if opts.ShowIDs {
		label = fmt.Sprintf("%s %s", label, Muted.Sprint(it.ID))
	}
	return label
}
