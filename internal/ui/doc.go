// Package ui formats command output.
//
// Each Formatter names a kind of content rather than a color: Code for a
// command the user can run, Path for a file, Highlight for ids and titles,
// Folder and Note for workspace tree entries. With colors disabled, either
// through NO_COLOR or because stdout is not a terminal, formatters fall back
// to plain decorations: `code`, 'highlight', (muted) and folder/.
//
// RenderTree draws opened workspace items:
//
//	notes/
//	├── journal/
//	│   └── monday.lockd
//	└── todo.lockd
package ui
