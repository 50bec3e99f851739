// Package utils provides shared utility functions for lockd.
//
// # Filesystem Utilities
//
//   - FindWorkspaceRoot: walks up directories to find a .lockd marker
//   - FormatPaths: formats file paths for human-readable output
//
// # System Utilities
//
//   - GetUsername: returns the current system username
//
// # I/O Utilities
//
//   - ReadStdin: reads piped note content from standard input
//
// # Terminal Utilities
//
//   - ReadPassphrase, ReadPassphraseFromTTY: hidden password prompts
//   - IsTerminal: checks if stdin is a terminal
//   - ClearScreen: clears the terminal, used by the shell's clear command
package utils
