// Package events defines the notifications a Session emits after each
// operation completes.
//
// A Sink receives events synchronously, after the Session has released its
// lock, so a sink may call back into the Session. Sinks include the shell's
// status printer and the audit log.
package events
