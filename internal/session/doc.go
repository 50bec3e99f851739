// Package session owns the state of one lockd workspace session: the derived
// key and the tree of opened items.
//
// Every operation runs under a single mutex, so tree mutations are totally
// ordered and no caller ever sees the tree and its id index disagree. Folder
// walks run synchronously under that lock; callers that need to stay
// responsive should call them from their own goroutine.
//
// Operations report their outcome to an events.Sink after the lock is
// released. Failures are returned to the caller and also emitted as an
// "error" event.
//
// The key never leaves the session. It is copied into the envelope functions
// for the duration of one call and wiped on Lock and Reset.
package session
