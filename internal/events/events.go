package events

import "time"

// Event names surfaced to the user.
const (
	NoteOpened    = "note-opened"
	ItemOpened    = "item-opened"
	ItemClosed    = "item-closed"
	NoteRenamed   = "note-renamed"
	ItemRefreshed = "item-refreshed"
	Error         = "error"
)

// Event describes the result of one operation.
type Event struct {
	Name     string    `json:"name"`
	ID       string    `json:"id,omitempty"`
	ParentID string    `json:"parent_id,omitempty"`
	Path     string    `json:"path,omitempty"`
	Title    string    `json:"title,omitempty"`
	Message  string    `json:"message,omitempty"`
	Time     time.Time `json:"time"`

	// Content is the decrypted note body for note-opened. Sinks that
	// persist events must not write it.
	Content string `json:"-"`
}

// Sink receives events.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

// Emit calls f(ev).
func (f SinkFunc) Emit(ev Event) { f(ev) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Multi fans an event out to every sink in order. Nil sinks are skipped.
func Multi(sinks ...Sink) Sink {
	var kept []Sink
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return SinkFunc(func(ev Event) {
		for _, s := range kept {
			s.Emit(ev)
		}
	})
}
