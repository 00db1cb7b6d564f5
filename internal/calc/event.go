package calc

import "fmt"

// EventKind names one of the accumulator operations.
type EventKind string

const (
	EventAppend    EventKind = "append"
	EventAppendRaw EventKind = "append_raw"
	EventBackspace EventKind = "backspace"
	EventClear     EventKind = "clear"
	EventEvaluate  EventKind = "evaluate"
	EventLoad      EventKind = "load"
)

// Event is one discrete input (a key press or button click).
// Token is only meaningful for the append kinds and load.
type Event struct {
	Kind  EventKind `json:"kind"`
	Token string    `json:"token,omitempty"`
}

func (e Event) String() string {
	if e.Token != "" {
		return fmt.Sprintf("%s(%s)", e.Kind, e.Token)
	}
	return string(e.Kind)
}

// Constructors for the common events.
func AppendEvent(tok string) Event    { return Event{Kind: EventAppend, Token: tok} }
func AppendRawEvent(tok string) Event { return Event{Kind: EventAppendRaw, Token: tok} }
func BackspaceEvent() Event           { return Event{Kind: EventBackspace} }
func ClearEvent() Event               { return Event{Kind: EventClear} }
func EvaluateEvent() Event            { return Event{Kind: EventEvaluate} }
func LoadEvent(buf string) Event      { return Event{Kind: EventLoad, Token: buf} }

// ParseEventKind validates a stored kind name.
func ParseEventKind(s string) (EventKind, error) {
	switch k := EventKind(s); k {
	case EventAppend, EventAppendRaw, EventBackspace, EventClear, EventEvaluate, EventLoad:
		return k, nil
	default:
		return "", fmt.Errorf("unknown event kind %q", s)
	}
}
