package tracking

// EventKind discriminates the two live feed payload shapes.
type EventKind int

const (
	EventLocation EventKind = iota + 1
	EventStatus
)

// Event is a single item on a task's live feed. Exactly one of Location or
// Status is meaningful, selected by Kind.
type Event struct {
	Kind     EventKind
	Location LocationWire
	Status   StatusWire
}

// NewLocationEvent wraps a location payload for the feed.
func NewLocationEvent(wire LocationWire) Event {
	return Event{Kind: EventLocation, Location: wire}
}

// NewStatusEvent wraps a status payload for the feed.
func NewStatusEvent(wire StatusWire) Event {
	return Event{Kind: EventStatus, Status: wire}
}
