package graph

import "fmt"

// EventKind is the type of an interaction event reported by a renderer
type EventKind string

const (
	EventNodeClick   EventKind = "nodeClick"
	EventNodeHover   EventKind = "nodeHover"
	EventCanvasClick EventKind = "canvasClick"
	EventStabilized  EventKind = "stabilized"
)

// Event is an interaction reported by a renderer. NodeID is empty for
// canvasClick, stabilized and a hover that left every node.
type Event struct {
	Kind   EventKind
	NodeID NodeID
}

// ParseEventKind validates the transport form of an event kind
func ParseEventKind(s string) (EventKind, error) {
	switch k := EventKind(s); k {
	case EventNodeClick, EventNodeHover, EventCanvasClick, EventStabilized:
		return k, nil
	default:
		return "", fmt.Errorf("unknown event kind: %s", s)
	}
}
