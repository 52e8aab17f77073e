package types

import "time"

type EventType string

const (
	EventLogAppended        EventType = "log_appended"
	EventLogsCleared        EventType = "logs_cleared"
	EventNodeStatus         EventType = "node_status"
	EventExecutionState     EventType = "execution_state"
	EventGraphChanged       EventType = "graph_changed"
	EventConnectionRejected EventType = "connection_rejected"
)

// Event is emitted by the graph store after every observable change.
type Event struct {
	Type     EventType      `json:"type"`
	Time     time.Time      `json:"time"`
	Log      *LogEntry      `json:"log,omitempty"`
	NodeID   string         `json:"nodeId,omitempty"`
	NodeType NodeTypeName   `json:"nodeType,omitempty"`
	Status   NodeStatus     `json:"status,omitempty"`
	State    ExecutionState `json:"state,omitempty"`
	Reason   RejectReason   `json:"reason,omitempty"`
}

// Listener observes store events. OnEvent is called synchronously and in order,
// so implementations must not call back into the store.
type Listener interface {
	OnEvent(e *Event)
}

type ListenerFunc func(e *Event)

func (f ListenerFunc) OnEvent(e *Event) {
	f(e)
}
