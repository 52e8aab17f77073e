package types

type Edge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Selected bool   `json:"selected,omitempty"`
}

// Connection is a candidate edge, not yet validated.
type Connection struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type ChangeType string

const (
	ChangePosition ChangeType = "position"
	ChangeSelect   ChangeType = "select"
	ChangeRemove   ChangeType = "remove"
)

// NodeChange is an incremental delta coming from the canvas.
type NodeChange struct {
	Type     ChangeType `json:"type"`
	ID       string     `json:"id"`
	Position *Position  `json:"position,omitempty"`
	Selected bool       `json:"selected,omitempty"`
}

type EdgeChange struct {
	Type     ChangeType `json:"type"`
	ID       string     `json:"id"`
	Selected bool       `json:"selected,omitempty"`
}

// Snapshot is a consistent copy of the whole pipeline state.
type Snapshot struct {
	Nodes          []Node         `json:"nodes"`
	Edges          []Edge         `json:"edges"`
	Logs           []LogEntry     `json:"logs"`
	ExecutionState ExecutionState `json:"executionState"`
}
