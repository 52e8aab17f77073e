package types

import "context"

type Editor interface {
	/**
	 * AddNode places a new idle node of the given type on the canvas.
	 * It always succeeds and logs an info entry.
	 */
	AddNode(nodeType NodeTypeName, position Position) Node
	// RemoveNode also removes every edge touching the node.
	RemoveNode(id string)
	RemoveEdge(id string)
	ApplyNodeChanges(changes []NodeChange)
	ApplyEdgeChanges(changes []EdgeChange)

	/**
	 * Connect validates the candidate and inserts the edge when accepted.
	 * The result tells the caller whether to keep an optimistic edge drawing.
	 */
	Connect(c Connection) bool
	ValidateConnection(c Connection) error
	// ExecutionOrder returns nil when the pipeline can not be scheduled.
	ExecutionOrder() []string

	Snapshot() *Snapshot
	Logs() []LogEntry
	ExecutionState() ExecutionState

	// Execute runs the pipeline and returns when the run is over.
	Execute(ctx context.Context) error
	// Start submits a run in the background.
	Start(ctx context.Context) error
	Reset()

	RenderDOT() (string, error)
	RenderLastRun(ctx context.Context) (string, error)

	/**
	 * Close invalidates any in-flight run and waits for
	 * the background workers to stop.
	 */
	Close(ctx context.Context) error
}
