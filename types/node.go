package types

import "time"

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Node struct {
	ID       string       `json:"id"`
	NodeType NodeTypeName `json:"nodeType"`
	Label    string       `json:"label"`
	Status   NodeStatus   `json:"status"`
	Position Position     `json:"position"`
	Selected bool         `json:"selected,omitempty"`
}

// NodeTypeData is one entry of the node-type catalog.
type NodeTypeData struct {
	ID   string       `json:"id"`
	Name NodeTypeName `json:"name"`
}

// NodeTraceRecord describes what happened to one node during the last run.
type NodeTraceRecord struct {
	NodeID     string
	Label      string
	NodeType   NodeTypeName
	Generation uint64
	StartTime  time.Time
	EndTime    time.Time
	Status     NodeStatus
	Error      string `json:",omitempty"`
}

// FailureFunc decides whether processing of a node fails.
type FailureFunc func(node Node) bool
