package types

import (
	"strings"

	"github.com/juju/errors"
)

// NodeTypeName is the palette entry a node was created from.
type NodeTypeName string

const (
	DataSource  NodeTypeName = "Data Source"
	Transformer NodeTypeName = "Transformer"
	Model       NodeTypeName = "Model"
	Sink        NodeTypeName = "Sink"
)

// AllNodeTypes returns the node types in palette order.
func AllNodeTypes() []NodeTypeName {
	return []NodeTypeName{DataSource, Transformer, Model, Sink}
}

func ParseNodeTypeName(s string) (NodeTypeName, error) {
	for _, typ := range AllNodeTypes() {
		if string(typ) == s {
			return typ, nil
		}
	}
	return "", errors.BadRequestf("unknown node type: %q", s)
}

// InstancePrefix is the lowercase type name with spaces removed, used to build node ids.
func (n NodeTypeName) InstancePrefix() string {
	return strings.ToLower(strings.ReplaceAll(string(n), " ", ""))
}

type NodeStatus string

const (
	NodeIdle      NodeStatus = "idle"
	NodeRunning   NodeStatus = "running"
	NodeCompleted NodeStatus = "completed"
	NodeError     NodeStatus = "error"
)

type ExecutionState string

const (
	ExecutionIdle      ExecutionState = "idle"
	ExecutionRunning   ExecutionState = "running"
	ExecutionCompleted ExecutionState = "completed"
	ExecutionError     ExecutionState = "error"
)

type LogType string

const (
	LogInfo    LogType = "info"
	LogSuccess LogType = "success"
	LogError   LogType = "error"
	LogWarning LogType = "warning"
)
