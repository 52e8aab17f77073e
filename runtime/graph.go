package runtime

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/pipeline/types"
	"github.com/warriorguo/pipeline/utils"
)

// GraphStore owns the canonical nodes, edges, log sequence and execution state
// of one editing session.
//
// Every mutation runs under mu and produces events which are delivered to the
// listeners after mu is released. notifyMu serializes mutation + delivery so
// listeners observe events in mutation order.
type GraphStore struct {
	notifyMu sync.Mutex
	mu       sync.RWMutex

	nodes     []*types.Node
	nodeIndex map[string]*types.Node
	edges     []*types.Edge

	logs           []types.LogEntry
	lastLogTime    time.Time
	executionState types.ExecutionState

	// never decremented, ids are not reused after removal
	nodeCounter int

	now       func() time.Time
	listeners []types.Listener
}

func NewGraphStore(listeners ...types.Listener) *GraphStore {
	return &GraphStore{
		nodeIndex:      make(map[string]*types.Node),
		executionState: types.ExecutionIdle,
		now:            time.Now,
		listeners:      listeners,
	}
}

type eventBuffer struct {
	events []*types.Event
}

func (b *eventBuffer) add(e *types.Event) {
	b.events = append(b.events, e)
}

func (g *GraphStore) mutate(fn func(buf *eventBuffer)) {
	g.notifyMu.Lock()
	defer g.notifyMu.Unlock()

	g.emit(g.collect(fn))
}

func (g *GraphStore) collect(fn func(buf *eventBuffer)) []*types.Event {
	g.mu.Lock()
	defer g.mu.Unlock()

	buf := &eventBuffer{}
	fn(buf)
	return buf.events
}

func (g *GraphStore) emit(events []*types.Event) {
	for _, e := range events {
		if e.Time.IsZero() {
			e.Time = g.now()
		}
		for _, l := range g.listeners {
			l.OnEvent(e)
		}
	}
}

func (g *GraphStore) AddNode(nodeType types.NodeTypeName, position types.Position) types.Node {
	var node types.Node
	g.mutate(func(buf *eventBuffer) {
		g.nodeCounter++
		node = types.Node{
			ID:       fmt.Sprintf("%s-%d", nodeType.InstancePrefix(), g.nodeCounter),
			NodeType: nodeType,
			Label:    fmt.Sprintf("%s %d", nodeType, g.nodeCounter),
			Status:   types.NodeIdle,
			Position: position,
		}
		n := node
		g.nodes = append(g.nodes, &n)
		g.nodeIndex[n.ID] = &n

		buf.add(&types.Event{Type: types.EventGraphChanged, NodeID: n.ID, NodeType: nodeType})
		g.appendLogLocked(buf, fmt.Sprintf("Added %q node to canvas", string(nodeType)), "", types.LogInfo)
	})
	log.Debugf("added node %s", node.ID)
	return node
}

func (g *GraphStore) RemoveNode(id string) {
	g.mutate(func(buf *eventBuffer) {
		g.removeNodeLocked(buf, id)
	})
}

func (g *GraphStore) removeNodeLocked(buf *eventBuffer, id string) bool {
	node, exists := g.nodeIndex[id]
	if !exists {
		return false
	}
	delete(g.nodeIndex, id)
	g.nodes = utils.Filter(g.nodes, func(n *types.Node) bool { return n.ID != id })
	g.edges = utils.Filter(g.edges, func(e *types.Edge) bool { return e.Source != id && e.Target != id })

	buf.add(&types.Event{Type: types.EventGraphChanged, NodeID: id, NodeType: node.NodeType})
	return true
}

func (g *GraphStore) RemoveEdge(id string) {
	g.mutate(func(buf *eventBuffer) {
		g.removeEdgeLocked(buf, id)
	})
}

func (g *GraphStore) removeEdgeLocked(buf *eventBuffer, id string) bool {
	if utils.IndexOf(g.edges, func(e *types.Edge) bool { return e.ID == id }) < 0 {
		return false
	}
	g.edges = utils.Filter(g.edges, func(e *types.Edge) bool { return e.ID != id })
	buf.add(&types.Event{Type: types.EventGraphChanged})
	return true
}

// ApplyNodeChanges applies canvas deltas. Removals cascade like RemoveNode,
// unknown ids are skipped.
func (g *GraphStore) ApplyNodeChanges(changes []types.NodeChange) {
	g.mutate(func(buf *eventBuffer) {
		changed := false
		for _, change := range changes {
			if change.Type == types.ChangeRemove {
				g.removeNodeLocked(buf, change.ID)
				continue
			}
			node, exists := g.nodeIndex[change.ID]
			if !exists {
				continue
			}
			switch change.Type {
			case types.ChangePosition:
				if change.Position != nil {
					node.Position = *change.Position
					changed = true
				}
			case types.ChangeSelect:
				node.Selected = change.Selected
				changed = true
			default:
				log.Warnf("ignore node change %q on %s", change.Type, change.ID)
			}
		}
		if changed {
			buf.add(&types.Event{Type: types.EventGraphChanged})
		}
	})
}

func (g *GraphStore) ApplyEdgeChanges(changes []types.EdgeChange) {
	g.mutate(func(buf *eventBuffer) {
		changed := false
		for _, change := range changes {
			switch change.Type {
			case types.ChangeRemove:
				g.removeEdgeLocked(buf, change.ID)
			case types.ChangeSelect:
				idx := utils.IndexOf(g.edges, func(e *types.Edge) bool { return e.ID == change.ID })
				if idx < 0 {
					continue
				}
				g.edges[idx].Selected = change.Selected
				changed = true
			default:
				log.Warnf("ignore edge change %q on %s", change.Type, change.ID)
			}
		}
		if changed {
			buf.add(&types.Event{Type: types.EventGraphChanged})
		}
	})
}

func edgeID(c types.Connection) string {
	return "e-" + c.Source + "-" + c.Target
}

// Connect inserts the edge when it passes validation. A rejection is logged
// with its reason and leaves the graph untouched.
func (g *GraphStore) Connect(c types.Connection) bool {
	accepted := false
	g.mutate(func(buf *eventBuffer) {
		if err := g.validateLocked(c); err != nil {
			reason, _ := types.RejectReasonOf(err)
			buf.add(&types.Event{Type: types.EventConnectionRejected, Reason: reason})
			g.appendLogLocked(buf, err.Error(), "", types.LogError)
			return
		}
		g.edges = append(g.edges, &types.Edge{ID: edgeID(c), Source: c.Source, Target: c.Target})
		buf.add(&types.Event{Type: types.EventGraphChanged})
		g.appendLogLocked(buf, "Connected nodes successfully", "", types.LogInfo)
		accepted = true
	})
	return accepted
}

func (g *GraphStore) SetNodeStatus(id string, status types.NodeStatus) {
	g.mutate(func(buf *eventBuffer) {
		node, exists := g.nodeIndex[id]
		if !exists {
			return
		}
		node.Status = status
		buf.add(&types.Event{Type: types.EventNodeStatus, NodeID: id, NodeType: node.NodeType, Status: status})
	})
}

func (g *GraphStore) ResetAllNodeStatus() {
	g.mutate(func(buf *eventBuffer) {
		for _, node := range g.nodes {
			if node.Status == types.NodeIdle {
				continue
			}
			node.Status = types.NodeIdle
			buf.add(&types.Event{Type: types.EventNodeStatus, NodeID: node.ID, NodeType: node.NodeType, Status: types.NodeIdle})
		}
	})
}

// AddLog stamps id and timestamp on a new entry and appends it.
func (g *GraphStore) AddLog(message, nodeID string, logType types.LogType) types.LogEntry {
	var entry types.LogEntry
	g.mutate(func(buf *eventBuffer) {
		entry = g.appendLogLocked(buf, message, nodeID, logType)
	})
	return entry
}

func (g *GraphStore) appendLogLocked(buf *eventBuffer, message, nodeID string, logType types.LogType) types.LogEntry {
	ts := g.now()
	if ts.Before(g.lastLogTime) {
		ts = g.lastLogTime
	}
	g.lastLogTime = ts

	entry := types.LogEntry{
		ID:        "log-" + uuid.NewString(),
		Timestamp: ts,
		Message:   message,
		NodeID:    nodeID,
		Type:      logType,
	}
	g.logs = append(g.logs, entry)

	e := entry
	buf.add(&types.Event{Type: types.EventLogAppended, Time: ts, Log: &e, NodeID: nodeID})
	return entry
}

func (g *GraphStore) ClearLogs() {
	g.mutate(func(buf *eventBuffer) {
		g.logs = nil
		buf.add(&types.Event{Type: types.EventLogsCleared})
	})
}

func (g *GraphStore) SetExecutionState(state types.ExecutionState) {
	g.mutate(func(buf *eventBuffer) {
		g.executionState = state
		buf.add(&types.Event{Type: types.EventExecutionState, State: state})
	})
}

func (g *GraphStore) ExecutionState() types.ExecutionState {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.executionState
}

func (g *GraphStore) Node(id string) (types.Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, exists := g.nodeIndex[id]
	if !exists {
		return types.Node{}, false
	}
	return *node, true
}

func (g *GraphStore) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

func (g *GraphStore) Nodes() []types.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.nodesLocked()
}

func (g *GraphStore) nodesLocked() []types.Node {
	nodes := make([]types.Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, *n)
	}
	return nodes
}

func (g *GraphStore) Edges() []types.Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.edgesLocked()
}

func (g *GraphStore) edgesLocked() []types.Edge {
	edges := make([]types.Edge, 0, len(g.edges))
	for _, e := range g.edges {
		edges = append(edges, *e)
	}
	return edges
}

func (g *GraphStore) Logs() []types.LogEntry {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return utils.Clone(g.logs)
}

func (g *GraphStore) Snapshot() *types.Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return &types.Snapshot{
		Nodes:          g.nodesLocked(),
		Edges:          g.edgesLocked(),
		Logs:           utils.Clone(g.logs),
		ExecutionState: g.executionState,
	}
}
