package runtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warriorguo/pipeline/store/mem"
	"github.com/warriorguo/pipeline/types"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []*types.Event
}

func (r *eventRecorder) OnEvent(e *types.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) byType(t types.EventType) []*types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*types.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func newOptions(opts ...types.EditorOption) *types.EditorOptions {
	options := types.NewEditorOptions()
	options.ProcessingDelay = 0
	options.FailureFunc = func(types.Node) bool { return false }
	for _, opt := range opts {
		opt(options)
	}
	return options
}

func newTestEditor(t *testing.T, opts ...types.EditorOption) *editor {
	e := newEditor(mem.NewMemStore(), newOptions(opts...))
	t.Cleanup(func() {
		assert.Nil(t, e.Close(contextWithTimeout(t, time.Second)))
	})
	return e
}

// chain adds one node per type and connects them in order.
func chain(t *testing.T, g *GraphStore, nodeTypes ...types.NodeTypeName) []types.Node {
	nodes := make([]types.Node, 0, len(nodeTypes))
	for i, nt := range nodeTypes {
		nodes = append(nodes, g.AddNode(nt, types.Position{X: float64(i * 200), Y: 100}))
	}
	for i := 1; i < len(nodes); i++ {
		require.True(t, g.Connect(types.Connection{Source: nodes[i-1].ID, Target: nodes[i].ID}))
	}
	return nodes
}

func messages(logs []types.LogEntry) []string {
	out := make([]string, 0, len(logs))
	for _, l := range logs {
		out = append(out, l.Message)
	}
	return out
}

func statuses(g *GraphStore) map[string]types.NodeStatus {
	out := make(map[string]types.NodeStatus)
	for _, n := range g.Nodes() {
		out[n.ID] = n.Status
	}
	return out
}

func contextWithTimeout(t *testing.T, d time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}
