package runtime

import (
	"github.com/warriorguo/pipeline/store"
	"github.com/warriorguo/pipeline/types"
)

// NewEditor wires one graph store and its execution controller. Run traces
// go to s.
func NewEditor(s store.Store, opts *types.EditorOptions) types.Editor {
	return newEditor(s, opts)
}

type editor struct {
	*GraphStore
	*Controller
}

func newEditor(s store.Store, opts *types.EditorOptions) *editor {
	graph := NewGraphStore(opts.Listeners...)
	if opts.Clock != nil {
		graph.now = opts.Clock
	}
	return &editor{
		GraphStore: graph,
		Controller: NewController(graph, s, opts),
	}
}
