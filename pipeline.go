package pipeline

import (
	"github.com/juju/errors"
	"github.com/warriorguo/pipeline/runtime"
	"github.com/warriorguo/pipeline/store/mem"
	"github.com/warriorguo/pipeline/types"
)

// NewEditor creates an editing session with the given options. Run traces
// are kept in memory for the lifetime of the editor.
func NewEditor(opts ...types.EditorOption) (types.Editor, error) {
	options := types.NewEditorOptions()
	for _, opt := range opts {
		opt(options)
	}
	if err := options.Validate(); err != nil {
		return nil, errors.Annotatef(err, "invalid editor options")
	}
	return runtime.NewEditor(mem.NewMemStore(), options), nil
}

// BuildChain drops one node per type from left to right and connects each
// node to the next one. It returns the created nodes in order.
func BuildChain(editor types.Editor, nodeTypes ...types.NodeTypeName) ([]types.Node, error) {
	nodes := make([]types.Node, 0, len(nodeTypes))
	for i, nt := range nodeTypes {
		nodes = append(nodes, editor.AddNode(nt, types.Position{X: float64(100 + i*250), Y: 100}))
	}
	for i := 1; i < len(nodes); i++ {
		c := types.Connection{Source: nodes[i-1].ID, Target: nodes[i].ID}
		if err := editor.ValidateConnection(c); err != nil {
			return nodes, errors.Annotatef(err, "connect %s to %s", c.Source, c.Target)
		}
		editor.Connect(c)
	}
	return nodes, nil
}
