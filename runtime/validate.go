package runtime

import (
	"github.com/warriorguo/pipeline/types"
)

// ValidateConnection checks a candidate edge against the current graph.
// Rules apply in order and the first failure wins:
//  1. no self loop
//  2. no duplicate (source, target) pair
//  3. target has no input yet
//  4. source has no output yet
//  5. target can not already reach source
//
// Endpoints that are not on the canvas are refused last.
func (g *GraphStore) ValidateConnection(c types.Connection) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.validateLocked(c)
}

func (g *GraphStore) validateLocked(c types.Connection) error {
	if c.Source == c.Target {
		return types.NewConnectionError(types.RejectSelfLoop, c)
	}
	for _, e := range g.edges {
		if e.Source == c.Source && e.Target == c.Target {
			return types.NewConnectionError(types.RejectDuplicate, c)
		}
	}
	for _, e := range g.edges {
		if e.Target == c.Target {
			return types.NewConnectionError(types.RejectTargetHasInput, c)
		}
	}
	for _, e := range g.edges {
		if e.Source == c.Source {
			return types.NewConnectionError(types.RejectSourceHasOutput, c)
		}
	}
	if g.reachableLocked(c.Target, c.Source) {
		return types.NewConnectionError(types.RejectCycle, c)
	}
	if _, exists := g.nodeIndex[c.Source]; !exists {
		return types.NewConnectionError(types.RejectUnknownNode, c)
	}
	if _, exists := g.nodeIndex[c.Target]; !exists {
		return types.NewConnectionError(types.RejectUnknownNode, c)
	}
	return nil
}

// reachableLocked walks existing edges depth first from `from`. The visited
// set keeps it linear even when several paths lead to the same node.
func (g *GraphStore) reachableLocked(from, to string) bool {
	successors := make(map[string][]string, len(g.edges))
	for _, e := range g.edges {
		successors[e.Source] = append(successors[e.Source], e.Target)
	}

	visited := make(map[string]bool)
	stack := []string{from}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current == to {
			return true
		}
		if visited[current] {
			continue
		}
		visited[current] = true
		stack = append(stack, successors[current]...)
	}
	return false
}
