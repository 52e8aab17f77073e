package runtime

// ExecutionOrder returns the node ids in topological order using Kahn's
// algorithm, or nil when there is nothing to run or when not every node can
// be ordered.
//
// Ties between ready nodes follow node insertion order, successors follow
// edge insertion order. The result is stable for a given history but not
// sorted by any visible key.
func (g *GraphStore) ExecutionOrder() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(g.nodes) == 0 {
		return nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	adjacency := make(map[string][]string, len(g.nodes))
	for _, n := range g.nodes {
		inDegree[n.ID] = 0
	}
	for _, e := range g.edges {
		_, sourceExists := inDegree[e.Source]
		_, targetExists := inDegree[e.Target]
		if !sourceExists || !targetExists {
			continue
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		inDegree[e.Target]++
	}

	queue := make([]string, 0, len(g.nodes))
	for _, n := range g.nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		for _, next := range adjacency[current] {
			if inDegree[next]--; inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil
	}
	return order
}
