package dag

import "sort"

// TopologicalOrder returns the graph's nodes in dependency order: every
// node appears after all of the nodes it depends on. Among the nodes that
// are ready at any point, the one with the lexically smallest ID is taken
// first, so the order is stable across runs.
//
// The graph must be acyclic; Build validates that before handing a Graph
// to callers.
func (g *Graph) TopologicalOrder() []*Node {
	remaining := make(map[string]int, len(g.Nodes))
	var ready []string
	for id, n := range g.Nodes {
		remaining[id] = len(n.Deps)
		if len(n.Deps) == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]*Node, 0, len(g.Nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		n := g.Nodes[id]
		order = append(order, n)

		unlocked := false
		for depID := range n.Dependents {
			remaining[depID]--
			if remaining[depID] == 0 {
				ready = append(ready, depID)
				unlocked = true
			}
		}
		if unlocked {
			sort.Strings(ready)
		}
	}
	return order
}
