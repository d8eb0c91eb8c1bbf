package graph

// NodeFilter is a function type used to filter nodes in queries
type NodeFilter func(node *Node) bool

// Neighbors returns the ids directly connected to id, in edge insertion order.
func (g *Graph) Neighbors(id int) []int {
	var result []int
	for _, e := range g.edges {
		switch id {
		case e.Source:
			result = append(result, e.Target)
		case e.Target:
			result = append(result, e.Source)
		}
	}
	return result
}

// Reachable returns the set of node ids reachable from the given id over the
// undirected edge set, including the id itself. An unknown id yields an empty set.
func (g *Graph) Reachable(from int) map[int]bool {
	seen := make(map[int]bool)
	if !g.HasNode(from) {
		return seen
	}

	adj := make(map[int][]int, len(g.order))
	for _, e := range g.edges {
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}

	queue := []int{from}
	seen[from] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

// FilterNodes returns nodes that match the provided filter function
func (g *Graph) FilterNodes(filter NodeFilter) []*Node {
	var result []*Node
	for _, n := range g.order {
		if filter(n) {
			result = append(result, n)
		}
	}
	return result
}
