package refgraph

// Validate checks that the graph is acyclic. On failure it returns a
// CyclicDependencyError naming the full cycle path in reference order.
// Validation always runs before resolution, so a cycle is reported before
// any node's output is substituted.
func (g *Graph) Validate() error {
	for _, comp := range stronglyConnected(g) {
		if len(comp) > 1 {
			return &CyclicDependencyError{Cycle: g.cyclePath(comp)}
		}
		v := comp[0]
		if _, self := g.downEdges[v][v]; self {
			return &CyclicDependencyError{Cycle: []string{v}}
		}
	}
	return nil
}

// cyclePath orders the members of a strongly connected component into an
// actual reference path, starting from the earliest-declared member and
// following edges inside the component.
func (g *Graph) cyclePath(comp []string) []string {
	inComp := make(map[string]bool, len(comp))
	start := comp[0]
	for _, v := range comp {
		inComp[v] = true
		if g.vertexIdx[v] < g.vertexIdx[start] {
			start = v
		}
	}

	path := []string{start}
	seen := map[string]int{start: 0}
	cur := start
	for {
		var targets []string
		for _, t := range g.DownEdges(cur) {
			if inComp[t] {
				targets = append(targets, t)
			}
		}

		// Prefer an unvisited member, then closing back to the start.
		next := ""
		for _, t := range targets {
			if _, dup := seen[t]; !dup {
				next = t
				break
			}
		}
		if next == "" {
			next = targets[0]
			for _, t := range targets {
				if t == start {
					next = t
					break
				}
			}
		}

		if next == start {
			return path
		}
		if at, dup := seen[next]; dup {
			return path[at:]
		}
		seen[next] = len(path)
		path = append(path, next)
		cur = next
	}
}

// TopologicalOrder returns the vertices ordered so that every node comes
// after all of its dependencies. Nodes with no ordering constraint between
// them keep their original declaration order, so the result is stable
// across runs. Fails with a CyclicDependencyError if the graph has a
// cycle.
func (g *Graph) TopologicalOrder() ([]string, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	order := make([]string, 0, len(g.vertices))
	visited := make(map[string]bool, len(g.vertices))

	var visit func(v string)
	visit = func(v string) {
		if visited[v] {
			return
		}
		visited[v] = true
		for _, dep := range g.DownEdges(v) {
			visit(dep)
		}
		order = append(order, v)
	}

	for _, v := range g.vertices {
		visit(v)
	}
	return order, nil
}
