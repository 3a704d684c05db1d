// Package refgraph derives the dependency graph between resource nodes
// from the token references in their inputs. The graph is never stored:
// it is recomputed as a pure function of a finished construct tree, which
// keeps it trivially testable and immune to partially-built state.
package refgraph

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Graph is a directed graph over resource node ids. An edge A -> B means
// node A's inputs reference a token owned by B, so B must be provisioned
// before A. Vertices remember declaration order, which is used as the
// tie-break wherever the graph itself imposes no ordering.
type Graph struct {
	vertices  []string
	vertexIdx map[string]int
	downEdges map[string]map[string]struct{}
	upEdges   map[string]map[string]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		vertexIdx: make(map[string]int),
		downEdges: make(map[string]map[string]struct{}),
		upEdges:   make(map[string]map[string]struct{}),
	}
}

// Add adds a vertex. Adding the same vertex twice is a no-op.
func (g *Graph) Add(v string) {
	if _, ok := g.vertexIdx[v]; ok {
		return
	}
	g.vertexIdx[v] = len(g.vertices)
	g.vertices = append(g.vertices, v)
}

// HasVertex reports whether v is present.
func (g *Graph) HasVertex(v string) bool {
	_, ok := g.vertexIdx[v]
	return ok
}

// Connect adds the edge from -> to. Duplicate edges collapse; the graph
// never holds multi-edges.
func (g *Graph) Connect(from, to string) {
	if s, ok := g.downEdges[from]; ok {
		if _, dup := s[to]; dup {
			return
		}
	} else {
		g.downEdges[from] = make(map[string]struct{})
	}
	g.downEdges[from][to] = struct{}{}

	if _, ok := g.upEdges[to]; !ok {
		g.upEdges[to] = make(map[string]struct{})
	}
	g.upEdges[to][from] = struct{}{}
}

// Vertices returns all vertices in declaration order.
func (g *Graph) Vertices() []string {
	return g.vertices
}

// DownEdges returns the targets of v's outgoing edges (its dependencies),
// ordered by the targets' declaration order.
func (g *Graph) DownEdges(v string) []string {
	return g.sorted(g.downEdges[v])
}

// UpEdges returns the sources of v's incoming edges (its dependents),
// ordered by the sources' declaration order.
func (g *Graph) UpEdges(v string) []string {
	return g.sorted(g.upEdges[v])
}

// EdgeCount returns the total number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, s := range g.downEdges {
		n += len(s)
	}
	return n
}

func (g *Graph) sorted(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return g.vertexIdx[out[i]] < g.vertexIdx[out[j]]
	})
	return out
}

// String renders the graph in a human-friendly form, one vertex per line
// with its dependencies indented beneath it. Output is deterministic.
func (g *Graph) String() string {
	var buf bytes.Buffer
	for _, v := range g.vertices {
		buf.WriteString(fmt.Sprintf("%s\n", v))
		for _, dep := range g.DownEdges(v) {
			buf.WriteString(fmt.Sprintf("  %s\n", dep))
		}
	}
	return buf.String()
}

// CyclicDependencyError reports a reference cycle between resource nodes.
// Cycle holds the full path in order, with the first node repeated at the
// end for readability in the message but not in the slice.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency: %s -> %s",
		strings.Join(e.Cycle, " -> "), e.Cycle[0])
}
