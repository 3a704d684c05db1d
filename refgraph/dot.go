package refgraph

import (
	"bytes"
	"fmt"
)

// Dot renders the graph in GraphViz DOT form, suitable for piping into
// `dot -Tsvg`. Vertices and edges are written in declaration order so the
// output diffs cleanly between runs.
func (g *Graph) Dot() []byte {
	var buf bytes.Buffer
	buf.WriteString("digraph {\n")
	buf.WriteString("\tcompound = \"true\"\n")
	buf.WriteString("\trankdir = \"RL\"\n")
	for _, v := range g.vertices {
		fmt.Fprintf(&buf, "\t%q\n", v)
	}
	for _, v := range g.vertices {
		for _, dep := range g.DownEdges(v) {
			fmt.Fprintf(&buf, "\t%q -> %q\n", v, dep)
		}
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}
