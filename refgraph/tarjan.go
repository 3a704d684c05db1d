package refgraph

// stronglyConnected returns the strongly connected components of g using
// Tarjan's algorithm. Components are used for cycle detection: any
// component with more than one member is a reference cycle.
func stronglyConnected(g *Graph) [][]string {
	data := tarjanData{
		graph: g,
		index: make(map[string]*tarjanVertex),
	}

	for _, v := range g.vertices {
		if _, ok := data.index[v]; !ok {
			data.strongConnect(v)
		}
	}

	return data.result
}

type tarjanData struct {
	graph  *Graph
	index  map[string]*tarjanVertex
	stack  []*tarjanVertex
	next   int
	result [][]string
}

type tarjanVertex struct {
	v       string
	index   int
	lowlink int
	onStack bool
}

func (d *tarjanData) strongConnect(v string) *tarjanVertex {
	tv := &tarjanVertex{v: v, index: d.next, lowlink: d.next, onStack: true}
	d.index[v] = tv
	d.next++
	d.stack = append(d.stack, tv)

	for _, target := range d.graph.DownEdges(v) {
		if tt, ok := d.index[target]; !ok {
			if tt := d.strongConnect(target); tt.lowlink < tv.lowlink {
				tv.lowlink = tt.lowlink
			}
		} else if tt.onStack && tt.index < tv.lowlink {
			tv.lowlink = tt.index
		}
	}

	if tv.lowlink == tv.index {
		var comp []string
		for {
			top := d.stack[len(d.stack)-1]
			d.stack = d.stack[:len(d.stack)-1]
			top.onStack = false
			comp = append(comp, top.v)
			if top == tv {
				break
			}
		}
		d.result = append(d.result, comp)
	}

	return tv
}
