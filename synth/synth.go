package synth

import (
	"github.com/stacksynth/stacksynth/construct"
	"github.com/stacksynth/stacksynth/logging"
	"github.com/stacksynth/stacksynth/refgraph"
)

// Artifacts is everything one synthesis run produces.
type Artifacts struct {
	// PlanHCL is the resolved provisioning plan.
	PlanHCL []byte

	// Workflows holds one rendered YAML document per workflow, in
	// declaration order.
	Workflows []WorkflowFile

	// Graph is the reference graph the plan was ordered by.
	Graph *refgraph.Graph

	// Order is the topological apply order handed to the provisioning
	// engine: every node appears after all of its dependencies.
	Order []string
}

// WorkflowFile is a rendered workflow document.
type WorkflowFile struct {
	Name string
	YAML []byte
}

// Synthesize validates the tree, resolves it, and emits all artifacts.
// Any structural error (dangling reference, self reference, cycle) aborts
// the whole run; no partial artifact is produced. Synthesis is
// deterministic and idempotent: the same tree yields byte-identical
// artifacts on every run.
func Synthesize(t *construct.Tree) (*Artifacts, error) {
	logger := logging.Logger().Named("synth")

	if err := t.Validate(); err != nil {
		return nil, err
	}

	plan, g, err := Resolve(t)
	if err != nil {
		return nil, err
	}
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	logger.Trace("resolved construct tree",
		"resources", len(plan.Resources),
		"documents", len(plan.Documents),
		"edges", g.EdgeCount())

	planHCL, err := EmitPlan(plan)
	if err != nil {
		return nil, err
	}

	arts := &Artifacts{
		PlanHCL: planHCL,
		Graph:   g,
		Order:   order,
	}
	for _, doc := range plan.Documents {
		out, err := EmitWorkflow(doc)
		if err != nil {
			return nil, err
		}
		arts.Workflows = append(arts.Workflows, WorkflowFile{Name: doc.Name, YAML: out})
	}
	return arts, nil
}
