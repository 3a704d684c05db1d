package synth

import (
	"errors"
	"testing"

	"github.com/stacksynth/stacksynth/construct"
	"github.com/stacksynth/stacksynth/refgraph"
)

func TestResolveTokenSubstitution(t *testing.T) {
	tree := construct.NewTree()
	net, _ := tree.AddResource("aws_subnet", "net")
	host, _ := tree.AddResource("aws_instance", "host")
	if err := host.SetInput("subnet", net.Output("id")); err != nil {
		t.Fatal(err)
	}

	plan, g, err := Resolve(tree)
	if err != nil {
		t.Fatal(err)
	}

	if got := g.DownEdges("host"); len(got) != 1 || got[0] != "net" {
		t.Errorf("wrong graph edges for host: %v", got)
	}

	var hostRes *Resource
	for i := range plan.Resources {
		if plan.Resources[i].ID == "host" {
			hostRes = &plan.Resources[i]
		}
	}
	if hostRes == nil {
		t.Fatal("host missing from plan")
	}
	interp, ok := hostRes.Attrs.Get("subnet").(construct.Interp)
	if !ok {
		t.Fatalf("subnet not resolved to an interpolation: %T", hostRes.Attrs.Get("subnet"))
	}
	if interp.Src != "${net.id}" {
		t.Errorf("wrong interpolation %q", interp.Src)
	}
}

func TestResolveComposedString(t *testing.T) {
	tree := construct.NewTree()
	project, _ := tree.AddResource("aws_codebuild_project", "project")
	root := construct.NewObject().Set("runs-on", construct.Concat{
		construct.Str("runner-"),
		project.Output("name"),
		construct.Str("-"),
		construct.Foreign{Raw: "${{ github.run_id }}"},
	})
	if _, err := tree.AddDoc("ci", root); err != nil {
		t.Fatal(err)
	}

	plan, _, err := Resolve(tree)
	if err != nil {
		t.Fatal(err)
	}
	doc := plan.Documents[0]
	got := doc.Root.(*construct.Object).Get("runs-on").(construct.Interp)
	want := "runner-${project.name}-${{ github.run_id }}"
	if got.Src != want {
		t.Errorf("wrong composed string\ngot:  %q\nwant: %q", got.Src, want)
	}
}

func TestResolveLiteralConcatCollapses(t *testing.T) {
	tree := construct.NewTree()
	n, _ := tree.AddResource("null_resource", "x")
	n.SetInput("name", construct.Concat{
		construct.Str("a-"),
		construct.Int(7),
		construct.Str("-b"),
	})

	plan, _, err := Resolve(tree)
	if err != nil {
		t.Fatal(err)
	}
	lit, ok := plan.Resources[0].Attrs.Get("name").(construct.Literal)
	if !ok {
		t.Fatalf("literal-only composition must collapse to a literal, got %T",
			plan.Resources[0].Attrs.Get("name"))
	}
	if lit.Val.AsString() != "a-7-b" {
		t.Errorf("wrong collapsed string %q", lit.Val.AsString())
	}
}

func TestResolveCycleReportedBeforeResolution(t *testing.T) {
	tree := construct.NewTree()
	a, _ := tree.AddResource("null_resource", "a")
	b, _ := tree.AddResource("null_resource", "b")
	c, _ := tree.AddResource("null_resource", "c")
	a.SetInput("next", b.Output("id"))
	b.SetInput("next", c.Output("id"))
	c.SetInput("next", a.Output("id"))

	plan, g, err := Resolve(tree)
	var cyclic *refgraph.CyclicDependencyError
	if !errors.As(err, &cyclic) {
		t.Fatalf("expected CyclicDependencyError, got %v", err)
	}
	if plan != nil || g != nil {
		t.Error("no partial result may escape on a cycle")
	}
	for _, id := range []string{"a", "b", "c"} {
		found := false
		for _, member := range cyclic.Cycle {
			if member == id {
				found = true
			}
		}
		if !found {
			t.Errorf("cycle does not name %q: %v", id, cyclic.Cycle)
		}
	}
}

func TestResolveTokenFromOtherTree(t *testing.T) {
	other := construct.NewTree()
	otherNet, _ := other.AddResource("aws_subnet", "net")

	// Same id, different tree: only the owner identity check can tell
	// this token does not belong here.
	tree := construct.NewTree()
	if _, err := tree.AddResource("aws_subnet", "net"); err != nil {
		t.Fatal(err)
	}

	r := &resolver{tree: tree}
	_, err := r.value("host.subnet", otherNet.Output("id"))
	var dangling *construct.DanglingReferenceError
	if !errors.As(err, &dangling) {
		t.Fatalf("expected DanglingReferenceError, got %v", err)
	}
	if dangling.Path != "host.subnet" {
		t.Errorf("wrong path %q", dangling.Path)
	}

	_, err = r.concat("host.name", construct.Concat{
		construct.Str("prefix-"),
		otherNet.Output("id"),
	})
	if !errors.As(err, &dangling) {
		t.Fatalf("expected DanglingReferenceError from composed string, got %v", err)
	}
}

func TestResolveIdempotent(t *testing.T) {
	arts1, err := Synthesize(fixtureTree(t))
	if err != nil {
		t.Fatal(err)
	}
	arts2, err := Synthesize(fixtureTree(t))
	if err != nil {
		t.Fatal(err)
	}

	if string(arts1.PlanHCL) != string(arts2.PlanHCL) {
		t.Error("plan output is not deterministic")
	}
	if len(arts1.Workflows) != 1 || len(arts2.Workflows) != 1 {
		t.Fatal("expected one workflow")
	}
	if string(arts1.Workflows[0].YAML) != string(arts2.Workflows[0].YAML) {
		t.Error("workflow output is not deterministic")
	}
}

func TestResolveLiteralsOnlyIsNoop(t *testing.T) {
	tree := construct.NewTree()
	n, _ := tree.AddResource("null_resource", "x")
	n.SetInput("name", construct.Str("fixed"))
	n.SetInput("count", construct.Int(3))

	plan, g, err := Resolve(tree)
	if err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("literal-only tree must have no edges")
	}
	if got := plan.Resources[0].Attrs.Get("name").(construct.Literal); got.Val.AsString() != "fixed" {
		t.Errorf("literal changed during resolution: %q", got.Val.AsString())
	}
}

// fixtureTree builds a small stack exercising every value kind.
func fixtureTree(t *testing.T) *construct.Tree {
	t.Helper()
	tree := construct.NewTree()
	role, _ := tree.AddResource("aws_iam_role", "runner_role")
	project, _ := tree.AddResource("aws_codebuild_project", "runner")

	if err := role.SetInput("name", construct.Str("gha-runner-role")); err != nil {
		t.Fatal(err)
	}
	if err := project.SetInput("name", construct.Str("gha-runner")); err != nil {
		t.Fatal(err)
	}
	if err := project.SetInput("service_role", role.Output("arn")); err != nil {
		t.Fatal(err)
	}
	if err := project.SetInput("concurrent_builds", construct.Int(4)); err != nil {
		t.Fatal(err)
	}

	wf := construct.NewObject().
		Set("name", construct.Str("ci")).
		Set("on", construct.NewObject().Set("workflow_dispatch", construct.NewObject())).
		Set("jobs", construct.NewObject().Set("build", construct.NewObject().
			Set("runs-on", construct.Concat{
				construct.Str("codebuild-"),
				project.Output("name"),
				construct.Str("-"),
				construct.Foreign{Raw: "${{ github.run_id }}-${{ github.run_attempt }}"},
			}).
			Set("steps", construct.List{
				construct.NewObject().Set("run", construct.Str("make test")),
			})))
	if _, err := tree.AddDoc("ci", wf); err != nil {
		t.Fatal(err)
	}
	return tree
}
