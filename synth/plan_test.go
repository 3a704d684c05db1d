package synth

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stacksynth/stacksynth/construct"
)

// collapseSpaces folds hclwrite's column alignment away so assertions
// don't depend on attribute name lengths.
func collapseSpaces(s string) string {
	return regexp.MustCompile(` +`).ReplaceAllString(s, " ")
}

func TestEmitPlan(t *testing.T) {
	arts, err := Synthesize(fixtureTree(t))
	if err != nil {
		t.Fatal(err)
	}
	plan := collapseSpaces(string(arts.PlanHCL))

	for _, want := range []string{
		`resource "aws_iam_role" "runner_role"`,
		`resource "aws_codebuild_project" "runner"`,
		`service_role = "${runner_role.arn}"`,
		`concurrent_builds = 4`,
	} {
		if !strings.Contains(plan, want) {
			t.Errorf("plan missing %q:\n%s", want, plan)
		}
	}

	// The number must not have been quoted into a string.
	if strings.Contains(plan, `"4"`) {
		t.Errorf("number literal was stringified:\n%s", plan)
	}
}

func TestEmitPlanForeignEscaped(t *testing.T) {
	res := Resource{
		Type: "null_resource",
		ID:   "x",
		Attrs: construct.NewObject().
			Set("expr", construct.Foreign{Raw: "${{ github.sha }}"}).
			Set("mixed", construct.Interp{Src: "v-${net.id}-${{ github.sha }}"}),
	}
	out, err := EmitPlan(&Plan{Resources: []Resource{res}})
	if err != nil {
		t.Fatal(err)
	}
	plan := collapseSpaces(string(out))

	// A foreign expression standing alone is a plain string, escaped per
	// HCL's own grammar so the emitted document carries it literally.
	if !strings.Contains(plan, `"$${{ github.sha }}"`) {
		t.Errorf("foreign expression not minimally escaped:\n%s", plan)
	}
	// In a mixed string the token interpolation stays live while the
	// foreign marker is escaped.
	if !strings.Contains(plan, `"v-${net.id}-$${{ github.sha }}"`) {
		t.Errorf("mixed template emitted wrong:\n%s", plan)
	}
}

func TestEmitPlanLiteralBraceStaysLiteral(t *testing.T) {
	tree := construct.NewTree()
	net, _ := tree.AddResource("aws_subnet", "net")
	host, _ := tree.AddResource("aws_instance", "host")
	if err := host.SetInput("name", construct.Concat{
		construct.Str("literal-${not.a.ref}-"),
		net.Output("id"),
	}); err != nil {
		t.Fatal(err)
	}

	arts, err := Synthesize(tree)
	if err != nil {
		t.Fatal(err)
	}
	plan := collapseSpaces(string(arts.PlanHCL))

	// The user literal's "${" must be escaped while the substituted
	// reference next to it stays a live interpolation.
	if !strings.Contains(plan, `"literal-$${not.a.ref}-${net.id}"`) {
		t.Errorf("literal braces not escaped:\n%s", plan)
	}
	if strings.Contains(plan, `"literal-${not.a.ref}`) {
		t.Errorf("user literal emitted as live interpolation:\n%s", plan)
	}
}

func TestEmitPlanUnresolvedToken(t *testing.T) {
	tree := construct.NewTree()
	net, _ := tree.AddResource("aws_subnet", "net")

	res := Resource{
		Type:  "aws_instance",
		ID:    "host",
		Attrs: construct.NewObject().Set("subnet", net.Output("id")),
	}
	_, err := EmitPlan(&Plan{Resources: []Resource{res}})
	var unresolved *construct.UnresolvedTokenError
	if !errors.As(err, &unresolved) {
		t.Fatalf("expected UnresolvedTokenError, got %v", err)
	}
	if unresolved.Path != "host.subnet" {
		t.Errorf("wrong path %q", unresolved.Path)
	}
}
