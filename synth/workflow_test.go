package synth

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/stacksynth/stacksynth/construct"
)

func TestEmitWorkflowOrderAndTypes(t *testing.T) {
	root := construct.NewObject().
		Set("name", construct.Str("ci")).
		Set("on", construct.NewObject().Set("workflow_dispatch", construct.NewObject())).
		Set("jobs", construct.NewObject().Set("build", construct.NewObject().
			Set("timeout-minutes", construct.Int(15)).
			Set("continue-on-error", construct.Bool(false)).
			Set("steps", construct.List{
				construct.NewObject().Set("run", construct.Str("make test")),
			})))

	out, err := EmitWorkflow(Document{Name: "ci", Root: root})
	if err != nil {
		t.Fatal(err)
	}
	text := string(out)

	// Key order must be exactly as declared, never alphabetized.
	nameIdx := strings.Index(text, "name:")
	onIdx := strings.Index(text, "on:")
	jobsIdx := strings.Index(text, "jobs:")
	if !(nameIdx >= 0 && nameIdx < onIdx && onIdx < jobsIdx) {
		t.Errorf("keys reordered:\n%s", text)
	}

	// Scalar typing survives: numbers and bools are not quoted.
	if !strings.Contains(text, "timeout-minutes: 15") {
		t.Errorf("number was not emitted as a number:\n%s", text)
	}
	if !strings.Contains(text, "continue-on-error: false") {
		t.Errorf("bool was not emitted as a bool:\n%s", text)
	}

	// The output must be well-formed YAML.
	var parsed map[string]interface{}
	if err := yaml.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("emitted workflow is not valid yaml: %s", err)
	}
}

func TestEmitWorkflowForeignVerbatim(t *testing.T) {
	raw := "${{ github.run_id }}-${{ github.run_attempt }}"
	root := construct.NewObject().Set("jobs", construct.NewObject().
		Set("build", construct.NewObject().
			Set("runs-on", construct.Interp{Src: "codebuild-runner-" + raw}).
			Set("if", construct.Foreign{Raw: "${{ github.event_name == 'push' }}"})))

	out, err := EmitWorkflow(Document{Name: "ci", Root: root})
	if err != nil {
		t.Fatal(err)
	}

	// The foreign text must round-trip through YAML untouched.
	var parsed struct {
		Jobs struct {
			Build struct {
				RunsOn string `yaml:"runs-on"`
				If     string `yaml:"if"`
			} `yaml:"build"`
		} `yaml:"jobs"`
	}
	if err := yaml.Unmarshal(out, &parsed); err != nil {
		t.Fatal(err)
	}
	if got, want := parsed.Jobs.Build.RunsOn, "codebuild-runner-"+raw; got != want {
		t.Errorf("runs-on rewritten:\ngot:  %q\nwant: %q", got, want)
	}
	if got, want := parsed.Jobs.Build.If, "${{ github.event_name == 'push' }}"; got != want {
		t.Errorf("if rewritten:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestEmitWorkflowUnresolvedToken(t *testing.T) {
	tree := construct.NewTree()
	project, _ := tree.AddResource("aws_codebuild_project", "runner")

	root := construct.NewObject().Set("runs-on", project.Output("name"))
	_, err := EmitWorkflow(Document{Name: "ci", Root: root})
	if err == nil {
		t.Fatal("expected UnresolvedTokenError")
	}
	if !strings.Contains(err.Error(), "unresolved token") {
		t.Errorf("unexpected error: %v", err)
	}
}
