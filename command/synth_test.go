package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/cli"
)

func TestSynthCommand(t *testing.T) {
	ui := cli.NewMockUi()
	c := &SynthCommand{Meta: Meta{Ui: ui}}

	outDir := t.TempDir()
	code := c.Run([]string{"-out", outDir, "../config/testdata/gha-runners"})
	if code != 0 {
		t.Fatalf("exit %d: %s", code, ui.ErrorWriter.String())
	}

	plan, err := os.ReadFile(filepath.Join(outDir, "plan.tf"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(plan), `resource "aws_codebuild_project" "runner"`) {
		t.Errorf("plan missing project resource:\n%s", plan)
	}

	wf, err := os.ReadFile(filepath.Join(outDir, "workflows", "ci.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(wf), "${{ github.run_id }}") {
		t.Errorf("workflow missing foreign expression:\n%s", wf)
	}

	if !strings.Contains(ui.OutputWriter.String(), "Apply order:") {
		t.Errorf("missing apply order output: %s", ui.OutputWriter.String())
	}
}

func TestValidateCommandCycle(t *testing.T) {
	dir := t.TempDir()
	stack := `
resource "null_resource" "a" {
  next = null_resource.b.id
}

resource "null_resource" "b" {
  next = null_resource.a.id
}
`
	if err := os.WriteFile(filepath.Join(dir, "stack.hcl"), []byte(stack), 0644); err != nil {
		t.Fatal(err)
	}

	ui := cli.NewMockUi()
	c := &ValidateCommand{Meta: Meta{Ui: ui}}
	if code := c.Run([]string{dir}); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(ui.ErrorWriter.String(), "cyclic dependency") {
		t.Errorf("missing cycle diagnostic: %s", ui.ErrorWriter.String())
	}
}

func TestGraphCommand(t *testing.T) {
	ui := cli.NewMockUi()
	c := &GraphCommand{Meta: Meta{Ui: ui}}
	if code := c.Run([]string{"../config/testdata/gha-runners"}); code != 0 {
		t.Fatalf("exit %d: %s", code, ui.ErrorWriter.String())
	}
	out := ui.OutputWriter.String()
	if !strings.Contains(out, `"aws_codebuild_project.runner" -> "aws_iam_role.runner"`) {
		t.Errorf("missing edge in dot output:\n%s", out)
	}
}
