package command

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stacksynth/stacksynth/config"
	"github.com/stacksynth/stacksynth/diags"
	"github.com/stacksynth/stacksynth/synth"
)

// SynthCommand resolves a stack definition and writes the provisioning
// plan and workflow documents to the output directory.
type SynthCommand struct {
	Meta
}

func (c *SynthCommand) Run(args []string) int {
	var outDir string
	cmdFlags := flag.NewFlagSet("synth", flag.ContinueOnError)
	cmdFlags.StringVar(&outDir, "out", "synth.out", "output directory")
	cmdFlags.Usage = func() { c.Ui.Error(c.Help()) }
	if err := cmdFlags.Parse(args); err != nil {
		return 1
	}

	stackDir := "."
	if rest := cmdFlags.Args(); len(rest) > 0 {
		stackDir = rest[0]
	}

	var d diags.Diagnostics
	tree, loadDiags := config.NewParser().LoadStackDir(stackDir)
	d = d.Append(loadDiags)
	if d.HasErrors() {
		c.showDiagnostics(d)
		return 1
	}

	arts, err := synth.Synthesize(tree)
	if err != nil {
		c.showDiagnostics(d.Append(err))
		return 1
	}

	planPath := filepath.Join(outDir, "plan.tf")
	if err := writeFile(planPath, arts.PlanHCL); err != nil {
		c.Ui.Error(err.Error())
		return 1
	}
	c.Ui.Output(fmt.Sprintf("Wrote %s", planPath))

	for _, wf := range arts.Workflows {
		wfPath := filepath.Join(outDir, "workflows", wf.Name+".yml")
		if err := writeFile(wfPath, wf.YAML); err != nil {
			c.Ui.Error(err.Error())
			return 1
		}
		c.Ui.Output(fmt.Sprintf("Wrote %s", wfPath))
	}

	c.showDiagnostics(d)
	c.Ui.Output("\nApply order: " + strings.Join(arts.Order, ", "))
	return 0
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %s", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %s", path, err)
	}
	return nil
}

func (c *SynthCommand) Help() string {
	helpText := `
Usage: stacksynth synth [options] [DIR]

  Resolves the stack definition in DIR (default: current directory) and
  writes the provisioning plan and any workflow documents to the output
  directory.

Options:

  -out=path    Output directory. Defaults to "synth.out".
`
	return strings.TrimSpace(helpText)
}

func (c *SynthCommand) Synopsis() string {
	return "Resolve a stack and emit its plan and workflows"
}
