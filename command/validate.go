package command

import (
	"strings"

	"github.com/stacksynth/stacksynth/config"
	"github.com/stacksynth/stacksynth/diags"
	"github.com/stacksynth/stacksynth/refgraph"
)

// ValidateCommand checks a stack definition for structural problems:
// parse errors, dangling or self references, and dependency cycles. It
// does not emit anything.
type ValidateCommand struct {
	Meta
}

func (c *ValidateCommand) Run(args []string) int {
	stackDir := "."
	if len(args) > 0 {
		stackDir = args[0]
	}

	var d diags.Diagnostics
	tree, loadDiags := config.NewParser().LoadStackDir(stackDir)
	d = d.Append(loadDiags)
	if !d.HasErrors() {
		if err := tree.Validate(); err != nil {
			d = d.Append(err)
		}
	}
	if !d.HasErrors() {
		g, err := refgraph.Build(tree)
		if err != nil {
			d = d.Append(err)
		} else if err := g.Validate(); err != nil {
			d = d.Append(err)
		}
	}

	if d.HasErrors() {
		c.showDiagnostics(d)
		return 1
	}
	c.showDiagnostics(d)
	c.Ui.Output(c.Colorize().Color("[green][bold]Success![reset] The stack is structurally valid."))
	return 0
}

func (c *ValidateCommand) Help() string {
	helpText := `
Usage: stacksynth validate [DIR]

  Validates the stack definition in DIR (default: current directory):
  references must point at declared resources, no resource may reference
  itself, and the reference graph must be free of cycles.
`
	return strings.TrimSpace(helpText)
}

func (c *ValidateCommand) Synopsis() string {
	return "Check that a stack definition is structurally valid"
}
