package command

import (
	"strings"

	"github.com/stacksynth/stacksynth/config"
	"github.com/stacksynth/stacksynth/diags"
	"github.com/stacksynth/stacksynth/refgraph"
)

// GraphCommand prints the reference graph of a stack in DOT format.
type GraphCommand struct {
	Meta
}

func (c *GraphCommand) Run(args []string) int {
	stackDir := "."
	if len(args) > 0 {
		stackDir = args[0]
	}

	var d diags.Diagnostics
	tree, loadDiags := config.NewParser().LoadStackDir(stackDir)
	d = d.Append(loadDiags)
	if d.HasErrors() {
		c.showDiagnostics(d)
		return 1
	}

	g, err := refgraph.Build(tree)
	if err != nil {
		c.showDiagnostics(d.Append(err))
		return 1
	}

	c.Ui.Output(string(g.Dot()))
	return 0
}

func (c *GraphCommand) Help() string {
	helpText := `
Usage: stacksynth graph [DIR]

  Prints the reference graph between the stack's resources in GraphViz
  DOT format. Pipe the output into dot to render it:

      stacksynth graph | dot -Tsvg > graph.svg
`
	return strings.TrimSpace(helpText)
}

func (c *GraphCommand) Synopsis() string {
	return "Print the stack's reference graph in DOT format"
}
