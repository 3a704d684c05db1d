package command

import (
	"fmt"

	"github.com/stacksynth/stacksynth/version"
)

// VersionCommand prints the running version.
type VersionCommand struct {
	Meta
}

func (c *VersionCommand) Run(args []string) int {
	c.Ui.Output(fmt.Sprintf("stacksynth v%s", version.String()))
	return 0
}

func (c *VersionCommand) Help() string {
	return "Usage: stacksynth version"
}

func (c *VersionCommand) Synopsis() string {
	return "Print the stacksynth version"
}
