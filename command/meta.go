// Package command contains the CLI frontends for stacksynth. Each
// command wires the config loader and the synthesis engine together and
// renders diagnostics for humans; the interesting logic lives in the
// library packages.
package command

import (
	"fmt"
	"os"

	"github.com/hashicorp/cli"
	"github.com/mitchellh/colorstring"

	"github.com/stacksynth/stacksynth/diags"
)

// Meta holds the state shared by all commands.
type Meta struct {
	Ui cli.Ui

	color *colorstring.Colorize
}

// Colorize returns the colorizer for diagnostic output, honoring NO_COLOR.
func (m *Meta) Colorize() *colorstring.Colorize {
	if m.color == nil {
		m.color = &colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: os.Getenv("NO_COLOR") != "",
			Reset:   true,
		}
	}
	return m.color
}

// showDiagnostics renders every diagnostic in the list to the UI.
func (m *Meta) showDiagnostics(d diags.Diagnostics) {
	for _, diag := range d {
		m.Ui.Error(m.formatDiagnostic(diag))
	}
}

func (m *Meta) formatDiagnostic(diag diags.Diagnostic) string {
	desc := diag.Description()
	var heading string
	switch diag.Severity() {
	case diags.Warning:
		heading = m.Colorize().Color("[yellow]Warning:[reset] " + desc.Summary)
	default:
		heading = m.Colorize().Color("[red]Error:[reset] " + desc.Summary)
	}

	out := heading
	if subject := diag.Source().Subject; subject != nil {
		out += fmt.Sprintf("\n\n  on %s line %d", subject.Filename, subject.Start.Line)
	}
	if desc.Detail != "" {
		out += "\n\n" + desc.Detail
	}
	return out + "\n"
}
