package main

import (
	"fmt"
	"os"

	"github.com/hashicorp/cli"

	"github.com/stacksynth/stacksynth/command"
	"github.com/stacksynth/stacksynth/logging"
	"github.com/stacksynth/stacksynth/version"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	logger := logging.Logger()
	logger.Info("stacksynth version", "version", version.String())

	ui := &cli.ColoredUi{
		ErrorColor: cli.UiColorRed,
		WarnColor:  cli.UiColorYellow,
		Ui: &cli.BasicUi{
			Writer:      os.Stdout,
			ErrorWriter: os.Stderr,
			Reader:      os.Stdin,
		},
	}

	c := &cli.CLI{
		Name:       "stacksynth",
		Version:    version.String(),
		Args:       os.Args[1:],
		Commands:   commands(ui),
		HelpWriter: os.Stdout,
	}

	exitStatus, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing CLI: %s\n", err)
		return 1
	}
	return exitStatus
}

func commands(ui cli.Ui) map[string]cli.CommandFactory {
	meta := command.Meta{Ui: ui}
	return map[string]cli.CommandFactory{
		"synth": func() (cli.Command, error) {
			return &command.SynthCommand{Meta: meta}, nil
		},
		"validate": func() (cli.Command, error) {
			return &command.ValidateCommand{Meta: meta}, nil
		},
		"graph": func() (cli.Command, error) {
			return &command.GraphCommand{Meta: meta}, nil
		},
		"version": func() (cli.Command, error) {
			return &command.VersionCommand{Meta: meta}, nil
		},
	}
}
