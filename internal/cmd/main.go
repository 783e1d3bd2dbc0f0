package cmd

import (
	"bufio"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/tsawler/patentid/internal/cmd/base"
	"github.com/tsawler/patentid/internal/cmd/commands/extract"
	versioncmd "github.com/tsawler/patentid/internal/cmd/commands/version"
	"github.com/tsawler/patentid/internal/version"
)

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	cliName := "patentid"
	if len(args) > 0 {
		cliName = args[0]
		args = args[1:]
	}

	log := newLogger(os.Stderr)

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	return Run(cliName, args, log, ui)
}

// newLogger returns the root logger. Commands set levels on their own
// named sub-loggers, so levels are not shared with the root.
func newLogger(w io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:              "patentid",
		Output:            w,
		Level:             hclog.Info,
		IndependentLevels: true,
	})
}

// Run dispatches args to the registered commands.
func Run(cliName string, args []string, log hclog.Logger, ui cli.Ui) int {
	if len(args) == 1 &&
		(args[0] == "-version" ||
			args[0] == "-v") {
		args = []string{"version"}
	}

	c := &cli.CLI{
		Name:     cliName,
		Args:     args,
		Version:  version.Version,
		Commands: Commands(log, ui),
	}

	exitCode, err := c.Run()
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	return exitCode
}

// Commands returns the command factories of the CLI.
func Commands(log hclog.Logger, ui cli.Ui) map[string]cli.CommandFactory {
	b := base.NewCommand(log, ui)

	return map[string]cli.CommandFactory{
		"extract": func() (cli.Command, error) {
			return &extract.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &versioncmd.Command{Command: b}, nil
		},
	}
}
