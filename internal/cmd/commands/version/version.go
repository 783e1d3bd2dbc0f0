package version

import (
	"github.com/tsawler/patentid/internal/cmd/base"
	"github.com/tsawler/patentid/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the patentid version"
}

func (c *Command) Help() string {
	return `Usage: patentid version

  This command prints the version of patentid.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output("patentid v" + version.Version)
	return 0
}
