package cmd

import (
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/gni/tui"
)

var BrowseCmd = cli.Command{
	Name:  "browse",
	Usage: "Browses the events in the terminal",
	Action: func(c *cli.Context) error {
		e, err := setup(c, logger(c))
		if err != nil {
			return err
		}
		sel, err := tui.Run(e.catalog.Events(), e.store)
		if err != nil {
			return err
		}
		info("%d events saved", sel.Len())
		return nil
	},
}
