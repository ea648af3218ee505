package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/gni"
	"git.sr.ht/~mariusor/gni/internal/cmd"
)

func main() {
	var err error

	ctl := cli.App{
		Name:    fmt.Sprintf("%sctl", gni.AppName),
		Usage:   "Browse the GNI picks, save events and ask the concierge",
		Version: gni.AppVersion,
		Flags:   cmd.GlobalFlags,
		Commands: []cli.Command{
			cmd.FetchCmd,
			cmd.ListCmd,
			cmd.OptionsCmd,
			cmd.SavedCmd,
			cmd.ConciergeCmd,
			cmd.ConfigCmd,
			cmd.BrowseCmd,
		},
	}

	err = ctl.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
