package cmd

import (
	"os"
	"path/filepath"

	"github.com/go-ap/errors"
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/gni/internal/config"
)

var ConfigCmd = cli.Command{
	Name:  "config",
	Usage: "Manages the configuration file",
	Subcommands: []cli.Command{
		{
			Name:  "init",
			Usage: "Writes the default configuration to the --config path",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "force",
					Usage: "Overwrite an existing configuration file",
				},
			},
			Action: configInit,
		},
	},
}

func configInit(c *cli.Context) error {
	path := c.GlobalString("config")
	if path == "" {
		return errors.Newf("missing --config path")
	}
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return errors.Newf("configuration %s already exists, use --force to overwrite it", path)
	}
	if err := MkDirIfNotExists(filepath.Dir(path)); err != nil {
		return errors.Annotatef(err, "unable to create configuration folder")
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	info("Wrote configuration to %s", path)
	return nil
}
