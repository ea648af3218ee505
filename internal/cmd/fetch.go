package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"git.sr.ht/~mariusor/lw"
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/gni"
	"git.sr.ht/~mariusor/gni/events"
	"git.sr.ht/~mariusor/gni/internal/config"
	"git.sr.ht/~mariusor/gni/source"
	"git.sr.ht/~mariusor/gni/storage"
	"git.sr.ht/~mariusor/gni/storage/boltdb"
)

var out io.Writer = os.Stdout

var info = func(s string, args ...interface{}) {
	fmt.Fprintf(out, s+"\n", args...)
}

var errFn = func(s string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, s+"\n", args...)
}

func MkDirIfNotExists(p string) error {
	fi, err := os.Stat(p)
	if err != nil && os.IsNotExist(err) {
		err = os.MkdirAll(p, os.ModeDir|os.ModePerm|0700)
	}
	if err != nil {
		return err
	}
	fi, err = os.Stat(p)
	if err != nil {
		return err
	} else if !fi.IsDir() {
		return fmt.Errorf("path exists, and is not a folder %s", p)
	}
	return nil
}

func DataPath() string {
	homeDir, _ := os.UserHomeDir()
	xdgDataPath := filepath.Join(homeDir, ".local", "share")
	appPath := filepath.Join(xdgDataPath, gni.AppName)

	if _, err := os.Stat(appPath); err != nil && errors.Is(err, os.ErrNotExist) {
		err := MkDirIfNotExists(appPath)
		if err != nil {
			log.Fatalf("Error: %s", err.Error())
		}
	}
	return appPath
}

func ConfigPath() string {
	xdgConfigPath, _ := os.UserConfigDir()
	return filepath.Join(xdgConfigPath, gni.AppName, "config.yaml")
}

// GlobalFlags are shared by all the binaries.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "config",
		Usage: "The path of the YAML configuration file",
		Value: ConfigPath(),
	},
	&cli.StringFlag{
		Name:  "path",
		Usage: "The path for storage",
	},
	&cli.StringSliceFlag{
		Name:  "source",
		Usage: "CSV file or URL to load events from, replaces the configured sources",
	},
	&cli.BoolFlag{
		Name:  "debug",
		Usage: "Output debug messages",
	},
}

type env struct {
	conf    *config.Config
	log     lw.Logger
	loc     *time.Location
	catalog *events.Catalog
	store   storage.Store
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	conf, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return nil, err
	}
	if p := c.GlobalString("path"); p != "" {
		conf.Path = p
	}
	if conf.Path == "" {
		conf.Path = DataPath()
	}
	if sources := c.GlobalStringSlice("source"); len(sources) > 0 {
		conf.Sources = sources
	}
	return conf, nil
}

func logger(c *cli.Context) lw.Logger {
	if c.GlobalBool("debug") || c.Bool("debug") {
		return lw.Dev()
	}
	return lw.Nil()
}

// setup loads the configuration, the events and opens the saved events storage.
func setup(c *cli.Context, l lw.Logger) (*env, error) {
	conf, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	loc, err := conf.Location()
	if err != nil {
		return nil, err
	}
	if err := MkDirIfNotExists(conf.Path); err != nil {
		return nil, err
	}
	norm := events.Normalizer{Featured: conf.FeaturedEvents(), Location: loc}
	e := env{
		conf:    conf,
		log:     l,
		loc:     loc,
		catalog: events.NewCatalog(source.Loader(conf.Sources...), norm, l),
		store: boltdb.New(boltdb.Config{
			Path:  filepath.Join(conf.Path, boltdb.DefaultFile),
			LogFn: l.Debugf,
			ErrFn: l.Warnf,
		}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), source.Client.Timeout)
	defer cancel()
	if err := e.catalog.Reload(ctx); err != nil {
		return nil, err
	}
	return &e, nil
}

var FetchCmd = cli.Command{
	Name:  "fetch",
	Usage: "Loads the event sources and reports what they contain",
	Action: func(c *cli.Context) error {
		conf, err := loadConfig(c)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), source.Client.Timeout)
		defer cancel()

		total := 0
		for _, loc := range conf.Sources {
			rows, err := source.Load(ctx, loc)
			if err != nil {
				errFn("Unable to load %s: %s", loc, err)
				continue
			}
			info("%s: %d rows", loc, len(rows))
			total += len(rows)
		}
		if total == 0 {
			return fmt.Errorf("no events found in %d sources", len(conf.Sources))
		}
		return nil
	},
}
