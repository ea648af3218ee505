package cmd

import (
	"strconv"

	"github.com/go-ap/errors"
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/gni/events"
	"git.sr.ht/~mariusor/gni/storage"
)

var SavedCmd = cli.Command{
	Name:    "saved",
	Aliases: []string{"my-week"},
	Usage:   "Shows and changes the saved events",
	Subcommands: []cli.Command{
		{
			Name:   "show",
			Usage:  "Lists the saved events",
			Action: showSaved,
		},
		{
			Name:      "toggle",
			Usage:     "Saves an event, or removes it if it was already saved",
			ArgsUsage: "ID",
			Action:    toggleSaved,
		},
		{
			Name:      "add",
			Usage:     "Saves events",
			ArgsUsage: "ID...",
			Action:    addSaved,
		},
		{
			Name:      "route",
			Usage:     "Saves all the stops of a curated route",
			ArgsUsage: "INDEX",
			Action:    addRoute,
		},
		{
			Name:   "routes",
			Usage:  "Lists the curated routes",
			Action: listRoutes,
		},
	},
	Action: showSaved,
}

func showSaved(c *cli.Context) error {
	e, err := setup(c, logger(c))
	if err != nil {
		return err
	}
	sel := e.store.Load()
	saved := e.catalog.Events().Select(func(ev events.Event) bool {
		return sel.Contains(ev.ID)
	})
	if len(saved) == 0 {
		info("Nothing saved yet. Add a Tonight Route.")
		return nil
	}
	return writeEvents(out, saved, sel)
}

func toggleSaved(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return errors.BadRequestf("missing event id")
	}
	e, err := setup(c, logger(c))
	if err != nil {
		return err
	}
	if _, ok := e.catalog.ByID(id); !ok {
		errFn("Warning: unknown event %s", id)
	}
	sel, err := storage.Toggle(e.store, id)
	if err != nil {
		return err
	}
	if sel.Contains(id) {
		info("Saved %s", id)
	} else {
		info("Removed %s", id)
	}
	return nil
}

func addSaved(c *cli.Context) error {
	ids := []string(c.Args())
	if len(ids) == 0 {
		return errors.BadRequestf("missing event ids")
	}
	e, err := setup(c, logger(c))
	if err != nil {
		return err
	}
	sel, err := storage.Add(e.store, ids...)
	if err != nil {
		return err
	}
	info("%d events saved", sel.Len())
	return nil
}

func findRoute(e *env, raw string) (events.Stops, error) {
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return events.Stops{}, errors.BadRequestf("invalid route %q", raw)
	}
	for _, s := range e.catalog.Routes(e.conf.Routes) {
		if s.Index == idx {
			return s, nil
		}
	}
	return events.Stops{}, errors.NotFoundf("route %d", idx)
}

func addRoute(c *cli.Context) error {
	e, err := setup(c, logger(c))
	if err != nil {
		return err
	}
	s, err := findRoute(e, c.Args().First())
	if err != nil {
		return err
	}
	sel, err := storage.Add(e.store, s.IDs()...)
	if err != nil {
		return err
	}
	info("Added %q, %d events saved", s.Title, sel.Len())
	return nil
}

func listRoutes(c *cli.Context) error {
	e, err := setup(c, logger(c))
	if err != nil {
		return err
	}
	for _, s := range e.catalog.Routes(e.conf.Routes) {
		info("%d. [%s] %s: %s", s.Index, s.Label(), s.Title, s.Copy)
		for i, stop := range s.Events {
			info("\t%d. %s (%s)", i+1, stop.Name, stop.ID)
		}
	}
	return nil
}
