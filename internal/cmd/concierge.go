package cmd

import (
	"context"
	"time"

	"github.com/go-ap/errors"
	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/gni/concierge"
)

var ConciergeCmd = cli.Command{
	Name:  "concierge",
	Usage: "Sends a concierge request for an event, a route, or the saved events",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "url",
			Usage: "The concierge endpoint, defaults to the configured one",
		},
		&cli.StringFlag{
			Name:  "event",
			Usage: "The id of the event",
		},
		&cli.StringFlag{
			Name:  "route",
			Usage: "The index of the curated route",
		},
		&cli.IntFlag{
			Name:  "party-size",
			Usage: "Number of guests",
			Value: concierge.DefaultPreferences().PartySize,
		},
		&cli.StringFlag{
			Name:  "budget",
			Usage: "One of mid, high, nolimit",
			Value: string(concierge.DefaultPreferences().Budget),
		},
		&cli.StringFlag{
			Name:  "vibe",
			Usage: "One of art-first, high-energy, underground, celebrity-adjacent",
			Value: string(concierge.DefaultPreferences().Vibe),
		},
		&cli.StringFlag{
			Name:  "notes",
			Usage: "Guestlist, tables, driver, special access",
		},
	},
	Action: sendConcierge,
}

func preferencesFromFlags(c *cli.Context) (concierge.Preferences, error) {
	p := concierge.Preferences{
		PartySize: c.Int("party-size"),
		Notes:     c.String("notes"),
	}
	if p.PartySize < 1 {
		return p, errors.BadRequestf("invalid party size %d", p.PartySize)
	}
	for _, b := range concierge.Budgets {
		if string(b) == c.String("budget") {
			p.Budget = b
		}
	}
	if p.Budget == "" {
		return p, errors.BadRequestf("invalid budget %q", c.String("budget"))
	}
	for _, v := range concierge.Vibes {
		if string(v) == c.String("vibe") {
			p.Vibe = v
		}
	}
	if p.Vibe == "" {
		return p, errors.BadRequestf("invalid vibe %q", c.String("vibe"))
	}
	return p, nil
}

func targetFromFlags(c *cli.Context, e *env) (concierge.Target, error) {
	if id := c.String("event"); id != "" {
		ev, ok := e.catalog.ByID(id)
		if !ok {
			return nil, errors.NotFoundf("event %s", id)
		}
		return concierge.EventTarget{Event: ev}, nil
	}
	if raw := c.String("route"); raw != "" {
		s, err := findRoute(e, raw)
		if err != nil {
			return nil, err
		}
		return concierge.RouteTarget{Name: s.Title, IDs: s.IDs()}, nil
	}
	return concierge.RouteTarget{Name: concierge.CustomBriefTitle, IDs: e.store.Load().IDs()}, nil
}

func sendConcierge(c *cli.Context) error {
	p, err := preferencesFromFlags(c)
	if err != nil {
		return err
	}
	e, err := setup(c, logger(c))
	if err != nil {
		return err
	}
	t, err := targetFromFlags(c, e)
	if err != nil {
		return err
	}
	url := c.String("url")
	if url == "" {
		url = e.conf.ConciergeEndpoint("")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st := concierge.NewClient(url, e.log).Submit(ctx, concierge.NewRequest(t, p))
	info("%s", st)
	if st != concierge.Sent {
		return errors.Newf("concierge request for %q was not sent", t.Title())
	}
	return nil
}
