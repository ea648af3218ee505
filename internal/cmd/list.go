package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli"

	"git.sr.ht/~mariusor/gni/events"
	"git.sr.ht/~mariusor/gni/storage"
)

var queryFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "q",
		Usage: "Search words, all of them need to match",
	},
	&cli.StringFlag{
		Name:  "type",
		Usage: "Only events of this type",
	},
	&cli.StringFlag{
		Name:  "neighborhood",
		Usage: "Only events in this neighborhood",
	},
	&cli.BoolFlag{
		Name:  "tonight",
		Usage: "Only tonight picks",
	},
	&cli.BoolFlag{
		Name:  "json",
		Usage: "Output JSON",
	},
}

var ListCmd = cli.Command{
	Name:   "list",
	Usage:  "Lists the events matching the filters",
	Flags:  queryFlags,
	Action: listEvents,
}

var OptionsCmd = cli.Command{
	Name:  "options",
	Usage: "Lists the event types and neighborhoods",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output JSON",
		},
	},
	Action: listOptions,
}

func queryFromFlags(c *cli.Context) events.Query {
	return events.Query{
		Text:         c.String("q"),
		Type:         c.String("type"),
		Neighborhood: c.String("neighborhood"),
		TonightOnly:  c.Bool("tonight"),
	}
}

func listEvents(c *cli.Context) error {
	e, err := setup(c, logger(c))
	if err != nil {
		return err
	}
	list := e.catalog.Filter(queryFromFlags(c))
	if c.Bool("json") {
		return writeJSON(out, list)
	}
	if len(list) == 0 {
		info("No matches. Try a different vibe.")
		return nil
	}
	return writeEvents(out, list, e.store.Load())
}

func listOptions(c *cli.Context) error {
	e, err := setup(c, logger(c))
	if err != nil {
		return err
	}
	opts := e.catalog.Options()
	if c.Bool("json") {
		return writeJSON(out, opts)
	}
	info("Types: %s", strings.Join(opts.Types, ", "))
	info("Neighborhoods: %s", strings.Join(opts.Neighborhoods, ", "))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeEvents prints one block per event, saved events are marked with a star.
func writeEvents(w io.Writer, list events.Events, sel storage.Selection) error {
	for i, e := range list {
		mark := ""
		if sel.Contains(e.ID) {
			mark = " *"
		}
		pick := ""
		if e.TonightFeatured {
			pick = " [tonight pick]"
		}
		if _, err := fmt.Fprintf(w, "#%d %s%s%s\n", i+1, e.Name, pick, mark); err != nil {
			return err
		}
		fmt.Fprintf(w, "\tid: %s\n", e.ID)
		for _, line := range []string{e.Type, e.Schedule(), e.Place(), e.Cost} {
			if line != "" {
				fmt.Fprintf(w, "\t%s\n", line)
			}
		}
	}
	return nil
}
