package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-ap/errors"
	"golang.org/x/sync/errgroup"

	"git.sr.ht/~mariusor/gni"
	"git.sr.ht/~mariusor/gni/events"
)

// Embedded is the location name of the dataset shipped with the binary.
const Embedded = "embedded"

var Client = &http.Client{Timeout: 15 * time.Second}

const bom = "\uFEFF"

// Parse reads CSV data with a header row into rows keyed by the header names.
// Lines with only empty values are skipped, short lines only get the columns they have.
func Parse(r io.Reader) ([]events.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.Newf("missing header row")
	}
	if err != nil {
		return nil, errors.Annotatef(err, "unable to read header row")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], bom)
	}

	rows := make([]events.Row, 0)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, errors.Annotatef(err, "unable to read row %d", len(rows)+1)
		}
		if isEmpty(rec) {
			continue
		}
		row := make(events.Row, len(header))
		for i, val := range rec {
			if i >= len(header) {
				break
			}
			row[header[i]] = val
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isEmpty(rec []string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}

// Open returns the raw contents of loc: a local file, a http(s) URL or the embedded dataset.
func Open(ctx context.Context, loc string) (io.ReadCloser, error) {
	switch {
	case loc == "" || loc == Embedded:
		return io.NopCloser(bytes.NewReader(gni.DefaultEvents)), nil
	case strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
		if err != nil {
			return nil, errors.Annotatef(err, "invalid source URL %s", loc)
		}
		res, err := Client.Do(req)
		if err != nil {
			return nil, errors.Annotatef(err, "unable to load %s", loc)
		}
		if res.StatusCode != http.StatusOK {
			res.Body.Close()
			return nil, errors.Newf("status code error loading %s: %d %s", loc, res.StatusCode, res.Status)
		}
		return res.Body, nil
	}
	f, err := os.Open(loc)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("source file %s", loc)
		}
		return nil, errors.Annotatef(err, "unable to open %s", loc)
	}
	return f, nil
}

func loadOne(ctx context.Context, loc string) ([]events.Row, error) {
	r, err := Open(ctx, loc)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Annotatef(err, "unable to read %s", loc)
	}
	if isHTML(data) {
		rows, err := ParseHTML(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Annotatef(err, "invalid HTML in %s", loc)
		}
		return rows, nil
	}
	rows, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Annotatef(err, "invalid CSV in %s", loc)
	}
	return rows, nil
}

func isHTML(data []byte) bool {
	return strings.HasPrefix(http.DetectContentType(data), "text/html")
}

// Load reads all locations concurrently and returns their rows in the order of locations.
// Without any location the embedded dataset is used.
func Load(ctx context.Context, locations ...string) ([]events.Row, error) {
	if len(locations) == 0 {
		locations = []string{Embedded}
	}
	parts := make([][]events.Row, len(locations))

	g, gctx := errgroup.WithContext(ctx)
	for i, loc := range locations {
		i, loc := i, loc
		g.Go(func() error {
			rows, err := loadOne(gctx, loc)
			if err != nil {
				return err
			}
			parts[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]events.Row, 0)
	for _, p := range parts {
		rows = append(rows, p...)
	}
	return rows, nil
}

// Loader returns a events.LoaderFn reading from locations.
func Loader(locations ...string) events.LoaderFn {
	return func(ctx context.Context) ([]events.Row, error) {
		return Load(ctx, locations...)
	}
}
