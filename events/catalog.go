package events

import (
	"context"
	"sync"

	"git.sr.ht/~mariusor/lw"
	"github.com/go-ap/errors"
)

// LoaderFn returns the raw rows of the event source.
type LoaderFn func(ctx context.Context) ([]Row, error)

// Catalog caches the normalized events between reloads of the source.
type Catalog struct {
	mu   sync.RWMutex
	list Events

	load LoaderFn
	norm Normalizer
	log  lw.Logger
}

func NewCatalog(load LoaderFn, norm Normalizer, l lw.Logger) *Catalog {
	if l == nil {
		l = lw.Nil()
	}
	return &Catalog{load: load, norm: norm, log: l, list: make(Events, 0)}
}

// Reload reads the source again. The previous events are kept when loading fails.
func (c *Catalog) Reload(ctx context.Context) error {
	if c.load == nil {
		return errors.Newf("no event source configured")
	}
	rows, err := c.load(ctx)
	if err != nil {
		return errors.Annotatef(err, "unable to load events")
	}
	list := c.norm.Normalize(rows)

	c.mu.Lock()
	c.list = list
	c.mu.Unlock()

	c.log.Infof("Loaded %d events", len(list))
	return nil
}

// Events returns a copy of the current list in the baseline order.
func (c *Catalog) Events() Events {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res := make(Events, len(c.list))
	copy(res, c.list)
	return res
}

func (c *Catalog) ByID(id string) (Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.list.ByID(id)
}

func (c *Catalog) Filter(q Query) Events {
	return Filter(c.Events(), q)
}

func (c *Catalog) Options() Options {
	return FacetOptions(c.Events())
}

func (c *Catalog) Routes(routes []Route) []Stops {
	return ResolveRoutes(routes, c.Events())
}
