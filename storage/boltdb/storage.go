package boltdb

import (
	"sync"
	"time"

	"github.com/go-ap/errors"
	bolt "go.etcd.io/bbolt"

	"git.sr.ht/~mariusor/gni/storage"
)

type LoggerFn func(string, ...interface{})

type repo struct {
	mu   sync.Mutex
	d    *bolt.DB
	root []byte
	key  []byte
	path string
	wait time.Duration
	log  LoggerFn
	err  LoggerFn
}

const (
	rootBucket  = "gni"
	DefaultFile = "gni.bdb"

	// DefaultTimeout is how long opening waits for a database locked by another process.
	DefaultTimeout = time.Second
)

// Config
type Config struct {
	Path    string
	Timeout time.Duration
	LogFn   LoggerFn
	ErrFn LoggerFn
}

// New returns a new repo repository
func New(c Config) *repo {
	b := repo{
		root: []byte(rootBucket),
		key:  []byte(storage.Key),
		path: c.Path,
		wait: DefaultTimeout,
		log:  func(string, ...interface{}) {},
		err:  func(string, ...interface{}) {},
	}
	if c.Timeout > 0 {
		b.wait = c.Timeout
	}
	if c.ErrFn != nil {
		b.err = c.ErrFn
	}
	if c.LogFn != nil {
		b.log = c.LogFn
	}

	return &b
}

func (r *repo) open() error {
	var err error
	r.d, err = bolt.Open(r.path, 0600, &bolt.Options{Timeout: r.wait})
	if err != nil {
		return errors.Annotatef(err, "could not open db %s", r.path)
	}
	err = r.d.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(r.root)
		if err != nil {
			return errors.Annotatef(err, "unable to create root bucket %s", r.root)
		}
		if !root.Writable() {
			return errors.Newf("non writeable root bucket %s", r.root)
		}
		return nil
	})
	if err != nil {
		r.close()
	}
	return err
}

// Close closes the boltdb database if possible.
func (r *repo) close() error {
	if r.d == nil {
		return nil
	}
	err := r.d.Close()
	r.d = nil
	return err
}

// Load returns the saved selection. Any error is logged and results in an empty selection.
func (r *repo) Load() storage.Selection {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.open(); err != nil {
		r.err("unable to load saved events: %s", err)
		return storage.Selection{}
	}
	defer r.close()

	sel := storage.Selection{}
	err := r.d.View(func(tx *bolt.Tx) error {
		var err error
		sel, err = loadItem(tx, r.root, r.key)
		return err
	})
	if err != nil {
		r.err("unable to load saved events: %s", err)
		return storage.Selection{}
	}
	return sel
}

// Save
func (r *repo) Save(sel storage.Selection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.open(); err != nil {
		return err
	}
	defer r.close()

	return r.d.Update(func(tx *bolt.Tx) error {
		return save(tx, r.root, r.key, sel)
	})
}

// Update loads, changes and saves the selection in a single transaction.
// A corrupt value is replaced as if the selection was empty.
func (r *repo) Update(fn func(storage.Selection) storage.Selection) (storage.Selection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.open(); err != nil {
		return storage.Selection{}, err
	}
	defer r.close()

	var sel storage.Selection
	err := r.d.Update(func(tx *bolt.Tx) error {
		old, err := loadItem(tx, r.root, r.key)
		if err != nil {
			r.err("discarding saved events: %s", err)
		}
		sel = fn(old)
		return save(tx, r.root, r.key, sel)
	})
	if err == nil {
		r.log("saved %d events", sel.Len())
	}
	return sel, err
}

func loadItem(tx *bolt.Tx, root, key []byte) (storage.Selection, error) {
	rb := tx.Bucket(root)
	if rb == nil {
		return storage.Selection{}, errors.Newf("invalid bucket %s", root)
	}
	// missing keys decode to an empty selection
	return storage.Decode(rb.Get(key))
}

func save(tx *bolt.Tx, root, key []byte, sel storage.Selection) error {
	rb := tx.Bucket(root)
	if rb == nil {
		return errors.Newf("invalid bucket %s", root)
	}
	if !rb.Writable() {
		return errors.Newf("non writeable bucket %s", root)
	}
	raw, err := storage.Encode(sel)
	if err != nil {
		return errors.Annotatef(err, "could not marshal saved events")
	}
	if err := rb.Put(key, raw); err != nil {
		return errors.Annotatef(err, "could not store saved events")
	}
	return nil
}
