package boltdb

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"

	"git.sr.ht/~mariusor/gni/storage"
)

func newTestRepo(t *testing.T) *repo {
	t.Helper()
	return New(Config{Path: filepath.Join(t.TempDir(), DefaultFile)})
}

func writeRaw(t *testing.T, r *repo, raw []byte) {
	t.Helper()
	if err := r.open(); err != nil {
		t.Fatalf("unable to open db: %s", err)
	}
	defer r.close()
	err := r.d.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(r.root).Put(r.key, raw)
	})
	if err != nil {
		t.Fatalf("unable to write raw value: %s", err)
	}
}

func TestLoadEmpty(t *testing.T) {
	r := newTestRepo(t)
	if sel := r.Load(); sel.Len() != 0 {
		t.Errorf("expected empty selection, got %v", sel.IDs())
	}
}

func TestLoadCorrupt(t *testing.T) {
	tests := map[string][]byte{
		"not json":     []byte("{nope"),
		"not a list":   []byte(`{"ids":["a"]}`),
		"not strings":  []byte(`[1, 2]`),
		"json null":    []byte(`null`),
		"empty string": []byte(``),
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			r := newTestRepo(t)
			writeRaw(t, r, raw)
			if sel := r.Load(); sel.Len() != 0 {
				t.Errorf("expected empty selection, got %v", sel.IDs())
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	r := newTestRepo(t)
	want := storage.NewSelection("art-miami", "nada-miami")
	if err := r.Save(want); err != nil {
		t.Fatalf("unable to save: %s", err)
	}
	got := r.Load()
	if !reflect.DeepEqual(got.IDs(), want.IDs()) {
		t.Errorf("Load() = %v, want %v", got.IDs(), want.IDs())
	}

	again := New(Config{Path: r.path})
	if !again.Load().Equals(want) {
		t.Errorf("selection was not persisted across repositories")
	}
}

func TestToggleAndAdd(t *testing.T) {
	r := newTestRepo(t)

	sel, err := storage.Toggle(r, "art-miami")
	if err != nil {
		t.Fatalf("unable to toggle: %s", err)
	}
	if !sel.Contains("art-miami") || !r.Load().Contains("art-miami") {
		t.Errorf("expected art-miami to be saved")
	}

	if _, err = storage.Add(r, "faena-art", "art-miami", "nada-miami"); err != nil {
		t.Fatalf("unable to add: %s", err)
	}
	want := []string{"art-miami", "faena-art", "nada-miami"}
	if got := r.Load().IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected ids %v, want %v", got, want)
	}

	if _, err = storage.Toggle(r, "art-miami"); err != nil {
		t.Fatalf("unable to toggle: %s", err)
	}
	if r.Load().Contains("art-miami") {
		t.Errorf("expected art-miami to be removed")
	}
}

func TestUpdateReplacesCorruptValue(t *testing.T) {
	r := newTestRepo(t)
	writeRaw(t, r, []byte("garbage"))

	sel, err := storage.Toggle(r, "faena-art")
	if err != nil {
		t.Fatalf("unable to toggle: %s", err)
	}
	if !reflect.DeepEqual(sel.IDs(), []string{"faena-art"}) {
		t.Errorf("unexpected selection %v", sel.IDs())
	}
}

func TestOpenFailure(t *testing.T) {
	errs := 0
	r := New(Config{
		Path:  filepath.Join(t.TempDir(), "missing", "dir", DefaultFile),
		ErrFn: func(string, ...interface{}) { errs++ },
	})
	if sel := r.Load(); sel.Len() != 0 {
		t.Errorf("expected empty selection")
	}
	if errs == 0 {
		t.Errorf("expected the failure to be logged")
	}
	if err := r.Save(storage.NewSelection("a")); err == nil {
		t.Errorf("expected save error")
	}
}

func TestLockedDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		t.Fatalf("unable to open db: %s", err)
	}
	defer db.Close()

	r := New(Config{Path: path, Timeout: 50 * time.Millisecond})
	done := make(chan error, 1)
	go func() {
		done <- r.Save(storage.NewSelection("a"))
	}()
	select {
	case err := <-done:
		if err == nil {
			t.Errorf("expected an error while the database is locked")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Save blocked on the locked database")
	}
	if sel := r.Load(); sel.Len() != 0 {
		t.Errorf("Load() = %v, want an empty selection", sel.IDs())
	}
}
