package storage

import (
	"encoding/json"
	"sync"

	"github.com/go-ap/errors"
)

// Key is the name under which the saved event ids are persisted.
const Key = "gni_saved_events_v1"

// Selection is a set of event ids. It keeps the order in which ids were added.
// The zero value is an empty selection.
type Selection struct {
	ids []string
}

func NewSelection(ids ...string) Selection {
	return Selection{}.Add(ids...)
}

func (s Selection) Contains(id string) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle returns a new selection with id removed if it was present, or added otherwise.
func (s Selection) Toggle(id string) Selection {
	if !s.Contains(id) {
		return s.Add(id)
	}
	res := Selection{ids: make([]string, 0, len(s.ids))}
	for _, v := range s.ids {
		if v != id {
			res.ids = append(res.ids, v)
		}
	}
	return res
}

// Add returns the union of the selection and ids.
func (s Selection) Add(ids ...string) Selection {
	res := Selection{ids: make([]string, len(s.ids), len(s.ids)+len(ids))}
	copy(res.ids, s.ids)
	for _, id := range ids {
		if !res.Contains(id) {
			res.ids = append(res.ids, id)
		}
	}
	return res
}

func (s Selection) IDs() []string {
	res := make([]string, len(s.ids))
	copy(res, s.ids)
	return res
}

func (s Selection) Len() int {
	return len(s.ids)
}

// Equals reports whether both selections hold the same ids, regardless of order.
func (s Selection) Equals(other Selection) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, id := range s.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

func (s *Selection) UnmarshalJSON(raw []byte) error {
	ids := make([]string, 0)
	if err := json.Unmarshal(raw, &ids); err != nil {
		return err
	}
	*s = NewSelection(ids...)
	return nil
}

// Decode parses a persisted selection, a JSON array of strings.
func Decode(raw []byte) (Selection, error) {
	if len(raw) == 0 {
		return Selection{}, nil
	}
	sel := Selection{}
	if err := json.Unmarshal(raw, &sel); err != nil {
		return Selection{}, errors.Annotatef(err, "invalid saved events value")
	}
	return sel, nil
}

func Encode(s Selection) ([]byte, error) {
	return json.Marshal(s)
}

type Loader interface {
	// Load returns the persisted selection, an empty one when missing or unreadable.
	Load() Selection
}

type Saver interface {
	// Save overwrites the persisted selection.
	Save(Selection) error
}

type Store interface {
	Loader
	Saver
}

// Updater is implemented by stores that can load, change and save a selection atomically.
type Updater interface {
	Update(func(Selection) Selection) (Selection, error)
}

func update(st Store, fn func(Selection) Selection) (Selection, error) {
	if u, ok := st.(Updater); ok {
		return u.Update(fn)
	}
	sel := fn(st.Load())
	return sel, st.Save(sel)
}

// Toggle flips id in the persisted selection and saves it right away.
func Toggle(st Store, id string) (Selection, error) {
	return update(st, func(s Selection) Selection {
		return s.Toggle(id)
	})
}

// Add saves the union of the persisted selection and ids.
func Add(st Store, ids ...string) (Selection, error) {
	return update(st, func(s Selection) Selection {
		return s.Add(ids...)
	})
}

// Memory keeps the encoded selection in memory, like a single browser storage entry.
type Memory struct {
	mu  sync.Mutex
	raw []byte
}

func NewMemory(raw []byte) *Memory {
	return &Memory{raw: raw}
}

func (m *Memory) Load() Selection {
	m.mu.Lock()
	defer m.mu.Unlock()

	sel, err := Decode(m.raw)
	if err != nil {
		return Selection{}
	}
	return sel
}

func (m *Memory) Save(s Selection) error {
	raw, err := Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.raw = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.raw
}
