package events

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Query holds the filter criteria of a list view. Zero values mean no constraint.
type Query struct {
	Text         string `json:"q,omitempty"`
	Type         string `json:"type,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	TonightOnly  bool   `json:"tonight,omitempty"`
}

func (q Query) IsZero() bool {
	return strings.TrimSpace(q.Text) == "" && q.Type == "" && q.Neighborhood == "" && !q.TonightOnly
}

func (q Query) tokens() []string {
	return strings.Fields(strings.ToLower(q.Text))
}

func (q Query) Match(e Event) bool {
	if q.Type != "" && !strings.EqualFold(e.Type, q.Type) {
		return false
	}
	if q.Neighborhood != "" && !strings.EqualFold(e.Neighborhood, q.Neighborhood) {
		return false
	}
	if q.TonightOnly && !e.TonightFeatured {
		return false
	}
	tokens := q.tokens()
	if len(tokens) == 0 {
		return true
	}
	hay := searchText(e)
	for _, t := range tokens {
		if !strings.Contains(hay, t) {
			return false
		}
	}
	return true
}

func searchText(e Event) string {
	return strings.ToLower(joinNonEmpty(" ", e.Name, e.Notes, e.Location, e.Producer, e.Sponsors, e.Type, e.DateRange))
}

// Filter returns a new list with the events matching q.
// The result is ordered featured first, then by descending score, then by name.
func Filter(list Events, q Query) Events {
	res := list.Select(q.Match)
	Sort(res)
	return res
}

// Sort orders the list in place: featured first, descending score, then by name.
// Events equal on all keys keep their relative order.
func Sort(list Events) {
	cl := collate.New(language.English)
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.TonightFeatured != b.TonightFeatured {
			return a.TonightFeatured
		}
		if a.CuratorPickScore != b.CuratorPickScore {
			return a.CuratorPickScore > b.CuratorPickScore
		}
		return cl.CompareString(a.Name, b.Name) < 0
	})
}

// Options holds the values available for the list filters.
type Options struct {
	Types         []string `json:"types"`
	Neighborhoods []string `json:"neighborhoods"`
}

// FacetOptions returns the sorted distinct non-empty types and neighborhoods of list.
func FacetOptions(list Events) Options {
	types := make([]string, 0)
	neighborhoods := make([]string, 0)
	for _, e := range list {
		types = appendUnique(types, e.Type)
		neighborhoods = appendUnique(neighborhoods, e.Neighborhood)
	}
	sort.Strings(types)
	sort.Strings(neighborhoods)
	return Options{Types: types, Neighborhoods: neighborhoods}
}

func appendUnique(list []string, s string) []string {
	if s == "" {
		return list
	}
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
