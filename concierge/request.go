package concierge

import (
	"git.sr.ht/~mariusor/gni/events"
)

type Mode string

const (
	ModeEvent Mode = "event"
	ModeRoute Mode = "route"
)

type Budget string

const (
	BudgetMid     Budget = "mid"
	BudgetHigh    Budget = "high"
	BudgetNoLimit Budget = "nolimit"
)

var Budgets = []Budget{BudgetMid, BudgetHigh, BudgetNoLimit}

type Vibe string

const (
	VibeArtFirst          Vibe = "art-first"
	VibeHighEnergy        Vibe = "high-energy"
	VibeUnderground       Vibe = "underground"
	VibeCelebrityAdjacent Vibe = "celebrity-adjacent"
)

var Vibes = []Vibe{VibeArtFirst, VibeHighEnergy, VibeUnderground, VibeCelebrityAdjacent}

var labels = map[string]string{
	string(BudgetMid):             "Mid",
	string(BudgetHigh):            "High",
	string(BudgetNoLimit):         "No-limit",
	string(VibeArtFirst):          "Art-first & social",
	string(VibeHighEnergy):        "High-energy party",
	string(VibeUnderground):       "Underground / after-hours",
	string(VibeCelebrityAdjacent): "Celebrity-adjacent",
}

func (b Budget) Label() string {
	return labels[string(b)]
}

func (v Vibe) Label() string {
	return labels[string(v)]
}

// Target is what a concierge request is about: a single event or a route of events.
type Target interface {
	Mode() Mode
	Title() string
	EventIDs() []string
}

// EventTarget asks the concierge about one event.
type EventTarget struct {
	Event events.Event
}

func (t EventTarget) Mode() Mode {
	return ModeEvent
}

func (t EventTarget) Title() string {
	return t.Event.Name
}

func (t EventTarget) EventIDs() []string {
	return []string{t.Event.ID}
}

// RouteTarget asks the concierge about a sequence of events.
type RouteTarget struct {
	Name string
	IDs  []string
}

func (t RouteTarget) Mode() Mode {
	return ModeRoute
}

func (t RouteTarget) Title() string {
	return t.Name
}

func (t RouteTarget) EventIDs() []string {
	ids := make([]string, len(t.IDs))
	copy(ids, t.IDs)
	return ids
}

// CustomBriefTitle is the title of a route request made from the saved events.
const CustomBriefTitle = "Custom concierge brief"

type Preferences struct {
	PartySize int
	Budget    Budget
	Vibe      Vibe
	Notes     string
}

func DefaultPreferences() Preferences {
	return Preferences{
		PartySize: 2,
		Budget:    BudgetMid,
		Vibe:      VibeArtFirst,
	}
}

// Request is the body of a concierge submission.
type Request struct {
	Mode      Mode     `json:"mode"`
	Title     string   `json:"title"`
	EventIDs  []string `json:"eventIds"`
	PartySize int      `json:"partySize"`
	Budget    Budget   `json:"budget"`
	Vibe      Vibe     `json:"vibe"`
	Notes     string   `json:"notes"`
}

func NewRequest(t Target, p Preferences) Request {
	ids := t.EventIDs()
	if ids == nil {
		ids = make([]string, 0)
	}
	return Request{
		Mode:      t.Mode(),
		Title:     t.Title(),
		EventIDs:  ids,
		PartySize: p.PartySize,
		Budget:    p.Budget,
		Vibe:      p.Vibe,
		Notes:     p.Notes,
	}
}

// Ack is the response of the concierge endpoint.
type Ack struct {
	OK bool `json:"ok"`
}
