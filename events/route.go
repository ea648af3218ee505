package events

// Route is a curated sequence of stops.
type Route struct {
	Title string   `json:"title" yaml:"title"`
	Copy  string   `json:"copy" yaml:"copy"`
	Badge string   `json:"badge,omitempty" yaml:"badge,omitempty"`
	IDs   []string `json:"ids" yaml:"ids"`
}

// Stops is a Route resolved against the current events.
type Stops struct {
	Route
	// Index is the position of the route in the configured list.
	Index  int    `json:"index"`
	Events Events `json:"stops"`
}

func (s Stops) IDs() []string {
	ids := make([]string, len(s.Events))
	for i, e := range s.Events {
		ids[i] = e.ID
	}
	return ids
}

func (s Stops) Label() string {
	if s.Badge == "" {
		return "Route"
	}
	return s.Badge
}

func DefaultRoutes() []Route {
	return []Route{
		{
			Title: "Basel Beach arrivals",
			Copy:  "Ease in with the quiet collector preview before sliding into Faena and the Scope opening terrace.",
			IDs:   []string{"no-vacancy-miami-beach", "faena-art", "scope-miami-beach-opening-night"},
			Badge: "Miami Beach",
		},
		{
			Title: "North Beach collector warm-up",
			Copy:  "Cadillac's Riviera show, Eden's invite list, and Untitled's VIP walkthrough in one arc.",
			IDs: []string{
				"art-exhibition-in-the-riveria-at-cadillac-hotel-beach-club",
				"eden-gallery",
				"untitled-art-miami-beach-vip-press-preview",
			},
			Badge: "Collector",
		},
		{
			Title: "Wynwood night run",
			Copy:  "Dense gallery crawl that keeps you within a few blocks of the best late energy.",
			IDs:   []string{"miami-art-week", "photomiami", "nada-miami-art-fair"},
			Badge: "Wynwood",
		},
	}
}

// ResolveRoutes matches the route stops against list. Unknown ids are skipped
// and routes without any known stop are left out.
func ResolveRoutes(routes []Route, list Events) []Stops {
	res := make([]Stops, 0, len(routes))
	for i, r := range routes {
		stops := list.Resolve(r.IDs...)
		if len(stops) == 0 {
			continue
		}
		res = append(res, Stops{Route: r, Index: i, Events: stops})
	}
	return res
}
