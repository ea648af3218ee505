package events

const DefaultFeaturedScore = 95

// DefaultFeaturedIDs holds the tonight picks of the guide.
var DefaultFeaturedIDs = []string{
	"art-miami",
	"context-art-miami",
	"wynwood-walls-museum-only-human",
	"miami-art-week-at-faena-library-of-us-reading-room-tracing-time-tropical-stomping-grounds",
	"superblue-miami-immersive-art",
	"nada-miami",
}

// Featured is the allow-list of event ids that get promoted as tonight picks.
type Featured struct {
	ids   map[string]struct{}
	score int
}

func NewFeatured(score int, ids ...string) Featured {
	f := Featured{ids: make(map[string]struct{}, len(ids)), score: score}
	for _, id := range ids {
		f.ids[id] = struct{}{}
	}
	return f
}

func DefaultFeatured() Featured {
	return NewFeatured(DefaultFeaturedScore, DefaultFeaturedIDs...)
}

func (f Featured) Contains(id string) bool {
	_, ok := f.ids[id]
	return ok
}

func (f Featured) Score() int {
	return f.score
}

func (f Featured) apply(e *Event) {
	e.TonightFeatured = f.Contains(e.ID)
	e.CuratorPickScore = 0
	if e.TonightFeatured {
		e.CuratorPickScore = f.score
	}
}
