package concierge

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"git.sr.ht/~mariusor/lw"

	"git.sr.ht/~mariusor/gni/events"
)

func TestNewRequest(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		prefs  Preferences
		want   Request
	}{
		{
			name:   "event",
			target: EventTarget{Event: events.Event{ID: "art-basel", Name: "Art Basel"}},
			prefs:  DefaultPreferences(),
			want: Request{
				Mode:      ModeEvent,
				Title:     "Art Basel",
				EventIDs:  []string{"art-basel"},
				PartySize: 2,
				Budget:    BudgetMid,
				Vibe:      VibeArtFirst,
			},
		},
		{
			name:   "route",
			target: RouteTarget{Name: "Night out", IDs: []string{"a", "b"}},
			prefs:  Preferences{PartySize: 4, Budget: BudgetNoLimit, Vibe: VibeUnderground, Notes: "late"},
			want: Request{
				Mode:      ModeRoute,
				Title:     "Night out",
				EventIDs:  []string{"a", "b"},
				PartySize: 4,
				Budget:    BudgetNoLimit,
				Vibe:      VibeUnderground,
				Notes:     "late",
			},
		},
		{
			name:   "empty route",
			target: RouteTarget{Name: CustomBriefTitle},
			prefs:  DefaultPreferences(),
			want: Request{
				Mode:      ModeRoute,
				Title:     CustomBriefTitle,
				EventIDs:  []string{},
				PartySize: 2,
				Budget:    BudgetMid,
				Vibe:      VibeArtFirst,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRequest(tt.target, tt.prefs)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewRequest() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRequestWireShape(t *testing.T) {
	req := NewRequest(RouteTarget{Name: "r", IDs: []string{"x"}}, DefaultPreferences())
	raw, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("unable to marshal: %s", err)
	}
	want := `{"mode":"route","title":"r","eventIds":["x"],"partySize":2,"budget":"mid","vibe":"art-first","notes":""}`
	if string(raw) != want {
		t.Errorf("body = %s, want %s", raw, want)
	}
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		status int
		ok     bool
		seen   int
	}{
		{name: "request", method: http.MethodPost, body: `{"mode":"event","title":"x","eventIds":["x"]}`, status: http.StatusOK, ok: true, seen: 1},
		{name: "any json", method: http.MethodPost, body: `[1,2,3]`, status: http.StatusOK, ok: true, seen: 1},
		{name: "empty object", method: http.MethodPost, body: `{}`, status: http.StatusOK, ok: true, seen: 1},
		{name: "malformed", method: http.MethodPost, body: `{"mode":`, status: http.StatusBadRequest, ok: false},
		{name: "empty body", method: http.MethodPost, body: ``, status: http.StatusBadRequest, ok: false},
		{name: "wrong method", method: http.MethodGet, status: http.StatusMethodNotAllowed, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := 0
			h := Handler(lw.Nil(), func(Request) { seen++ })

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, "/api/concierge", strings.NewReader(tt.body)))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			ack := Ack{}
			if err := json.NewDecoder(rec.Body).Decode(&ack); err != nil {
				t.Fatalf("invalid response body: %s", err)
			}
			if ack.OK != tt.ok {
				t.Errorf("ok = %t, want %t", ack.OK, tt.ok)
			}
			if seen != tt.seen {
				t.Errorf("observed %d requests, want %d", seen, tt.seen)
			}
			if tt.method == http.MethodPost && rec.Header().Get("X-Request-Id") == "" {
				t.Errorf("missing X-Request-Id header")
			}
		})
	}
}

func TestHandlerObservesDecodedRequest(t *testing.T) {
	var got Request
	h := Handler(nil, func(r Request) { got = r })

	body := `{"mode":"route","title":"Art crawl","eventIds":["a","b"],"partySize":3,"budget":"high","vibe":"high-energy","notes":"n"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	want := Request{Mode: ModeRoute, Title: "Art crawl", EventIDs: []string{"a", "b"}, PartySize: 3, Budget: BudgetHigh, Vibe: VibeHighEnergy, Notes: "n"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("observed %#v, want %#v", got, want)
	}
}

func TestClientSubmit(t *testing.T) {
	var received Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("unable to read body: %s", err)
		}
		_ = json.Unmarshal(raw, &received)
		r.Body = io.NopCloser(bytes.NewReader(raw))
		Handler(nil).ServeHTTP(w, r)
	}))
	defer srv.Close()

	req := NewRequest(EventTarget{Event: events.Event{ID: "a", Name: "A"}}, DefaultPreferences())
	c := NewClient(srv.URL, lw.Nil())
	if st := c.Submit(context.Background(), req); st != Sent {
		t.Errorf("Submit() = %v, want %v", st, Sent)
	}
	if !reflect.DeepEqual(received, req) {
		t.Errorf("server received %#v, want %#v", received, req)
	}
}

func TestClientSubmitFailures(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	for name, url := range map[string]string{
		"server error": failing.URL,
		"unreachable":  closedURL,
		"invalid url":  "://nope",
	} {
		t.Run(name, func(t *testing.T) {
			c := NewClient(url, nil)
			if st := c.Submit(context.Background(), Request{Mode: ModeEvent}); st != NotSent {
				t.Errorf("Submit() = %v, want %v", st, NotSent)
			}
		})
	}
}

func TestLabels(t *testing.T) {
	for _, b := range Budgets {
		if b.Label() == "" {
			t.Errorf("missing label for budget %q", b)
		}
	}
	for _, v := range Vibes {
		if v.Label() == "" {
			t.Errorf("missing label for vibe %q", v)
		}
	}
}
