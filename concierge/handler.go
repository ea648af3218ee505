package concierge

import (
	"encoding/json"
	"io"
	"net/http"

	"git.sr.ht/~mariusor/lw"
	"github.com/google/uuid"
)

const maxBodySize = 1 << 20

// ObserverFn is called for every acknowledged request.
type ObserverFn func(Request)

// Handler returns the concierge endpoint. It accepts any well formed JSON body,
// logs it and acknowledges it. Nothing is validated or stored.
func Handler(l lw.Logger, observers ...ObserverFn) http.Handler {
	if l == nil {
		l = lw.Nil()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeAck(w, http.StatusMethodNotAllowed, false)
			return
		}
		id := uuid.New().String()
		w.Header().Set("X-Request-Id", id)

		raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil || !json.Valid(raw) {
			l.WithContext(lw.Ctx{"request": id}).Warnf("Invalid concierge request")
			writeAck(w, http.StatusBadRequest, false)
			return
		}

		req := Request{}
		if err := json.Unmarshal(raw, &req); err != nil {
			// well formed, but not shaped like a request: acknowledge it anyway
			l.WithContext(lw.Ctx{"request": id}).Infof("Concierge request %s", raw)
		} else {
			l.WithContext(lw.Ctx{
				"request":   id,
				"mode":      req.Mode,
				"title":     req.Title,
				"events":    req.EventIDs,
				"partySize": req.PartySize,
				"budget":    req.Budget,
				"vibe":      req.Vibe,
			}).Infof("Concierge request: %s", req.Notes)
		}
		for _, fn := range observers {
			fn(req)
		}
		writeAck(w, http.StatusOK, true)
	})
}

func writeAck(w http.ResponseWriter, status int, ok bool) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Ack{OK: ok})
}
