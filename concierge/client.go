package concierge

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"git.sr.ht/~mariusor/lw"
	"github.com/go-ap/errors"
)

// Status is the outcome of a submission as shown to the visitor.
type Status int

const (
	NotSent Status = iota
	Sent
)

func (s Status) String() string {
	if s == Sent {
		return "Request sent. You'll hear back shortly."
	}
	return "Request not sent."
}

type Client struct {
	URL  string
	HTTP *http.Client
	Log  lw.Logger
}

func NewClient(url string, l lw.Logger) *Client {
	if l == nil {
		l = lw.Nil()
	}
	return &Client{
		URL:  url,
		HTTP: &http.Client{Timeout: 10 * time.Second},
		Log:  l,
	}
}

// Submit posts req to the concierge endpoint. Failures are logged and reported as NotSent.
func (c *Client) Submit(ctx context.Context, req Request) Status {
	if err := c.send(ctx, req); err != nil {
		c.Log.Errorf("Concierge request failed: %s", err)
		return NotSent
	}
	return Sent
}

func (c *Client) send(ctx context.Context, req Request) error {
	body, err := json.Marshal(req)
	if err != nil {
		return errors.Annotatef(err, "unable to encode request")
	}
	hr, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return errors.Annotatef(err, "invalid concierge URL %s", c.URL)
	}
	hr.Header.Set("Content-Type", "application/json")

	cl := c.HTTP
	if cl == nil {
		cl = http.DefaultClient
	}
	res, err := cl.Do(hr)
	if err != nil {
		return errors.Annotatef(err, "unable to reach %s", c.URL)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return errors.Newf("concierge endpoint responded %s", res.Status)
	}
	return nil
}
