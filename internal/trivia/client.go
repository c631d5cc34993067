// internal/trivia/client.go
//
// HTTP client for the remote trivia API.
// Endpoints consumed (read-only, unauthenticated, idempotent GETs):
//   - GET {base}/categories?count=<int>&offset=<int> → [CategoryRef]
//   - GET {base}/category?id=<id>                    → RawCategory
//
// Every request carries a hard timeout; a hung fetch fails the call
// instead of stalling a whole board build.

package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL points at the public jservice-compatible API.
const DefaultBaseURL = "https://jservice.io/api"

// requestTimeout bounds each individual API call.
const requestTimeout = 10 * time.Second

// Client talks to a remote trivia API over HTTP.
type Client struct {
	baseURL string
	hc      *http.Client
}

// NewClient constructs a Client for the given API base URL.
// An empty baseURL falls back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: requestTimeout},
	}
}

// Categories lists up to count candidate categories starting at offset.
func (c *Client) Categories(ctx context.Context, count, offset int) ([]CategoryRef, error) {
	q := url.Values{}
	q.Set("count", strconv.Itoa(count))
	q.Set("offset", strconv.Itoa(offset))

	var refs []CategoryRef
	if err := c.getJSON(ctx, "/categories?"+q.Encode(), &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// Category returns the full clue payload for one category id.
func (c *Client) Category(ctx context.Context, id int64) (RawCategory, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))

	var cat RawCategory
	if err := c.getJSON(ctx, "/category?"+q.Encode(), &cat); err != nil {
		return RawCategory{}, err
	}
	return cat, nil
}

// getJSON performs a GET against the API and decodes the JSON body into out.
// Non-2xx statuses and undecodable bodies are errors.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	u := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", u, err)
	}
	defer res.Body.Close()

	log.Debug().
		Str("url", u).
		Int("status", res.StatusCode).
		Dur("took", time.Since(start)).
		Msg("trivia api request")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("GET %s: unexpected status %d", u, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode body: %w", u, err)
	}
	return nil
}
