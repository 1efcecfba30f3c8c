// Package serper provides a research.Client implementation backed by the
// Serper.dev Google Search API.
package serper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"blogbrain/pkg/metrics"
	"blogbrain/pkg/research"
	"blogbrain/pkg/serrors"
)

const (
	searchEndpoint = "https://google.serper.dev/search"
	newsEndpoint   = "https://google.serper.dev/news"

	// DefaultLimit is used when the caller passes a non-positive limit.
	DefaultLimit = 10
	// MaxLimit caps a single request; Serper rejects larger page sizes.
	MaxLimit = 100
)

// Client talks to the Serper.dev REST API and fulfills the research.Client
// interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs HTTP requests to Serper.dev
	key        string       // key is the API key for Serper.dev
}

// New constructs a Client that uses the provided http.Client and API key to
// interact with the Serper.dev API.
func New(httpClient *http.Client, key string) *Client {
	return &Client{
		httpClient: httpClient,
		key:        key,
	}
}

// Ensure Client conforms to the research.Client interface at compile time.
var _ research.Client = (*Client)(nil)

// Search runs an organic Google search through Serper.dev.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]research.Result, error) {
	// https://serper.dev/playground
	var out struct {
		Organic []struct {
			Title    string `json:"title"`
			Link     string `json:"link"`
			Snippet  string `json:"snippet"`
			Position int    `json:"position"`
		} `json:"organic"`
	}
	if err := c.post(ctx, "search", searchEndpoint, query, limit, &out); err != nil {
		return nil, err
	}

	results := make([]research.Result, 0, len(out.Organic))
	for i, r := range out.Organic {
		pos := r.Position
		if pos == 0 {
			pos = i + 1
		}
		results = append(results, research.Result{
			Title:    r.Title,
			URL:      r.Link,
			Snippet:  r.Snippet,
			Position: pos,
		})
	}

	return results, nil
}

// News runs a Google News search through Serper.dev.
func (c *Client) News(ctx context.Context, query string, limit int) ([]research.Result, error) {
	var out struct {
		News []struct {
			Title    string `json:"title"`
			Link     string `json:"link"`
			Snippet  string `json:"snippet"`
			Source   string `json:"source"`
			Date     string `json:"date"`
			Position int    `json:"position"`
		} `json:"news"`
	}
	if err := c.post(ctx, "news", newsEndpoint, query, limit, &out); err != nil {
		return nil, err
	}

	results := make([]research.Result, 0, len(out.News))
	for i, r := range out.News {
		pos := r.Position
		if pos == 0 {
			pos = i + 1
		}
		results = append(results, research.Result{
			Title:    r.Title,
			URL:      r.Link,
			Snippet:  r.Snippet,
			Position: pos,
			Source:   r.Source,
			Date:     r.Date,
		})
	}

	return results, nil
}

// post performs one Serper.dev call and decodes the response into out,
// translating provider failures into semantic error kinds so that callers can
// distinguish quota exhaustion from credential problems and timeouts.
func (c *Client) post(ctx context.Context, endpointName, endpoint, query string, limit int, out any) error {
	if strings.TrimSpace(query) == "" {
		return serrors.With(serrors.ErrValidation, "empty search query")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	type searchReq struct {
		Q   string `json:"q"`
		Num int    `json:"num"`
		GL  string `json:"gl"`
		HL  string `json:"hl"`
	}
	bodyBytes, err := json.Marshal(searchReq{Q: query, Num: limit, GL: "us", HL: "en"})
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(bodyBytes)))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(endpointName, outcomeOf(err)).Inc()

		var ne net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return serrors.Wrap(serrors.ErrTimeout, err, "search request timed out")
		}

		return fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(endpointName, "error").Inc()

		return fmt.Errorf("could not read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.SearchRequestsTotal.WithLabelValues(endpointName, "rate_limited").Inc()

		return serrors.With(serrors.ErrRateLimited, "search rate limited: %s", strings.TrimSpace(string(b)))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		metrics.SearchRequestsTotal.WithLabelValues(endpointName, "auth").Inc()

		return serrors.With(serrors.ErrAPIKey, "search credential rejected: %s", strings.TrimSpace(string(b)))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		metrics.SearchRequestsTotal.WithLabelValues(endpointName, "error").Inc()

		return serrors.With(serrors.ErrUnavailable, "search failed with status %d: %s",
			resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if err := json.Unmarshal(b, out); err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(endpointName, "error").Inc()

		return fmt.Errorf("could not decode response: %w", err)
	}
	metrics.SearchRequestsTotal.WithLabelValues(endpointName, "ok").Inc()

	return nil
}

func outcomeOf(err error) string {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return "timeout"
	}

	return "error"
}
