package serper_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"blogbrain/pkg/research/serper"
	"blogbrain/pkg/serrors"

	"github.com/stretchr/testify/require"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(fn rtFunc) *serper.Client {
	return serper.New(&http.Client{Transport: fn}, "test-key")
}

func TestClient_Search_success(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "google.serper.dev", r.URL.Host)
		require.Equal(t, "/search", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "test-key", r.Header.Get("X-API-KEY"))

		var req struct {
			Q   string `json:"q"`
			Num int    `json:"num"`
		}
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &req))
		require.Equal(t, "transformer interpretability", req.Q)
		require.Equal(t, 5, req.Num)

		//nolint: lll
		respBody := `{"organic":[{"title":"Attention paper","link":"https://arxiv.org/abs/1706.03762","snippet":"We propose...","position":1},{"title":"No position field","link":"https://example.com/x","snippet":"..."}]}`

		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(respBody))}, nil
	})

	results, err := c.Search(context.Background(), "transformer interpretability", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "https://arxiv.org/abs/1706.03762", results[0].URL)
	require.Equal(t, 1, results[0].Position)
	require.Equal(t, 2, results[1].Position, "missing positions should be synthesized from order")
}

func TestClient_News_success(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "/news", r.URL.Path)

		//nolint: lll
		respBody := `{"news":[{"title":"AI funding news","link":"https://techcrunch.com/ai-story","snippet":"...","source":"TechCrunch","date":"2 hours ago","position":1}]}`

		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(respBody))}, nil
	})

	results, err := c.News(context.Background(), "AI funding", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "TechCrunch", results[0].Source)
	require.Equal(t, "2 hours ago", results[0].Date)
}

func TestClient_Search_emptyQuery(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		t.Fatal("no request expected for an empty query")

		return nil, nil
	})

	_, err := c.Search(context.Background(), "   ", 5)
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrValidation)
}

func TestClient_Search_rateLimited429(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(strings.NewReader("quota exceeded")),
		}, nil
	})

	_, err := c.Search(context.Background(), "llm agents", 5)
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrRateLimited, "expected ErrRateLimited kind: %v", err)
	require.Contains(t, err.Error(), "quota exceeded")
}

func TestClient_Search_badCredential(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		c := newTestClient(func(r *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(strings.NewReader("invalid api key")),
			}, nil
		})

		_, err := c.Search(context.Background(), "llm agents", 5)
		require.Error(t, err)
		require.ErrorIs(t, err, serrors.ErrAPIKey, "status %d should map to ErrAPIKey: %v", status, err)
	}
}

func TestClient_Search_non2xx(t *testing.T) {
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("upstream bad")),
		}, nil
	})

	_, err := c.Search(context.Background(), "llm agents", 5)
	require.Error(t, err)
	require.ErrorIs(t, err, serrors.ErrUnavailable)
	require.Contains(t, err.Error(), "upstream bad")
}

func TestClient_Search_limitClamped(t *testing.T) {
	var sentNum int
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		var req struct {
			Num int `json:"num"`
		}
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &req))
		sentNum = req.Num

		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(`{"organic":[]}`))}, nil
	})

	_, err := c.Search(context.Background(), "x y z q w", 0)
	require.NoError(t, err)
	require.Equal(t, serper.DefaultLimit, sentNum)

	_, err = c.Search(context.Background(), "x y z q w", 1000)
	require.NoError(t, err)
	require.Equal(t, serper.MaxLimit, sentNum)
}
