// Package research implements the research tool layer: web search against an
// external provider, credibility annotation and ranking of results, balanced
// multi-source aggregation and claim verification.
package research

import (
	"context"

	"blogbrain/pkg/sources"
)

// Result is a single raw search hit as returned by the search provider.
type Result struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet,omitempty"`
	Position int    `json:"position"`
	// Source and Date are only populated by news searches.
	Source string `json:"source,omitempty"`
	Date   string `json:"date,omitempty"`
}

// AnnotatedResult is a search hit enriched with its registrable domain and
// the credibility classification of that domain. Results from domains outside
// the credible-sources table carry CategoryOther and the default priority;
// they are demoted in ranking but never dropped.
type AnnotatedResult struct {
	Result

	Domain   string           `json:"domain"`
	Category sources.Category `json:"source_category"`
	Priority float64          `json:"credibility_score"`
}

// Client performs web searches against an external search provider.
// Implementations must be safe for concurrent use.
type Client interface {
	// Search runs an organic web search and returns up to limit results.
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	// News runs a news search and returns up to limit results.
	News(ctx context.Context, query string, limit int) ([]Result, error)
}
