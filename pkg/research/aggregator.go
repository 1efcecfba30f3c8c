package research

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"blogbrain/pkg/logger"
	"blogbrain/pkg/serrors"
	"blogbrain/pkg/sources"

	"go.uber.org/zap"
)

const (
	// DefaultMaxQueryDomains caps how many site: operators go into a single
	// query; longer queries get rejected or truncated by the provider.
	DefaultMaxQueryDomains = 15
	// DefaultMaxRetries bounds transparent retries of transient search
	// failures. Rate-limit and credential errors are never retried.
	DefaultMaxRetries = 3
	// DefaultMaxResults is the result count of a multi-source research run
	// when the caller does not ask for a specific limit.
	DefaultMaxResults = 20
	// DefaultMinSources is the default evidence pool size for claim
	// verification.
	DefaultMinSources = 3
	// VerifiedCredibility is the priority floor a source must reach to count
	// towards a "Verified" verdict.
	VerifiedCredibility = 0.8
	// verifiedSourceCount is how many high-credibility sources a claim needs
	// to be considered verified.
	verifiedSourceCount = 2
)

// Options tunes an Aggregator. The zero value picks sensible defaults.
type Options struct {
	// MaxQueryDomains caps site: operators per query (default 15).
	MaxQueryDomains int
	// MaxRetries bounds retries of transient search failures (default 3).
	MaxRetries int
	// MaxResults is the result count of a MultiSourceResearch run when the
	// caller does not ask for a specific limit (default 20).
	MaxResults int
	// MinCredibility is the priority floor a source must reach to count
	// towards a "Verified" claim verdict (default VerifiedCredibility).
	MinCredibility float64
	// MinSources is the default evidence pool size for claim verification
	// (default DefaultMinSources).
	MinSources int
	// Distribution overrides the target category shares for
	// MultiSourceResearch; nil uses sources.DefaultDistribution.
	Distribution map[sources.Category]float64
}

func (o Options) withDefaults() Options {
	if o.MaxQueryDomains <= 0 {
		o.MaxQueryDomains = DefaultMaxQueryDomains
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.MinCredibility <= 0 {
		o.MinCredibility = VerifiedCredibility
	}
	if o.MinSources <= 0 {
		o.MinSources = DefaultMinSources
	}
	if o.Distribution == nil {
		o.Distribution = sources.DefaultDistribution()
	}

	return o
}

// Aggregator combines a search client with the credibility classifier to
// produce annotated, ranked and balanced research results. It holds no
// mutable state and is safe for concurrent use.
type Aggregator struct {
	search     Client
	classifier *sources.Classifier
	opts       Options
}

// NewAggregator builds an Aggregator over the given search client and
// classifier.
func NewAggregator(search Client, classifier *sources.Classifier, opts Options) *Aggregator {
	return &Aggregator{
		search:     search,
		classifier: classifier,
		opts:       opts.withDefaults(),
	}
}

// Annotate attaches the registrable domain and credibility classification to
// each raw result. Results from unknown domains are kept and annotated with
// CategoryOther and the default priority.
func (a *Aggregator) Annotate(results []Result) []AnnotatedResult {
	out := make([]AnnotatedResult, 0, len(results))
	for _, r := range results {
		d := sources.ExtractDomain(r.URL)
		entry, known := a.classifier.Entry(r.URL)
		ar := AnnotatedResult{
			Result:   r,
			Domain:   d,
			Category: sources.CategoryOther,
			Priority: sources.DefaultPriority,
		}
		if known {
			ar.Category = entry.Category
			ar.Priority = entry.Priority
		}
		out = append(out, ar)
	}

	return out
}

// Rank orders results for consumption: in-table sources first, then by
// descending credibility, with provider position and URL as tie breakers so
// that the same input always yields the same order. The input slice is
// sorted in place and returned.
func Rank(results []AnnotatedResult) []AnnotatedResult {
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := results[i], results[j]
		ki := ri.Category != sources.CategoryOther
		kj := rj.Category != sources.CategoryOther
		if ki != kj {
			return ki
		}
		if ri.Priority != rj.Priority {
			return ri.Priority > rj.Priority
		}
		if ri.Position != rj.Position {
			return ri.Position < rj.Position
		}

		return ri.URL < rj.URL
	})

	return results
}

// Dedupe drops results whose canonical URL was already seen, keeping the
// first occurrence. Order is preserved.
func Dedupe(results []AnnotatedResult) []AnnotatedResult {
	seen := make(map[string]bool, len(results))
	out := results[:0]
	for _, r := range results {
		key := dedupeKey(r.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}

	return out
}

// Search runs a plain organic search and annotates the results. Transient
// provider failures and empty result pages are retried up to MaxRetries;
// rate-limit and credential errors surface immediately.
func (a *Aggregator) Search(ctx context.Context, query string, limit int) ([]AnnotatedResult, error) {
	results, err := a.searchWithRetry(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	return a.Annotate(results), nil
}

// News runs a news search and annotates the results.
func (a *Aggregator) News(ctx context.Context, query string, limit int) ([]AnnotatedResult, error) {
	results, err := a.search.News(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	return a.Annotate(results), nil
}

// DefaultDomainCategories is used by DomainSearch when the caller does not
// restrict categories.
func DefaultDomainCategories() []sources.Category {
	return []sources.Category{sources.CategoryAcademic, sources.CategoryCompanyResearch}
}

// DomainSearch searches within the credible domains of the given categories
// by folding site: operators into the query. It over-fetches, deduplicates
// and ranks, returning at most limit results with in-table sources first;
// hits from outside the table are demoted to the tail rather than dropped.
func (a *Aggregator) DomainSearch(
	ctx context.Context,
	query string,
	categories []sources.Category,
	limit int,
) ([]AnnotatedResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if len(categories) == 0 {
		categories = DefaultDomainCategories()
	}

	var domains []string
	for _, cat := range categories {
		domains = append(domains, a.classifier.Domains(cat)...)
	}
	if len(domains) == 0 {
		return nil, serrors.With(serrors.ErrValidation, "no credible domains for categories %v", categories)
	}
	if len(domains) > a.opts.MaxQueryDomains {
		domains = domains[:a.opts.MaxQueryDomains]
	}

	operators := make([]string, len(domains))
	for i, d := range domains {
		operators[i] = "site:" + d
	}
	enhanced := fmt.Sprintf("%s (%s)", query, strings.Join(operators, " OR "))

	logger.Debug(ctx, "searching credible domains",
		zap.String("query", query),
		zap.Int("domains", len(domains)))

	// over-fetch so that filtering and deduplication still fill the limit
	results, err := a.searchWithRetry(ctx, enhanced, limit*2)
	if err != nil {
		return nil, err
	}

	ranked := Rank(Dedupe(a.Annotate(results)))
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked, nil
}

// MultiSourceResearch assembles a balanced result set across all source
// categories according to the target distribution, deduplicates across
// categories and returns at most limit results ranked by credibility.
func (a *Aggregator) MultiSourceResearch(ctx context.Context, query string, limit int) ([]AnnotatedResult, error) {
	if limit <= 0 {
		limit = a.opts.MaxResults
	}

	var (
		all       []AnnotatedResult
		lastErr   error
		attempted int
		failed    int
	)
	for _, cat := range sources.TableCategories() {
		share := a.opts.Distribution[cat]
		target := int(float64(limit) * share)
		if target == 0 {
			continue
		}
		attempted++

		// extra headroom for cross-category deduplication
		batch, err := a.DomainSearch(ctx, query, []sources.Category{cat}, target+5)
		if err != nil {
			// quota and credential errors affect every category alike,
			// surface them so the caller can back off
			if errors.Is(err, serrors.ErrRateLimited) || errors.Is(err, serrors.ErrAPIKey) {
				return nil, fmt.Errorf("category %s: %w", cat, err)
			}
			// a single broken category must not discard the rest of the
			// research run
			logger.Warn(ctx, "category search failed, continuing",
				zap.String("category", string(cat)),
				zap.Error(err))
			lastErr = err
			failed++

			continue
		}
		all = append(all, batch...)
	}
	if attempted > 0 && failed == attempted {
		return nil, fmt.Errorf("all category searches failed: %w", lastErr)
	}

	ranked := Rank(Dedupe(all))
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	logger.Debug(ctx, "multi-source research done",
		zap.String("query", query),
		zap.Int("results", len(ranked)))

	return ranked, nil
}

// searchWithRetry retries transient failures and empty result pages only;
// semantic provider errors (quota, credentials, invalid query) are returned
// as is so callers can react to them.
func (a *Aggregator) searchWithRetry(ctx context.Context, query string, limit int) ([]Result, error) {
	var lastErr error
	for attempt := 1; attempt <= a.opts.MaxRetries; attempt++ {
		results, err := a.search.Search(ctx, query, limit)
		if err == nil && len(results) > 0 {
			return results, nil
		}
		if err != nil {
			if errors.Is(err, serrors.ErrRateLimited) ||
				errors.Is(err, serrors.ErrAPIKey) ||
				errors.Is(err, serrors.ErrValidation) ||
				ctx.Err() != nil {
				return nil, err
			}
			lastErr = err
		}

		if attempt < a.opts.MaxRetries {
			logger.Warn(ctx, "search attempt failed, retrying",
				zap.String("query", query),
				zap.Int("attempt", attempt),
				zap.Error(err))
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("search failed after %d attempts: %w", a.opts.MaxRetries, lastErr)
	}

	// provider reachable but consistently empty
	return nil, nil
}
