package research

import (
	"context"

	"blogbrain/pkg/sources"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

// Tool input/output shapes. The JSON tags define the schema the model is
// asked to fill in, so they must stay in sync with the ToolInfo parameters.

type searchRequest struct {
	Query      string `json:"query"`
	NumResults int    `json:"num_results,omitempty"`
}

type domainSearchRequest struct {
	Query      string   `json:"query"`
	Categories []string `json:"categories,omitempty"`
	NumResults int      `json:"num_results,omitempty"`
}

type verifyClaimRequest struct {
	Claim      string `json:"claim"`
	MinSources int    `json:"min_sources,omitempty"`
}

type searchResponse struct {
	Results []AnnotatedResult `json:"results"`
}

// Tools exposes the research layer as invokable tools for a tool-calling
// agent: plain web search, news search, credible-domain search, balanced
// multi-source research and claim verification.
func (a *Aggregator) Tools() ([]tool.BaseTool, error) {
	googleSearch, err := utils.InferTool("google_search",
		"Search Google and return organic results with title, url, snippet and position. "+
			"Results include a credibility_score and source_category for each url.",
		func(ctx context.Context, req *searchRequest) (*searchResponse, error) {
			results, err := a.Search(ctx, req.Query, req.NumResults)
			if err != nil {
				return nil, err
			}

			return &searchResponse{Results: results}, nil
		})
	if err != nil {
		return nil, err
	}

	newsSearch, err := utils.InferTool("news_search",
		"Search recent news articles. Returns title, url, snippet, source name and publication date.",
		func(ctx context.Context, req *searchRequest) (*searchResponse, error) {
			results, err := a.News(ctx, req.Query, req.NumResults)
			if err != nil {
				return nil, err
			}

			return &searchResponse{Results: results}, nil
		})
	if err != nil {
		return nil, err
	}

	domainSearch := utils.NewTool(
		&schema.ToolInfo{
			Name: "ai_domain_search",
			Desc: "Search only trusted AI domains (academic papers, company research labs, government) " +
				"for authoritative sources. Results are ranked by credibility.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     schema.String,
					Desc:     "Search query string.",
					Required: true,
				},
				"categories": {
					Type: schema.Array,
					Desc: "Source categories to search: academic, government, company_research, " +
						"industry, ai_blogs. Defaults to academic and company_research.",
					ElemInfo: &schema.ParameterInfo{Type: schema.String},
				},
				"num_results": {
					Type: schema.Integer,
					Desc: "Number of results to return (default 10).",
				},
			}),
		},
		func(ctx context.Context, req *domainSearchRequest) (*searchResponse, error) {
			cats := make([]sources.Category, 0, len(req.Categories))
			for _, s := range req.Categories {
				if cat, ok := sources.ParseCategory(s); ok {
					cats = append(cats, cat)
				}
			}
			results, err := a.DomainSearch(ctx, req.Query, cats, req.NumResults)
			if err != nil {
				return nil, err
			}

			return &searchResponse{Results: results}, nil
		})

	multiSource := utils.NewTool(
		&schema.ToolInfo{
			Name: "multi_source_research",
			Desc: "Comprehensive AI research across all credible source categories with balanced " +
				"diversity: roughly 40% academic, 25% company research, plus government, industry " +
				"and blog sources.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     schema.String,
					Desc:     "Search query string.",
					Required: true,
				},
				"num_results": {
					Type: schema.Integer,
					Desc: "Total number of results to return (default 20).",
				},
			}),
		},
		func(ctx context.Context, req *searchRequest) (*searchResponse, error) {
			results, err := a.MultiSourceResearch(ctx, req.Query, req.NumResults)
			if err != nil {
				return nil, err
			}

			return &searchResponse{Results: results}, nil
		})

	verifyClaim := utils.NewTool(
		&schema.ToolInfo{
			Name: "verify_ai_claim",
			Desc: "Verify a specific AI-related claim against academic, company research and " +
				"government sources. Returns a verification status, confidence and evidence.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"claim": {
					Type:     schema.String,
					Desc:     "The specific claim or statement to verify.",
					Required: true,
				},
				"min_sources": {
					Type: schema.Integer,
					Desc: "Minimum number of sources to check (default 3).",
				},
			}),
		},
		func(ctx context.Context, req *verifyClaimRequest) (*Verification, error) {
			return a.VerifyClaim(ctx, req.Claim, req.MinSources)
		})

	return []tool.BaseTool{googleSearch, newsSearch, domainSearch, multiSource, verifyClaim}, nil
}
