package scraper

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
)

type scrapeRequest struct {
	URL string `json:"url"`
}

// Tool exposes the scraper as an invokable tool for a tool-calling agent.
func (s *Scraper) Tool() (tool.BaseTool, error) {
	return utils.InferTool("scrape_website",
		"Fetch a webpage and extract its title and main readable content, with navigation, "+
			"scripts and other boilerplate removed. Use it to read an article found via search.",
		func(ctx context.Context, req *scrapeRequest) (*Page, error) {
			return s.Scrape(ctx, req.URL)
		})
}
