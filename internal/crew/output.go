package crew

import (
	"blogbrain/pkg/domain"
	"blogbrain/pkg/serrors"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// editorOutput is the JSON envelope the editor agent is instructed to emit.
type editorOutput struct {
	Status          string                 `json:"status"`
	Metadata        domain.ArticleMetadata `json:"metadata"`
	Content         domain.ArticleContent  `json:"content"`
	Sources         []string               `json:"sources"`
	QualityChecks   *domain.QualityChecks  `json:"quality_checks"`
	EditorNotes     string                 `json:"editor_notes"`
	Reason          string                 `json:"reason"`
	RequiredChanges []string               `json:"required_changes"`
}

// ParseArticle extracts the final article from the editor's raw output. The
// editor normally wraps JSON in a fenced code block; bare JSON and plain text
// outputs are handled as fallbacks so a usable article is returned whenever
// possible. A rejected draft is reported as a generation error.
func ParseArticle(raw string) (*domain.Article, error) {
	jsonStr, found := extractJSONBlock(raw)
	if !found {
		jsonStr = strings.TrimSpace(raw)
	}

	var out editorOutput
	if err := sonic.UnmarshalString(jsonStr, &out); err != nil {
		if found {
			return nil, serrors.Wrap(serrors.ErrGeneration, err, "could not parse editor output")
		}

		// no JSON anywhere, treat the whole output as a plain-text article
		return plainTextArticle(raw), nil
	}

	if out.Status == "rejected" {
		reason := out.Reason
		if len(out.RequiredChanges) > 0 {
			reason += "; required changes: " + strings.Join(out.RequiredChanges, "; ")
		}

		return nil, serrors.With(serrors.ErrGeneration, "editor rejected the draft: %s", reason)
	}

	article := &domain.Article{
		Metadata:      out.Metadata,
		Content:       out.Content,
		Sources:       out.Sources,
		QualityChecks: out.QualityChecks,
		EditorNotes:   out.EditorNotes,
	}
	article.Content.HTMLBody = SanitizeHTML(article.Content.HTMLBody)
	fillMetadata(article)

	return article, nil
}

// extractJSONBlock returns the content of the first ```json fenced block.
func extractJSONBlock(raw string) (string, bool) {
	const fence = "```json"

	start := strings.Index(raw, fence)
	if start < 0 {
		return "", false
	}
	rest := raw[start+len(fence):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}

	return strings.TrimSpace(rest[:end]), true
}

// fillMetadata completes metadata fields the editor left empty.
func fillMetadata(article *domain.Article) {
	body := article.Content.MarkdownBody
	if body == "" {
		body = article.Content.HTMLBody
	}

	if article.Metadata.WordCount == 0 {
		article.Metadata.WordCount = CountWords(body)
	}
	if article.Metadata.EstimatedReadTime == "" {
		article.Metadata.EstimatedReadTime = ReadingTime(body)
	}
	if article.Metadata.Slug == "" && article.Metadata.SEOTitle != "" {
		article.Metadata.Slug = Slug(article.Metadata.SEOTitle)
	}
	if article.Metadata.PublishedDate == "" {
		article.Metadata.PublishedDate = time.Now().UTC().Format(time.DateOnly)
	}
	if len(article.Sources) == 0 {
		article.Sources = ExtractURLs(body)
	}
}

// plainTextArticle wraps a non-JSON editor output into an article with
// synthesized metadata.
func plainTextArticle(raw string) *domain.Article {
	article := &domain.Article{
		Metadata: domain.ArticleMetadata{
			SEOTitle:        "Generated Content",
			MetaDescription: Truncate(strings.TrimSpace(raw), 160, "..."),
			Slug:            "generated-content",
		},
		Content: domain.ArticleContent{
			MarkdownBody: raw,
			HTMLBody:     "<p>" + raw + "</p>",
		},
	}
	fillMetadata(article)

	return article
}
