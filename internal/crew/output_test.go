package crew

import (
	"blogbrain/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

const approvedOutput = "Here is the final article.\n\n```json\n" + `{
  "status": "approved",
  "metadata": {
    "seo_title": "AI in Customer Service: A Practical Guide",
    "meta_description": "Learn how AI is changing customer service.",
    "slug": "ai-in-customer-service",
    "focus_keyword": "ai customer service",
    "estimated_read_time": "8 mins",
    "word_count": 1850,
    "published_date": "2026-08-01"
  },
  "content": {
    "html_body": "<h1>AI in Customer Service</h1><p>Body.</p><script>alert(1)</script>",
    "markdown_body": "# AI in Customer Service\n\nBody."
  },
  "sources": ["https://arxiv.org/abs/2401.00001", "https://openai.com/research/x"],
  "quality_checks": {
    "ai_isms_removed": true,
    "citations_count": 12,
    "readability_score": "good",
    "seo_compliance": "passed",
    "human_sounding": true
  },
  "editor_notes": "Tightened the introduction."
}` + "\n```\n"

func TestParseArticle_ApprovedCodeBlock(t *testing.T) {
	t.Parallel()

	article, err := ParseArticle(approvedOutput)
	require.NoError(t, err)
	require.NotNil(t, article)

	require.Equal(t, "AI in Customer Service: A Practical Guide", article.Metadata.SEOTitle)
	require.Equal(t, "ai-in-customer-service", article.Metadata.Slug)
	require.Equal(t, 1850, article.Metadata.WordCount)
	require.Len(t, article.Sources, 2)
	require.NotNil(t, article.QualityChecks)
	require.True(t, article.QualityChecks.HumanSounding)
	require.Equal(t, 12, article.QualityChecks.CitationsCount)
	require.Equal(t, "Tightened the introduction.", article.EditorNotes)

	// script injected by the model must not survive
	require.NotContains(t, article.Content.HTMLBody, "<script>")
	require.Contains(t, article.Content.HTMLBody, "<h1>AI in Customer Service</h1>")
}

func TestParseArticle_BareJSON(t *testing.T) {
	t.Parallel()

	raw := `{
		"status": "approved",
		"metadata": {"seo_title": "Bare JSON Title"},
		"content": {"markdown_body": "# Title\n\nSome body text with https://example.com/source cited."}
	}`

	article, err := ParseArticle(raw)
	require.NoError(t, err)

	// missing metadata gets synthesized
	require.Equal(t, "bare-json-title", article.Metadata.Slug)
	require.Positive(t, article.Metadata.WordCount)
	require.Equal(t, "1 min", article.Metadata.EstimatedReadTime)
	require.NotEmpty(t, article.Metadata.PublishedDate)
	require.Equal(t, []string{"https://example.com/source"}, article.Sources)
}

func TestParseArticle_Rejected(t *testing.T) {
	t.Parallel()

	raw := "```json\n" + `{
		"status": "rejected",
		"reason": "heavy AI-isms throughout",
		"required_changes": ["remove banned phrases", "add citations"]
	}` + "\n```"

	article, err := ParseArticle(raw)
	require.Error(t, err)
	require.Nil(t, article)
	require.ErrorIs(t, err, serrors.ErrGeneration)
	require.Contains(t, err.Error(), "heavy AI-isms")
	require.Contains(t, err.Error(), "remove banned phrases")
}

func TestParseArticle_PlainTextFallback(t *testing.T) {
	t.Parallel()

	raw := "The model ignored the format and wrote a plain paragraph instead."

	article, err := ParseArticle(raw)
	require.NoError(t, err)
	require.Equal(t, "Generated Content", article.Metadata.SEOTitle)
	require.Equal(t, "generated-content", article.Metadata.Slug)
	require.Equal(t, raw, article.Content.MarkdownBody)
	require.Contains(t, article.Content.HTMLBody, raw)
	require.Positive(t, article.Metadata.WordCount)
}

func TestParseArticle_MalformedJSONInBlock(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"status\": \"approved\", \"metadata\": {\n```"

	article, err := ParseArticle(raw)
	require.Error(t, err)
	require.Nil(t, article)
	require.ErrorIs(t, err, serrors.ErrGeneration)
}
