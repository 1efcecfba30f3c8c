package domain

import (
	"time"

	"github.com/google/uuid"
)

// PostID uniquely identifies a blog post generation job.
// It wraps uuid.UUID to provide type safety at the domain layer.
type PostID uuid.UUID

// PostStatus represents the lifecycle state of a post.
// It can be pending, completed, or failed.
type PostStatus string

const (
	// PostStatusPending indicates generation has been enqueued but not finished yet.
	PostStatusPending PostStatus = "PENDING"
	// PostStatusCompleted indicates generation finished and the article is available.
	PostStatusCompleted PostStatus = "COMPLETED"
	// PostStatusFailed indicates generation ended with an error; see LastError and Attempts for details.
	PostStatusFailed PostStatus = "FAILED"
)

// ArticleMetadata carries the SEO envelope of a finished article.
type ArticleMetadata struct {
	SEOTitle          string `json:"seo_title,omitempty"`
	MetaDescription   string `json:"meta_description,omitempty"`
	Slug              string `json:"slug,omitempty"`
	FocusKeyword      string `json:"focus_keyword,omitempty"`
	EstimatedReadTime string `json:"estimated_read_time,omitempty"`
	WordCount         int    `json:"word_count,omitempty"`
	PublishedDate     string `json:"published_date,omitempty"`
}

// ArticleContent holds the article body in both publishing formats.
type ArticleContent struct {
	HTMLBody     string `json:"html_body,omitempty"`
	MarkdownBody string `json:"markdown_body,omitempty"`
}

// QualityChecks records the editorial review verdicts attached to an article.
type QualityChecks struct {
	AIIsmsRemoved    bool   `json:"ai_isms_removed"`
	CitationsCount   int    `json:"citations_count"`
	ReadabilityScore string `json:"readability_score,omitempty"`
	SEOCompliance    string `json:"seo_compliance,omitempty"`
	HumanSounding    bool   `json:"human_sounding"`
}

// Article is the finished product of a generation run.
type Article struct {
	Metadata      ArticleMetadata `json:"metadata"`
	Content       ArticleContent  `json:"content"`
	Sources       []string        `json:"sources,omitempty"`
	QualityChecks *QualityChecks  `json:"quality_checks,omitempty"`
	EditorNotes   string          `json:"editor_notes,omitempty"`
}

// Post represents a single blog post generation request and its current state.
// It tracks the request parameters, status, article result, error information,
// and timestamps.
type Post struct {
	// ID is the unique identifier of the post.
	ID PostID `json:"id"`

	// Topic is the subject the article is written about.
	Topic string `json:"topic"`
	// TargetAudience describes who the article is written for.
	TargetAudience string `json:"target_audience"`
	// Tone selects the writing voice of the article.
	Tone Tone `json:"tone"`
	// ExcludeKeywords lists terms the article must avoid.
	ExcludeKeywords []string `json:"exclude_keywords,omitempty"`
	// Key is the deduplication key derived from the normalized request
	// parameters. Posts with the same Key describe the same article.
	Key string `json:"-"`

	// Status is the current lifecycle state of the post.
	Status PostStatus `json:"status"`
	// Article contains the generated content once Status is COMPLETED.
	Article Article `json:"article"`

	// Attempts is the number of times the system has tried to generate this post.
	Attempts uint `json:"attempts"`
	// LastError stores the most recent error message, if any, encountered while generating.
	LastError string `json:"-"`

	// CreatedAt is the time when the generation request was created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the time when the post was last updated (e.g., status or article changed).
	UpdatedAt time.Time `json:"updatedAt"`
	// DeletedAt marks when the post was soft-deleted; zero value means not deleted.
	DeletedAt time.Time `json:"-"`
}
