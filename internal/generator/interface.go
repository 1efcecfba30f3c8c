package generator

import (
	"blogbrain/pkg/domain"
	"context"
)

//go:generate mockgen -package mockgenerator -source=interface.go -destination=mock/mockgenerator.go *

// Generator coordinates blog post generation: it persists requests, enqueues
// background jobs, exposes read access to posts, and runs the generation
// pipeline on behalf of the background worker.
type Generator interface {
	// Enqueue stores a new generation request and schedules a background job
	// for it. When a fresh completed article already exists for an equivalent
	// request, the new post is completed immediately from that result.
	Enqueue(ctx context.Context, req domain.GenerationRequest) (*domain.Post, error)
	// Posts returns a page of posts filtered by optional status, using an
	// RFC3339 timestamp cursor for pagination.
	Posts(ctx context.Context,
		status domain.PostStatus,
		cursor string,
		limit uint) ([]domain.Post, string, error)
	// Post fetches a single post by ID.
	Post(ctx context.Context, postID domain.PostID) (*domain.Post, error)
	// Delete removes a post by ID.
	Delete(ctx context.Context, postID domain.PostID) error
	// Generate runs the content pipeline for the request and records the
	// outcome on all pending posts sharing the request key. It is called by
	// the background worker, not by the API.
	Generate(ctx context.Context, req domain.GenerationRequest) error
}

// Pipeline produces a finished article for a generation request. The
// multi-agent crew is the production implementation.
type Pipeline interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.Article, error)
}
