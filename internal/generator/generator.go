// Package generator implements the post generation service. It accepts
// generation requests, persists them as posts, coalesces duplicate work
// through unique background jobs, and runs the content pipeline when a job is
// picked up.
package generator

import (
	"blogbrain/internal/config"
	"blogbrain/pkg/domain"
	"blogbrain/pkg/logger"
	"blogbrain/pkg/metrics"
	"blogbrain/pkg/serrors"
	"blogbrain/pkg/storage"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Options configure how generation jobs are enqueued and how results are
// cached. These settings are typically derived from application configuration.
type Options struct {
	// MaxAttempts is the maximum number of attempts the background worker
	// should make on a generation job before marking the posts failed.
	MaxAttempts int
	// Timeout bounds a single pipeline run.
	Timeout time.Duration
	// ResultCacheTTL is the duration during which a completed article makes
	// new requests with the same key reuse that article instead of enqueueing
	// a duplicate job.
	ResultCacheTTL time.Duration
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		MaxAttempts:    cfg.Generator.MaxAttempts,
		Timeout:        cfg.Generator.Timeout,
		ResultCacheTTL: cfg.Generator.ResultCacheTTL,
	}
}

// generator is the concrete implementation of the Generator interface.
// It coordinates persistence with the storage layer, job enqueueing and the
// content pipeline.
type generator struct {
	options  Options
	storage  storage.Storage
	pipeline Pipeline
}

// New creates a new Generator backed by the provided storage and pipeline and
// configured with the given options.
func New(st storage.Storage, pipeline Pipeline, options Options) Generator {
	return &generator{
		options:  options,
		storage:  st,
		pipeline: pipeline,
	}
}

// Enqueue stores a new post for the request and attempts to enqueue a
// background job to generate it. If a recent completed article exists for an
// equivalent request (within ResultCacheTTL), the new post is immediately
// marked as completed with that article.
func (g *generator) Enqueue(ctx context.Context, req domain.GenerationRequest) (*domain.Post, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, serrors.Wrap(serrors.ErrValidation, err, "invalid generation request")
	}
	key := req.Key()

	var post *domain.Post
	if err := g.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		res, err := tx.StorePosts(ctx, domain.Post{
			Topic:           req.Topic,
			TargetAudience:  req.TargetAudience,
			Tone:            req.Tone,
			ExcludeKeywords: req.ExcludeKeywords,
			Key:             key,
			Status:          domain.PostStatusPending,
		})
		if err != nil {
			return fmt.Errorf("could not store post: %w", err)
		}
		post = &res[0]

		jobAdded, err := tx.AddJob(ctx, JobArgs{
			Key:             key,
			Topic:           req.Topic,
			TargetAudience:  req.TargetAudience,
			Tone:            string(req.Tone),
			ExcludeKeywords: req.ExcludeKeywords,
			maxAttempts:     g.options.MaxAttempts,
			uniqueJobPeriod: g.options.ResultCacheTTL,
		}, nil)
		if err != nil {
			return fmt.Errorf("could not add job: %w", err)
		}

		// if a job was not added, another job already exists for this request.
		// river unique jobs prevent duplicate jobs for the same key.
		if !jobAdded {
			// if the existing job already completed, reuse its article for the
			// new post as long as it is fresh enough
			since := time.Now().UTC().Add(-g.options.ResultCacheTTL)
			last, err := tx.LastCompletedPostByKey(ctx, key, since)
			if err != nil {
				return fmt.Errorf("could not get last completed post: %w", err)
			}

			if last != nil {
				updated, err := tx.UpdatePostByID(ctx, post.ID, storage.PostUpdates{
					Status:  domain.PostStatusCompleted,
					Article: &last.Article,
				})
				if err != nil {
					return fmt.Errorf("could not update post: %w", err)
				}
				post = updated
			} // else: the job is in the queue and will be processed soon.
			// The job updates all pending posts by key upon completion.
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("could not enqueue generation request: %w", err)
	}

	return post, nil
}

// Posts returns a page of posts filtered by optional status. It supports
// cursor-based pagination using an RFC3339 timestamp string and returns the
// next cursor when more results are available.
func (g *generator) Posts(ctx context.Context,
	status domain.PostStatus,
	cursor string,
	limit uint) ([]domain.Post, string, error) {
	var cursorTime time.Time
	if cursor != "" {
		t, err := time.Parse(time.RFC3339, cursor)
		if err != nil {
			return nil, "", serrors.Wrap(serrors.ErrValidation, err, "invalid cursor")
		}
		cursorTime = t
	}

	page, err := g.storage.Posts(ctx, status, cursorTime, limit)
	if err != nil {
		return nil, "", fmt.Errorf("could not get posts: %w", err)
	}

	var next string
	if page.NextCursor != nil {
		next = page.NextCursor.Format(time.RFC3339)
	}

	return page.Posts, next, nil
}

// Post fetches a single post by ID. It returns a not-found error when no
// matching post exists.
func (g *generator) Post(ctx context.Context, postID domain.PostID) (*domain.Post, error) {
	res, err := g.storage.PostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("could not get post: %w", err)
	}
	if res == nil {
		return nil, serrors.With(serrors.ErrNotFound, "post not found")
	}

	return res, nil
}

// Delete removes a post. If the post does not exist, a not-found error is
// returned. Jobs are not cancelled here because other pending posts may still
// depend on the same request job.
func (g *generator) Delete(ctx context.Context, postID domain.PostID) error {
	res, err := g.storage.DeletePost(ctx, postID)
	if err != nil {
		return fmt.Errorf("could not delete post: %w", err)
	}
	if res == nil {
		return serrors.With(serrors.ErrNotFound, "post not found")
	}

	// the queue job is kept because there might be other posts depending on it.
	// the worker makes sure there are still pending posts for the key before processing.

	return nil
}

// Generate runs the content pipeline for the request and applies the outcome
// to all pending posts sharing the request key.
func (g *generator) Generate(ctx context.Context, req domain.GenerationRequest) error {
	key := req.Key()

	count, err := g.storage.PendingPostCountByKey(ctx, key)
	if err != nil {
		return fmt.Errorf("could not count pending posts: %w", err)
	}
	// all posts for this request were completed from cache or deleted,
	// there is nothing left to generate
	if count == 0 {
		return serrors.With(serrors.ErrConflict, "no pending posts for request")
	}

	// outcome bookkeeping must still reach the database when the pipeline
	// run dies of its own deadline or cancellation
	updateCtx := context.WithoutCancel(ctx)

	if g.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.options.Timeout)
		defer cancel()
	}

	start := time.Now()
	article, err := g.pipeline.Generate(ctx, req)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		// rate limited runs are snoozed and retried by the worker without
		// consuming an attempt, so the posts stay pending untouched
		if errors.Is(err, serrors.ErrRateLimited) {
			metrics.GenerationsTotal.WithLabelValues("rate_limited").Inc()

			return err
		}

		metrics.GenerationsTotal.WithLabelValues("failure").Inc()

		msg := err.Error()
		if updateErr := g.storage.UpdatePendingPostsByKey(updateCtx, key, storage.PostUpdates{
			Status:      domain.PostStatusFailed,
			LastError:   &msg,
			MaxAttempts: g.options.MaxAttempts,
		}); updateErr != nil {
			logger.Error(updateCtx, "could not record generation failure",
				zap.String("key", key), zap.Error(updateErr))
		}

		return fmt.Errorf("could not generate article: %w", err)
	}

	empty := ""
	if err := g.storage.UpdatePendingPostsByKey(updateCtx, key, storage.PostUpdates{
		Status:    domain.PostStatusCompleted,
		Article:   article,
		LastError: &empty,
	}); err != nil {
		return fmt.Errorf("could not store generated article: %w", err)
	}

	metrics.GenerationsTotal.WithLabelValues("success").Inc()

	return nil
}
