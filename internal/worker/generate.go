package worker

import (
	"blogbrain/internal/generator"
	"blogbrain/pkg/domain"
	"blogbrain/pkg/logger"
	"blogbrain/pkg/serrors"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// GenerateWorker is a River worker that runs the content pipeline for a
// generation job through the generator service.
//
// Error handling: if the generator reports a conflict (no pending posts remain
// for the request), the job is canceled since there is nothing left to
// produce. If an upstream provider rate limits the run, the job is snoozed for
// a fixed interval; the providers give no reset deadline, so the snooze
// duration is configuration-driven. Other errors are returned to River, which
// retries up to the job's MaxAttempts.
type GenerateWorker struct {
	river.WorkerDefaults[generator.JobArgs]

	generator generator.Generator
	// timeout bounds a single pipeline run and is reported to River so the
	// job context matches the pipeline deadline.
	timeout time.Duration
	// rateLimitSnooze is how long a rate limited job sleeps before retrying.
	rateLimitSnooze time.Duration
}

// NewGenerateWorker constructs a GenerateWorker using the provided generator.
func NewGenerateWorker(gen generator.Generator, timeout, rateLimitSnooze time.Duration) *GenerateWorker {
	return &GenerateWorker{
		generator:       gen,
		timeout:         timeout,
		rateLimitSnooze: rateLimitSnooze,
	}
}

// Timeout reports the per-job timeout to River. Generation runs a multi-stage
// LLM pipeline, so the default job timeout is far too short.
func (w *GenerateWorker) Timeout(*river.Job[generator.JobArgs]) time.Duration {
	return w.timeout
}

// Work executes a single generation job and maps generator errors to the
// appropriate River actions.
func (w *GenerateWorker) Work(ctx context.Context, job *river.Job[generator.JobArgs]) error {
	ctx = logger.WithFields(ctx,
		zap.Int64("jobID", job.ID),
		zap.String("topic", job.Args.Topic))

	req := domain.GenerationRequest{
		Topic:           job.Args.Topic,
		TargetAudience:  job.Args.TargetAudience,
		Tone:            domain.Tone(job.Args.Tone),
		ExcludeKeywords: job.Args.ExcludeKeywords,
	}

	if err := w.generator.Generate(ctx, req); err != nil {
		if errors.Is(err, serrors.ErrConflict) {
			return river.JobCancel(err) //nolint: wrapcheck
		}

		logger.Error(ctx, "error generating post", zap.Error(err))

		if errors.Is(err, serrors.ErrRateLimited) {
			return river.JobSnooze(w.rateLimitSnooze) //nolint: wrapcheck
		}

		return fmt.Errorf("could not generate post: %w", err)
	}

	logger.Info(ctx, "post generated successfully")

	return nil
}
