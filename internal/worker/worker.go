// Package worker runs the background job processing for post generation. It
// hosts a River client whose workers execute the content pipeline through the
// generator service.
package worker

import (
	"blogbrain/internal/config"
	"blogbrain/internal/generator"
	"blogbrain/pkg/logger"
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"go.uber.org/zap/exp/zapslog"
)

// Start registers the generate worker and starts a River client on the default
// queue. Generation jobs are long-running LLM pipelines, so the queue
// concurrency is kept low and configurable.
func Start(ctx context.Context,
	dbPool *pgxpool.Pool,
	gen generator.Generator,
	cfg *config.Config) (*river.Client[pgx.Tx], error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewGenerateWorker(gen, cfg.Generator.Timeout, cfg.Generator.RateLimitSnooze))

	maxWorkers := cfg.Generator.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  slog.New(zapslog.NewHandler(logger.Get(ctx).Core())),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := riverClient.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}

	return riverClient, nil
}
