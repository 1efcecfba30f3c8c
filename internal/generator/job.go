package generator

import (
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// JobArgs contains the arguments for a generation job submitted to River.
// The request key is used as the unique key for jobs to prevent duplicate
// work for equivalent requests.
type JobArgs struct {
	// Key is the canonical request identity. It is marked as unique so River
	// can enforce one job per request according to InsertOpts.UniqueOpts.
	Key string `json:"key" river:"unique"`

	Topic           string   `json:"topic"`
	TargetAudience  string   `json:"target_audience"`
	Tone            string   `json:"tone"`
	ExcludeKeywords []string `json:"exclude_keywords,omitempty"`

	// maxAttempts configures the maximum number of times River should retry the job.
	maxAttempts int
	// uniqueJobPeriod defines the lookback window during which a job with the
	// same key is considered a duplicate across the specified states.
	uniqueJobPeriod time.Duration
}

// Kind returns the River job kind used to register and dispatch the generate worker.
func (args JobArgs) Kind() string { return "GeneratePostJob" }

// InsertOpts returns the River options that control how the job is enqueued,
// including the maximum retry attempts and uniqueness constraints to prevent
// duplicate jobs for the same request across multiple job states.
func (args JobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
		// make sure we only have one job per request key in any state
		UniqueOpts: river.UniqueOpts{
			ByArgs:   true,
			ByPeriod: args.uniqueJobPeriod,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStateCompleted,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}
