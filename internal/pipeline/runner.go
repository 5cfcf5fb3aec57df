package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/driftcheck/engine/internal/translate"
	"github.com/driftcheck/engine/pkg/types"
)

// Config holds the orchestration policy knobs. It is supplied once at
// construction and never mutated mid-run.
type Config struct {
	// JobTimeout bounds each round-trip job independently.
	JobTimeout time.Duration
	// Workers caps concurrent outbound fan-out; values below the job count
	// are raised to it so the three jobs always run in parallel.
	Workers int
	// RetryFailedJobs enables a single retry with backoff for jobs that
	// failed with a retryable error (5xx, timeout, transport).
	RetryFailedJobs bool
	RetryBackoff    time.Duration
}

const jobCount = 3

// Runner fans out the three round-trip translation jobs, isolates their
// failures, and joins the results in a fixed label order.
type Runner struct {
	translator *translate.RoundTripTranslator
	cfg        Config
	logger     *slog.Logger
}

// NewRunner creates a Runner. logger may be nil for a silent runner.
func NewRunner(translator *translate.RoundTripTranslator, cfg Config, logger *slog.Logger) *Runner {
	if cfg.Workers < jobCount {
		cfg.Workers = jobCount
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 3 * time.Minute
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{translator: translator, cfg: cfg, logger: logger}
}

// Run dispatches the identity-A, identity-B, and baseline jobs concurrently
// and blocks until all three have completed or the context is cancelled.
//
// One job's failure or timeout never cancels the other two. The returned
// results are always ordered [identity_a, identity_b, baseline] regardless of
// completion order. Total wall clock is bounded by the slowest job, not the
// sum. When ctx is cancelled mid-run, already-completed jobs keep their
// results and the cancellation error is returned alongside the partial result.
func (r *Runner) Run(ctx context.Context, text, intermediateLanguage, identityA, identityB string) (*types.PipelineResult, error) {
	jobs := [jobCount]struct {
		label    types.JobLabel
		identity string
	}{
		{types.LabelIdentityA, identityA},
		{types.LabelIdentityB, identityB},
		{types.LabelBaseline, ""},
	}

	result := &types.PipelineResult{
		Results:   make([]types.TranslationJobResult, jobCount),
		StartedAt: time.Now().UTC(),
	}

	sem := make(chan struct{}, r.cfg.Workers)
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, label types.JobLabel, identity string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				result.Results[idx] = cancelledResult(label, ctx.Err())
				return
			}

			req := types.TranslationRequest{
				SourceText:           text,
				IntermediateLanguage: intermediateLanguage,
				Identity:             identity,
			}
			result.Results[idx] = r.runJob(ctx, req, label)
		}(i, job.label, job.identity)
	}

	wg.Wait()
	result.CompletedAt = time.Now().UTC()

	for _, res := range result.Results {
		if res.Status != types.StatusSuccess {
			r.logger.Warn("translation job did not complete",
				"label", res.Label, "status", res.Status, "err", res.Err)
		}
	}

	return result, ctx.Err()
}

// runJob executes one round trip with its own deadline, retrying once when
// policy allows and the failure was retryable.
func (r *Runner) runJob(ctx context.Context, req types.TranslationRequest, label types.JobLabel) types.TranslationJobResult {
	res := r.attempt(ctx, req, label)
	if res.Status == types.StatusSuccess || !r.cfg.RetryFailedJobs {
		return res
	}
	if res.Err == nil || !res.Err.Retryable() {
		return res
	}

	r.logger.Info("retrying failed job", "label", label, "err", res.Err)
	select {
	case <-time.After(r.cfg.RetryBackoff):
	case <-ctx.Done():
		return res
	}
	return r.attempt(ctx, req, label)
}

func (r *Runner) attempt(ctx context.Context, req types.TranslationRequest, label types.JobLabel) types.TranslationJobResult {
	jobCtx, cancel := context.WithTimeout(ctx, r.cfg.JobTimeout)
	defer cancel()
	return r.translator.RoundTrip(jobCtx, req, label)
}

func cancelledResult(label types.JobLabel, err error) types.TranslationJobResult {
	msg := "pipeline cancelled"
	if err != nil {
		msg = err.Error()
	}
	return types.TranslationJobResult{
		Label:  label,
		Status: types.StatusFailure,
		Err:    &types.ErrorInfo{Kind: types.ErrKindTimeout, Message: msg},
	}
}
