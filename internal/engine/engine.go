package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/driftcheck/engine/internal/analysis"
	"github.com/driftcheck/engine/internal/config"
	"github.com/driftcheck/engine/internal/llm"
	"github.com/driftcheck/engine/internal/pipeline"
	"github.com/driftcheck/engine/internal/store"
	"github.com/driftcheck/engine/internal/translate"
	"github.com/driftcheck/engine/pkg/types"
)

// EvaluateRequest is the single inbound operation's input.
type EvaluateRequest struct {
	SourceText           string
	IntermediateLanguage string
	IdentityA            string
	IdentityB            string
}

// EvaluateResult carries the joined pipeline outcome and the divergence verdict.
type EvaluateResult struct {
	RunID    string
	Pipeline *types.PipelineResult
	Report   *types.DivergenceReport
}

// Engine wires the pipeline and analyzer behind the one inbound operation.
// Configuration is fixed at construction and never mutated mid-run.
type Engine struct {
	cfg      *config.Config
	runner   *pipeline.Runner
	analyzer *analysis.Analyzer
	store    *store.Store
	logger   *slog.Logger
}

// New assembles an Engine from an immutable config plus the translation and
// judge completion providers. Both providers expose the same capability; they
// may be the same instance. st may be nil to disable run persistence.
func New(cfg *config.Config, translation, judge llm.Provider, st *store.Store, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	languages, err := translate.NewRegistry(cfg.Languages)
	if err != nil {
		return nil, err
	}
	translator := translate.NewRoundTripTranslator(translation, languages, cfg.TranslationModel)
	runner := pipeline.NewRunner(translator, pipeline.Config{
		JobTimeout:      cfg.JobTimeout,
		Workers:         cfg.Workers,
		RetryFailedJobs: cfg.RetryFailedJobs,
		RetryBackoff:    cfg.RetryBackoff,
	}, logger)

	return &Engine{
		cfg:      cfg,
		runner:   runner,
		analyzer: analysis.NewAnalyzer(judge, cfg.JudgeModel),
		store:    st,
		logger:   logger,
	}, nil
}

// NewFromConfig builds an Engine with a rate-limited OpenRouter provider
// shared by the translation and judge paths. The judge model is configured
// outside the translation menu, so it is added to the provider's allow-list
// explicitly.
func NewFromConfig(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Engine, error) {
	allowed := cfg.Models
	if len(allowed) > 0 && !slices.Contains(allowed, cfg.JudgeModel) {
		allowed = append(slices.Clone(allowed), cfg.JudgeModel)
	}
	provider, err := llm.NewOpenRouterProvider(llm.OpenRouterConfig{
		APIKey:        cfg.APIKey,
		BaseURL:       cfg.BaseURL,
		DefaultModel:  cfg.TranslationModel,
		AllowedModels: allowed,
		Timeout:       cfg.JobTimeout,
	})
	if err != nil {
		return nil, err
	}
	limited, err := llm.NewRateLimitedProvider(provider, llm.RateLimiterConfig{
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Burst:             cfg.RateLimit.Burst,
		MaxRetries:        cfg.RateLimit.MaxRetries,
		InitialBackoff:    cfg.RateLimit.InitialBackoff,
		MaxBackoff:        cfg.RateLimit.MaxBackoff,
	})
	if err != nil {
		return nil, err
	}
	return New(cfg, limited, limited, st, logger)
}

// Evaluate runs the three-path pipeline and the divergence analysis
// synchronously, returning after both complete or failing with a reported
// error. A cancelled pipeline still reports any jobs that finished.
func (e *Engine) Evaluate(ctx context.Context, req EvaluateRequest) (*EvaluateResult, error) {
	if strings.TrimSpace(req.SourceText) == "" {
		return nil, fmt.Errorf("evaluate: source text is empty")
	}
	if req.IdentityA == "" || req.IdentityB == "" {
		return nil, fmt.Errorf("evaluate: both identity statements are required")
	}

	e.logger.Info("starting evaluation",
		"language", req.IntermediateLanguage,
		"chars", len(req.SourceText))

	pr, err := e.runner.Run(ctx, req.SourceText, req.IntermediateLanguage, req.IdentityA, req.IdentityB)
	if err != nil {
		return &EvaluateResult{Pipeline: pr}, fmt.Errorf("pipeline cancelled: %w", err)
	}

	report, err := e.analyzer.Analyze(ctx, req.SourceText, req.IdentityA, req.IdentityB, pr)
	if err != nil {
		return &EvaluateResult{Pipeline: pr}, fmt.Errorf("analysis failed: %w", err)
	}

	result := &EvaluateResult{Pipeline: pr, Report: report}

	if e.store != nil {
		rec := &store.RunRecord{
			SourceText:           req.SourceText,
			IntermediateLanguage: req.IntermediateLanguage,
			IdentityA:            req.IdentityA,
			IdentityB:            req.IdentityB,
			TranslationModel:     e.cfg.TranslationModel,
			JudgeModel:           e.cfg.JudgeModel,
			Pipeline:             pr,
			Report:               report,
		}
		if err := e.store.SaveRun(ctx, rec); err != nil {
			// Persistence is best-effort; the evaluation result stands.
			e.logger.Error("failed to persist run", "err", err)
		} else {
			result.RunID = rec.ID
		}
	}

	return result, nil
}
