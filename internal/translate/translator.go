package translate

import (
	"context"
	"errors"

	"github.com/driftcheck/engine/internal/llm"
	"github.com/driftcheck/engine/pkg/types"
)

// RoundTripTranslator performs one source→intermediate→English translation
// as two sequential completion calls. It carries no retry policy of its own;
// retries are the pipeline's decision.
type RoundTripTranslator struct {
	provider  llm.Provider
	languages *Registry
	model     string
}

// NewRoundTripTranslator creates a translator using the given provider and
// model. An empty model falls back to the provider default.
func NewRoundTripTranslator(provider llm.Provider, languages *Registry, model string) *RoundTripTranslator {
	if model == "" {
		model = provider.DefaultModel()
	}
	return &RoundTripTranslator{provider: provider, languages: languages, model: model}
}

// RoundTrip executes both legs for one labeled job.
//
// Forward failure is terminal: the result is a Failure and no second call is
// attempted. Back failure after a successful forward leg yields a
// PartialFailure with the intermediate text retained for diagnostics.
func (t *RoundTripTranslator) RoundTrip(ctx context.Context, req types.TranslationRequest, label types.JobLabel) types.TranslationJobResult {
	lang, ok := t.languages.Lookup(req.IntermediateLanguage)
	if !ok {
		return types.TranslationJobResult{
			Label:  label,
			Status: types.StatusFailure,
			Err: &types.ErrorInfo{
				Kind:    types.ErrKindService,
				Status:  400,
				Message: "unrecognized intermediate language: " + req.IntermediateLanguage,
			},
		}
	}

	intermediate, err := t.complete(ctx, ForwardPrompt(req.Identity, lang.Name, req.SourceText))
	if err != nil {
		return types.TranslationJobResult{Label: label, Status: types.StatusFailure, Err: classify(err)}
	}

	final, err := t.complete(ctx, BackPrompt(req.Identity, lang.Name, intermediate))
	if err != nil {
		return types.TranslationJobResult{
			Label:            label,
			IntermediateText: intermediate,
			Status:           types.StatusPartialFailure,
			Err:              classify(err),
		}
	}

	return types.TranslationJobResult{
		Label:            label,
		IntermediateText: intermediate,
		FinalText:        final,
		Status:           types.StatusSuccess,
	}
}

func (t *RoundTripTranslator) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := t.provider.Complete(ctx, &llm.CompletionRequest{
		Model:       t.model,
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Temperature: 0.0,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// classify maps any error onto the serializable taxonomy. Adapter errors
// pass through unmodified; context expiry becomes a timeout.
func classify(err error) *types.ErrorInfo {
	var info *types.ErrorInfo
	if errors.As(err, &info) {
		return info
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &types.ErrorInfo{Kind: types.ErrKindTimeout, Message: err.Error()}
	}
	return &types.ErrorInfo{Kind: types.ErrKindTransport, Message: err.Error()}
}
