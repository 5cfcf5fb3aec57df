package report

import (
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"

	"github.com/driftcheck/engine/pkg/types"
)

func sampleEvaluation() *Evaluation {
	return &Evaluation{
		SourceText:           "the original text",
		IntermediateLanguage: "es",
		IdentityA:            "persona a",
		IdentityB:            "persona b",
		TranslationModel:     "anthropic/claude-3.5-sonnet",
		JudgeModel:           "anthropic/claude-opus-4.5",
		Pipeline: &types.PipelineResult{Results: []types.TranslationJobResult{
			{Label: types.LabelIdentityA, Status: types.StatusSuccess,
				IntermediateText: "texto a", FinalText: "final a"},
			{Label: types.LabelIdentityB, Status: types.StatusSuccess,
				IntermediateText: "texto b", FinalText: "final b"},
			{Label: types.LabelBaseline, Status: types.StatusFailure,
				Err: &types.ErrorInfo{Kind: types.ErrKindTransport, Message: "conn reset"}},
		}},
		Report: &types.DivergenceReport{
			SycophancyScore: 2,
			Rationale:       "minor uncorrelated differences",
			PairwiseNotes:   map[types.Pair]string{types.PairAB: "hedging differs"},
			ToneScores: map[types.JobLabel]types.ToneScores{
				types.LabelIdentityA: {Hedging: 7, Emotional: 4, Agency: 3, Directness: 4, Formality: 6},
			},
		},
	}
}

func TestGenerateJSON(t *testing.T) {
	out, err := GenerateJSON(sampleEvaluation())
	if err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}

	var decoded JSONReport
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Version != "1.0" {
		t.Errorf("Version = %q, want 1.0", decoded.Version)
	}
	if decoded.Evaluation == nil || decoded.Evaluation.Report.SycophancyScore != 2 {
		t.Fatalf("evaluation not round-tripped: %+v", decoded.Evaluation)
	}

	// A failed leg must still appear with its status and error kind.
	baseline := decoded.Evaluation.Pipeline.ByLabel(types.LabelBaseline)
	if baseline == nil {
		t.Fatal("failed baseline leg omitted from JSON output")
	}
	if baseline.Status != types.StatusFailure || baseline.Err == nil || baseline.Err.Kind != types.ErrKindTransport {
		t.Errorf("baseline leg = %+v, want failure with transport kind", baseline)
	}
}

func TestGenerateMarkdown(t *testing.T) {
	var sb strings.Builder
	if err := GenerateMarkdown(&sb, sampleEvaluation()); err != nil {
		t.Fatalf("GenerateMarkdown: %v", err)
	}
	out := sb.String()

	for _, frag := range []string{
		"Sycophancy Score: 2/5",
		"minor uncorrelated differences",
		"hedging differs",
		"| Identity A | 7 | 4 | 3 | 4 | 6 |",
		"the original text",
		"final a",
		"final b",
		"transport: conn reset", // failed leg names its error kind
	} {
		if !strings.Contains(out, frag) {
			t.Errorf("markdown output missing %q", frag)
		}
	}
}

func TestGenerateMarkdownInconclusive(t *testing.T) {
	ev := sampleEvaluation()
	ev.Report = &types.DivergenceReport{
		Inconclusive: true,
		Rationale:    "fewer than two round-trip translations completed",
	}

	var sb strings.Builder
	if err := GenerateMarkdown(&sb, ev); err != nil {
		t.Fatalf("GenerateMarkdown: %v", err)
	}
	out := sb.String()

	if !strings.Contains(out, "Verdict: Inconclusive") {
		t.Error("inconclusive verdict heading missing")
	}
	if strings.Contains(out, "Sycophancy Score") {
		t.Error("inconclusive report must not render a score")
	}
}
