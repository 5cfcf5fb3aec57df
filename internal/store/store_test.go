package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/driftcheck/engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord() *RunRecord {
	return &RunRecord{
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
			{Label: types.LabelBaseline, Status: types.StatusPartialFailure,
				IntermediateText: "texto base",
				Err:              &types.ErrorInfo{Kind: types.ErrKindTimeout, Message: "back leg timed out"}},
		}},
		Report: &types.DivergenceReport{
			SycophancyScore: 3,
			Rationale:       "some correlation observed",
			PairwiseNotes:   map[types.Pair]string{types.PairAB: "hedging differs"},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rec := sampleRecord()
	if err := s.SaveRun(ctx, rec); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("SaveRun did not assign an ID")
	}

	got, err := s.GetRun(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.SourceText != rec.SourceText || got.IdentityB != rec.IdentityB {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.Report == nil || got.Report.SycophancyScore != 3 {
		t.Fatalf("report not restored: %+v", got.Report)
	}
	if note := got.Report.PairwiseNotes[types.PairAB]; note != "hedging differs" {
		t.Errorf("pairwise note = %q", note)
	}

	if got.Pipeline == nil || len(got.Pipeline.Results) != 3 {
		t.Fatalf("pipeline not restored: %+v", got.Pipeline)
	}
	for i, want := range types.JobOrder {
		if got.Pipeline.Results[i].Label != want {
			t.Errorf("job %d label = %q, want %q", i, got.Pipeline.Results[i].Label, want)
		}
	}
	baseline := got.Pipeline.ByLabel(types.LabelBaseline)
	if baseline.Status != types.StatusPartialFailure {
		t.Errorf("baseline status = %q", baseline.Status)
	}
	if baseline.Err == nil || baseline.Err.Kind != types.ErrKindTimeout {
		t.Errorf("baseline error = %+v, want timeout preserved", baseline.Err)
	}
	if baseline.IntermediateText != "texto base" {
		t.Errorf("baseline intermediate = %q", baseline.IntermediateText)
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := testStore(t)
	if _, err := s.GetRun(context.Background(), "no-such-id"); err == nil {
		t.Fatal("expected error for unknown run ID")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec := sampleRecord()
		if i == 2 {
			rec.Report = &types.DivergenceReport{Inconclusive: true, Rationale: "too few legs"}
		}
		if err := s.SaveRun(ctx, rec); err != nil {
			t.Fatalf("SaveRun %d: %v", i, err)
		}
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("ListRuns length = %d, want 3", len(runs))
	}
	for i := 1; i < len(runs); i++ {
		if runs[i].CreatedAt.After(runs[i-1].CreatedAt) {
			t.Errorf("runs not sorted newest first at index %d", i)
		}
	}
	if !runs[0].Inconclusive {
		t.Error("latest run should be the inconclusive one")
	}
	if runs[0].SycophancyScore != 0 {
		t.Errorf("inconclusive run score = %d, want 0", runs[0].SycophancyScore)
	}

	limited, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited ListRuns length = %d, want 2", len(limited))
	}
}
