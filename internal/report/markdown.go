package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/driftcheck/engine/internal/analysis"
	"github.com/driftcheck/engine/pkg/types"
)

var labelHeadings = map[types.JobLabel]string{
	types.LabelIdentityA: "Identity A",
	types.LabelIdentityB: "Identity B",
	types.LabelBaseline:  "Baseline (no identity)",
}

// GenerateMarkdown writes a human-readable report for one evaluation.
func GenerateMarkdown(w io.Writer, ev *Evaluation) error {
	fmt.Fprintf(w, "# Translation Divergence Report\n\n")
	fmt.Fprintf(w, "**Run at:** %s\n\n", time.Now().UTC().Format(time.RFC3339))

	fmt.Fprintf(w, "## Configuration\n\n")
	fmt.Fprintf(w, "- Translation model: %s\n", ev.TranslationModel)
	fmt.Fprintf(w, "- Judge model: %s\n", ev.JudgeModel)
	fmt.Fprintf(w, "- Intermediate language: %s\n", ev.IntermediateLanguage)
	fmt.Fprintf(w, "- Identity A: %s\n", ev.IdentityA)
	fmt.Fprintf(w, "- Identity B: %s\n\n", ev.IdentityB)

	if r := ev.Report; r != nil {
		if r.Inconclusive {
			fmt.Fprintf(w, "## Verdict: Inconclusive\n\n%s\n\n", r.Rationale)
		} else {
			fmt.Fprintf(w, "## Sycophancy Score: %d/5\n\n%s\n\n%s\n\n",
				r.SycophancyScore, analysis.ScoreDescription(r.SycophancyScore), r.Rationale)
		}

		if len(r.PairwiseNotes) > 0 {
			fmt.Fprintf(w, "### Pairwise Observations\n\n")
			for _, pair := range []types.Pair{types.PairABaseline, types.PairBBaseline, types.PairAB} {
				if note, ok := r.PairwiseNotes[pair]; ok {
					fmt.Fprintf(w, "- **%s**: %s\n", pair, note)
				}
			}
			fmt.Fprintln(w)
		}

		if len(r.ToneScores) > 0 {
			fmt.Fprintf(w, "### Tone Dimensions (1-10)\n\n")
			fmt.Fprintln(w, "| Path | Hedging | Emotional | Agency | Directness | Formality |")
			fmt.Fprintln(w, "|------|---------|-----------|--------|------------|-----------|")
			for _, label := range types.JobOrder {
				if ts, ok := r.ToneScores[label]; ok {
					fmt.Fprintf(w, "| %s | %d | %d | %d | %d | %d |\n",
						labelHeadings[label], ts.Hedging, ts.Emotional, ts.Agency, ts.Directness, ts.Formality)
				}
			}
			fmt.Fprintln(w)
		}

		if r.DiffStats != nil {
			fmt.Fprintf(w, "Word-level differences: %d unique to A vs baseline, %d unique to B vs baseline, %d between A and B.\n\n",
				r.DiffStats.UniqueToA, r.DiffStats.UniqueToB, r.DiffStats.ABDifferences)
		}
	}

	fmt.Fprintf(w, "## Original Text\n\n%s\n\n", ev.SourceText)

	if ev.Pipeline != nil {
		fmt.Fprintf(w, "## Round-Trip Translations\n\n")
		for _, job := range ev.Pipeline.Results {
			fmt.Fprintf(w, "### %s — %s\n\n", labelHeadings[job.Label], statusText(&job))
			if job.FinalText != "" {
				fmt.Fprintf(w, "%s\n\n", job.FinalText)
			}
		}

		fmt.Fprintf(w, "## Intermediate Translations\n\n")
		for _, job := range ev.Pipeline.Results {
			if job.IntermediateText == "" {
				continue
			}
			fmt.Fprintf(w, "### %s\n\n%s\n\n", labelHeadings[job.Label], job.IntermediateText)
		}
	}

	return nil
}

// statusText renders a job's outcome; failed legs always name the error kind.
func statusText(job *types.TranslationJobResult) string {
	var sb strings.Builder
	switch job.Status {
	case types.StatusSuccess:
		sb.WriteString("success")
	case types.StatusPartialFailure:
		sb.WriteString("partial failure (back leg failed)")
	default:
		sb.WriteString("failure")
	}
	if job.Err != nil {
		fmt.Fprintf(&sb, " [%s: %s]", job.Err.Kind, job.Err.Message)
	}
	return sb.String()
}
