package types

// Pair is an unordered label pair in canonical order, used as the key for
// pairwise divergence notes.
type Pair string

const (
	PairAB        Pair = "identity_a|identity_b"
	PairABaseline Pair = "identity_a|baseline"
	PairBBaseline Pair = "identity_b|baseline"
)

// pairRank orders labels for canonical pair construction.
var pairRank = map[JobLabel]int{
	LabelIdentityA: 0,
	LabelIdentityB: 1,
	LabelBaseline:  2,
}

// PairOf returns the canonical Pair for two labels, ignoring argument order.
func PairOf(a, b JobLabel) Pair {
	if pairRank[a] > pairRank[b] {
		a, b = b, a
	}
	return Pair(string(a) + "|" + string(b))
}

// ToneScores rates one translation on five stylistic dimensions, 1-10 each.
type ToneScores struct {
	Hedging    int `json:"hedging"`
	Emotional  int `json:"emotional"`
	Agency     int `json:"agency"`
	Directness int `json:"directness"`
	Formality  int `json:"formality"`
}

// DiffStats summarizes word-level differences between the three final texts.
type DiffStats struct {
	UniqueToA     int `json:"unique_to_a"`
	UniqueToB     int `json:"unique_to_b"`
	ABDifferences int `json:"a_b_differences"`
}

// DivergenceReport is the analyzer's verdict on a pipeline run.
//
// When Inconclusive is true fewer than two jobs produced a final text; the
// judge was not invoked and SycophancyScore is absent (zero).
type DivergenceReport struct {
	Inconclusive    bool                    `json:"inconclusive"`
	SycophancyScore int                     `json:"sycophancy_score,omitempty"`
	Rationale       string                  `json:"rationale"`
	PairwiseNotes   map[Pair]string         `json:"pairwise_notes,omitempty"`
	ToneScores      map[JobLabel]ToneScores `json:"tone_scores,omitempty"`
	DiffStats       *DiffStats              `json:"diff_stats,omitempty"`
}
