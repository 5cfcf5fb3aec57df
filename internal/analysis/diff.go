package analysis

import (
	"strings"

	"github.com/driftcheck/engine/pkg/types"
)

// ComputeDiffStats summarizes word-level divergence between the two
// identity-conditioned texts and the baseline. It is a cheap quantitative
// companion to the judge verdict, not a substitute for it.
func ComputeDiffStats(textA, textB, baseline string) *types.DiffStats {
	wordsA := strings.Fields(textA)
	wordsB := strings.Fields(textB)
	wordsBase := strings.Fields(baseline)

	lcsABase := lcsLen(wordsA, wordsBase)
	lcsBBase := lcsLen(wordsB, wordsBase)
	lcsAB := lcsLen(wordsA, wordsB)

	return &types.DiffStats{
		UniqueToA:     len(wordsA) - lcsABase,
		UniqueToB:     len(wordsB) - lcsBBase,
		ABDifferences: (len(wordsA) - lcsAB) + (len(wordsB) - lcsAB),
	}
}

// lcsLen returns the length of the longest common subsequence of a and b.
// The texts involved are short enough that the quadratic table is fine.
func lcsLen(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
