// Package engine assembles and compresses LLM context for narrative
// continuation. All components are pure functions over their inputs; the
// only I/O is the record reads at the start of Assembler.BuildSections.
package engine

// CharsPerToken is the fixed approximation ratio used for all budgeting.
// Compression ratios downstream are tuned against it; do not swap in a
// real tokenizer.
const CharsPerToken = 4

// EstimateTokens converts a string to an approximate token count,
// rounding up. 1 token ≈ 4 characters.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + CharsPerToken - 1) / CharsPerToken
}

// estimateF is the fractional form used by the allocator for
// proportional math.
func estimateF(text string) float64 {
	return float64(len(text)) / CharsPerToken
}
