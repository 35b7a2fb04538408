package engine

import (
	"strings"
	"unicode/utf8"
)

// CompressSection reduces one section's text to fit allocatedTokens,
// using a strategy per section type. It never fails; output is always
// within budget, aside from a single short line in the world and
// characters strategies.
func CompressSection(s Section, allocatedTokens float64) string {
	if estimateF(s.Text) <= allocatedTokens {
		return s.Text
	}
	budgetChars := int(allocatedTokens * CharsPerToken)

	switch s.Type {
	case SectionWorld:
		return compressWorld(s.Text, allocatedTokens)
	case SectionCharacters:
		return compressCharacters(s.Text, allocatedTokens)
	case SectionContent:
		// Tail truncation: for continuation, the text just before the
		// cursor outweighs the opening.
		return truncTail(s.Text, budgetChars)
	default:
		// project, document-header, and anything unrecognized:
		// plain prefix.
		return truncHead(s.Text, budgetChars)
	}
}

// truncHead keeps at most n bytes of the prefix, backing the cut up to
// a rune boundary so CJK text never splits mid-rune.
func truncHead(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if n >= len(s) {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// truncTail keeps at most n bytes of the suffix, advancing the cut to
// a rune boundary.
func truncTail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if n >= len(s) {
		return s
	}
	i := len(s) - n
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return s[i:]
}

// compressWorld keeps the header line, then appends setting lines while
// they fit.
func compressWorld(text string, budget float64) string {
	lines := strings.Split(text, "\n")
	kept := lines[:1]
	used := estimateF(lines[0])
	for _, line := range lines[1:] {
		cost := estimateF(line) + estimateF("\n")
		if used+cost > budget {
			break
		}
		kept = append(kept, line)
		used += cost
	}
	return strings.Join(kept, "\n")
}

// compressCharacters keeps whole character blocks in roster order
// (earlier = more important) while they fit; when the next block would
// overflow, its name line alone may still go in.
func compressCharacters(text string, budget float64) string {
	header, blocks := splitCharacterBlocks(text)

	kept := []string{header}
	used := estimateF(header)
	for _, blk := range blocks {
		cost := estimateF(blk) + estimateF("\n")
		if used+cost <= budget {
			kept = append(kept, blk)
			used += cost
			continue
		}
		// Partial fit: the name line only, nothing deeper.
		name, _, _ := strings.Cut(blk, "\n")
		if used+estimateF(name)+estimateF("\n") <= budget {
			kept = append(kept, name)
		}
		break
	}
	return strings.Join(kept, "\n")
}

// splitCharacterBlocks parses the roster into its header line and one
// block per character. A block starts at a line beginning with "- " and
// runs until the next such line.
func splitCharacterBlocks(text string) (header string, blocks []string) {
	lines := strings.Split(text, "\n")
	var current []string

	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}

	headerDone := false
	for _, line := range lines {
		if strings.HasPrefix(line, "- ") {
			flush()
			headerDone = true
			current = []string{line}
			continue
		}
		if !headerDone {
			if header == "" {
				header = line
			} else {
				header += "\n" + line
			}
			continue
		}
		current = append(current, line)
	}
	flush()
	return header, blocks
}

// Compressor fits an assembled context into a token budget.
type Compressor struct{}

// NewCompressor returns a stateless context compressor.
func NewCompressor() *Compressor {
	return &Compressor{}
}

// Compress fits a flat context string into maxTokens. Contexts already
// within budget come back unchanged. Pure and deterministic.
func (c *Compressor) Compress(context string, maxTokens int) string {
	if EstimateTokens(context) <= maxTokens {
		return context
	}
	return c.CompressSections(Segment(context), maxTokens)
}

// CompressSections allocates maxTokens across sections by importance,
// compresses each independently, and joins the results with blank
// lines in the original order.
func (c *Compressor) CompressSections(sections []Section, maxTokens int) string {
	// Reserve the blank-line separators out of the budget so the joined
	// result still fits.
	budget := maxTokens
	if n := len(sections) - 1; n > 0 {
		budget -= (n*len("\n\n") + CharsPerToken - 1) / CharsPerToken
	}
	if budget < 0 {
		budget = 0
	}
	alloc := Allocate(sections, budget)

	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		out := CompressSection(s, alloc[s.Type])
		if out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n\n")
}
