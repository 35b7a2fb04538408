package engine

import (
	"regexp"
	"sort"
	"strings"
)

const (
	// minExtractLen is the document length below which extraction
	// returns nothing; shorter texts offer no useful prior context.
	minExtractLen = 100

	// recentCount is how many trailing paragraphs are always candidates.
	recentCount = 3

	// relevantCount is how many top-scored paragraphs are candidates.
	relevantCount = 5
)

// quotedNameRe matches substrings in paired quote-like brackets, which
// in narrative prose are usually character names or spoken emphasis.
// Covers CJK corner brackets, curly quotes, and ASCII double quotes.
var quotedNameRe = regexp.MustCompile(`「([^」]+)」|『([^』]+)』|“([^”]+)”|"([^"]+)"`)

// Extractor reduces a document's prior text to an excerpt combining
// recency with keyword relevance.
type Extractor struct {
	keywords KeywordList
}

// NewExtractor builds an extractor with the given keyword list. A nil
// terms list uses the defaults.
func NewExtractor(kw KeywordList) *Extractor {
	if len(kw.Terms) == 0 {
		kw = DefaultKeywords()
	}
	return &Extractor{keywords: kw}
}

// Extract returns the reduced prior-text excerpt for the text preceding
// position. The excerpt always ends with the paragraph immediately
// before the cursor, and contains no paragraph twice.
func (e *Extractor) Extract(fullText string, position int) string {
	if position <= 0 || len(fullText) < minExtractLen {
		return ""
	}
	if position > len(fullText) {
		position = len(fullText)
	}
	preceding := fullText[:position]

	paras := splitParagraphs(preceding)
	if len(paras) == 0 {
		return ""
	}
	if len(paras) <= recentCount+2 {
		return preceding
	}

	terms := e.keyTerms(preceding)

	// Score every paragraph by summed key-term occurrences.
	type scored struct {
		index int
		score int
	}
	all := make([]scored, len(paras))
	for i, p := range paras {
		s := 0
		for _, t := range terms {
			s += strings.Count(p, t)
		}
		all[i] = scored{index: i, score: s}
	}

	// Rank by score descending; SliceStable keeps original order on ties.
	ranked := make([]scored, len(all))
	copy(ranked, all)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	keep := map[int]bool{}
	for _, s := range ranked[:min(relevantCount, len(ranked))] {
		keep[s.index] = true
	}
	for i := len(paras) - recentCount; i < len(paras); i++ {
		keep[i] = true
	}
	// Continuity: the paragraph right before the cursor is never dropped.
	keep[len(paras)-1] = true

	var kept []string
	for i, p := range paras {
		if keep[i] {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// keyTerms returns bracket-quoted names found in the text plus the
// configured keyword list.
func (e *Extractor) keyTerms(text string) []string {
	terms := make([]string, 0, len(e.keywords.Terms)+8)
	seen := map[string]bool{}

	for _, m := range quotedNameRe.FindAllStringSubmatch(text, -1) {
		for _, g := range m[1:] {
			g = strings.TrimSpace(g)
			if g != "" && !seen[g] {
				seen[g] = true
				terms = append(terms, g)
			}
		}
	}
	for _, t := range e.keywords.Terms {
		if !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}
	return terms
}

// splitParagraphs splits text on blank-line boundaries, discarding
// empty paragraphs.
var paragraphSep = regexp.MustCompile(`\n[ \t]*\n`)

func splitParagraphs(text string) []string {
	var paras []string
	for _, p := range paragraphSep.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}
