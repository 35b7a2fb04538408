package engine

import (
	"strings"
	"testing"
)

func TestExtractEmptyCases(t *testing.T) {
	e := NewExtractor(KeywordList{})

	if got := e.Extract("some text here", 0); got != "" {
		t.Errorf("position 0 should return empty, got %q", got)
	}
	if got := e.Extract("short", 5); got != "" {
		t.Errorf("short text should return empty, got %q", got)
	}
}

func TestExtractFewParagraphsUnchanged(t *testing.T) {
	e := NewExtractor(KeywordList{})

	text := strings.Repeat("A paragraph of ordinary prose without much going on.\n\n", 4)
	if got := e.Extract(text, len(text)); got != text {
		t.Errorf("few paragraphs should return preceding text unchanged")
	}
}

func TestExtractSixParagraphs(t *testing.T) {
	e := NewExtractor(KeywordList{})

	paras := []string{
		"The morning opened quietly over the sleeping town below them.",
		"「Ashe」 drew her sword and the magic in the air went still.",
		"They walked the market street and haggled over winter provisions.",
		"A dragon's shadow crossed the valley and the battle began anew.",
		"Rain fell through the evening while letters went unanswered there.",
		"She reached the door at last and paused with her hand on it.",
	}
	text := strings.Join(paras, "\n\n")
	got := e.Extract(text, len(text))

	outParas := splitParagraphs(got)

	// Continuity: the paragraph before the cursor is always last.
	if outParas[len(outParas)-1] != paras[5] {
		t.Errorf("last paragraph must be the text before the cursor, got %q", outParas[len(outParas)-1])
	}

	// No duplication.
	seen := map[string]bool{}
	for _, p := range outParas {
		if seen[p] {
			t.Errorf("paragraph duplicated in output: %q", p)
		}
		seen[p] = true
	}

	// Original order preserved.
	last := -1
	for _, p := range outParas {
		idx := -1
		for i, orig := range paras {
			if orig == p {
				idx = i
			}
		}
		if idx < 0 {
			t.Fatalf("output paragraph not from source: %q", p)
		}
		if idx < last {
			t.Errorf("output order does not follow source order")
		}
		last = idx
	}
}

func TestExtractKeywordRelevance(t *testing.T) {
	e := NewExtractor(KeywordList{Terms: []string{"dragon", "sword"}})

	// Ten paragraphs; only the second mentions the keywords. The last
	// three are recent, the keyword paragraph must be pulled in too.
	var paras []string
	for i := 0; i < 10; i++ {
		paras = append(paras, strings.Repeat("Plain filler prose paragraph. ", 3))
	}
	paras[1] = "The dragon circled twice and she raised the sword against it, sword high."
	// Make filler paragraphs distinct so dedup logic is observable.
	for i := range paras {
		if i != 1 {
			paras[i] = paras[i] + "Marker " + strings.Repeat("x", i) + "."
		}
	}
	text := strings.Join(paras, "\n\n")
	got := e.Extract(text, len(text))

	if !strings.Contains(got, "dragon circled") {
		t.Errorf("keyword-heavy paragraph should be extracted")
	}
	if !strings.HasSuffix(got, paras[9]) {
		t.Errorf("output must end with the final paragraph")
	}
}

func TestExtractBracketNames(t *testing.T) {
	e := NewExtractor(KeywordList{Terms: []string{"zzz-no-match"}})

	var paras []string
	for i := 0; i < 10; i++ {
		paras = append(paras, "Nothing notable happens in this stretch of text, part "+strings.Repeat("i", i+1)+".")
	}
	// The name appears quoted late, and unquoted early; the early
	// paragraph should rank up via the extracted name.
	paras[0] = "Mirei stood at the gate. Mirei waited. Mirei counted the stars."
	paras[8] = "「Mirei」 called out from across the courtyard."
	text := strings.Join(paras, "\n\n")
	got := e.Extract(text, len(text))

	if !strings.Contains(got, "counted the stars") {
		t.Errorf("paragraph dense in a quoted name should be extracted, got:\n%s", got)
	}
}

func TestExtractClampsPosition(t *testing.T) {
	e := NewExtractor(KeywordList{})
	text := strings.Repeat("A paragraph of prose here.\n\n", 4)
	if got := e.Extract(text, len(text)+500); got == "" {
		t.Errorf("out-of-range position should clamp, not return empty")
	}
}
