package engine

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCompressNoOpWithinBudget(t *testing.T) {
	c := NewCompressor()
	context := "Project: Demo\nGenre: Fantasy\n\nMain characters:\n- Ashe (17, female)"

	got := c.Compress(context, EstimateTokens(context))
	if got != context {
		t.Errorf("context within budget must come back unchanged")
	}
}

func TestCompressProjectPrefix(t *testing.T) {
	c := NewCompressor()
	context := "Project: Demo\n" + strings.Repeat("d", 1000)

	got := c.Compress(context, 50)
	if len(got) > 200 {
		t.Errorf("output %d chars, want <= 200", len(got))
	}
	if got == "" {
		t.Fatal("output must be non-empty")
	}
	if !strings.HasPrefix(got, "Project:") {
		t.Errorf("output must keep the Project: prefix, got %q", got[:20])
	}
}

func TestCompressContentTail(t *testing.T) {
	original := strings.Repeat("abcdefgh", 250) // 2000 chars, no headers
	got := NewCompressor().Compress(original, 100)

	// Content strategy keeps the suffix, sized to the allocation.
	if !strings.HasSuffix(original, got) {
		t.Errorf("compressed content must be a suffix of the original")
	}
	if len(got) == 0 || len(got) > 100*CharsPerToken {
		t.Errorf("compressed content is %d chars, want within %d", len(got), 100*CharsPerToken)
	}
	if EstimateTokens(got) > 100 {
		t.Errorf("compressed content estimates %d tokens, budget 100", EstimateTokens(got))
	}
}

func TestCompressSectionContentExactSuffix(t *testing.T) {
	s := Section{Type: SectionContent, Text: strings.Repeat("0123456789", 100), Importance: 6}
	got := CompressSection(s, 50)

	want := s.Text[len(s.Text)-50*CharsPerToken:]
	if got != want {
		t.Errorf("tail truncation must be an exact suffix of allocated*4 chars")
	}
}

func TestCompressWorldKeepsHeaderThenLines(t *testing.T) {
	text := "World settings:\n" +
		"Magic system: " + strings.Repeat("m", 60) + "\n" +
		"Races: " + strings.Repeat("r", 60) + "\n" +
		"Level system: " + strings.Repeat("l", 60)
	s := Section{Type: SectionWorld, Text: text, Importance: 8}

	// Room for the header and roughly one setting line.
	got := CompressSection(s, 25)
	lines := strings.Split(got, "\n")
	if lines[0] != "World settings:" {
		t.Errorf("first line must be the header, got %q", lines[0])
	}
	if len(lines) >= 4 {
		t.Errorf("expected some setting lines dropped, got all %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "Magic system:") {
		t.Errorf("settings must be kept in order, got %q", lines[1])
	}
}

func TestCompressCharactersWholeBlocks(t *testing.T) {
	roster := "Main characters:\n" +
		"- Ashe (17, female, protagonist)\n  Appearance: silver hair\n  Background: " + strings.Repeat("a", 90) + "\n" +
		"- Leon (19, male, rival)\n  Appearance: scar over one eye\n  Background: " + strings.Repeat("b", 90) + "\n" +
		"- Mirei (16, female, healer)\n  Appearance: green cloak\n  Background: " + strings.Repeat("c", 90)
	s := Section{Type: SectionCharacters, Text: roster, Importance: 9}

	// Budget fits the header and the first block; the second block can
	// contribute at most its name line.
	got := CompressSection(s, 50)

	if !strings.HasPrefix(got, "Main characters:") {
		t.Fatalf("header must survive, got %q", got)
	}
	if !strings.Contains(got, "- Ashe") || !strings.Contains(got, "silver hair") {
		t.Errorf("first whole block should fit:\n%s", got)
	}
	if strings.Contains(got, "scar over one eye") {
		t.Errorf("second block's detail lines must not appear:\n%s", got)
	}
	if strings.Contains(got, "- Mirei") {
		t.Errorf("third block must be dropped entirely:\n%s", got)
	}
	// Only a short name line may overshoot; the body stays in budget.
	if EstimateTokens(got) > 50+EstimateTokens("- Leon (19, male, rival)") {
		t.Errorf("overshoot beyond the single name line: %d tokens", EstimateTokens(got))
	}
}

func TestCompressContentCJKRuneSafe(t *testing.T) {
	s := Section{Type: SectionContent, Text: strings.Repeat("魔法的战斗在黎明前结束了。", 50), Importance: 6}

	got := CompressSection(s, 50)
	if !utf8.ValidString(got) {
		t.Fatalf("tail truncation split a rune: %q", got[:12])
	}
	if !strings.HasSuffix(s.Text, got) {
		t.Errorf("compressed content must remain a suffix of the original")
	}
	if len(got) > 50*CharsPerToken {
		t.Errorf("compressed content is %d bytes, budget %d", len(got), 50*CharsPerToken)
	}
}

func TestCompressProjectCJKRuneSafe(t *testing.T) {
	s := Section{Type: SectionProject, Text: "Project: 星落\nDescription: " + strings.Repeat("王国坐落在坠落的天空之下。", 40), Importance: 10}

	got := CompressSection(s, 30)
	if !utf8.ValidString(got) {
		t.Fatalf("head truncation split a rune: %q", got[len(got)-6:])
	}
	if !strings.HasPrefix(s.Text, got) {
		t.Errorf("compressed project must remain a prefix of the original")
	}
	if len(got) > 30*CharsPerToken {
		t.Errorf("compressed project is %d bytes, budget %d", len(got), 30*CharsPerToken)
	}
}

func TestCompressFullContextBudgetInvariant(t *testing.T) {
	context := "Project: Starfall\nGenre: Fantasy\nDescription: " + strings.Repeat("d", 300) + "\n\n" +
		"World settings:\nMagic system: ley lines\nRaces: elves, dwarves\n\n" +
		"Main characters:\n- Ashe (17, female)\n  Background: " + strings.Repeat("a", 90) + "\n" +
		"- Leon (19, male)\n  Background: " + strings.Repeat("b", 90) + "\n\n" +
		"Current document: Chapter 3\n" + strings.Repeat("The story continues onward. ", 100)

	for _, budget := range []int{60, 120, 240} {
		got := NewCompressor().Compress(context, budget)
		// Allow the bounded single-line overshoot from the world and
		// characters strategies.
		slack := EstimateTokens("- Leon (19, male)") + EstimateTokens("Races: elves, dwarves")
		if EstimateTokens(got) > budget+slack {
			t.Errorf("budget %d: output estimates %d tokens", budget, EstimateTokens(got))
		}
		if got == "" {
			t.Errorf("budget %d: output must not be empty", budget)
		}
	}
}

func TestCompressPreservesSectionOrder(t *testing.T) {
	context := "Project: Demo\nDescription: " + strings.Repeat("p", 400) + "\n\n" +
		"Main characters:\n- Ashe (17)\n  Background: " + strings.Repeat("a", 90) + "\n\n" +
		"Current document: Chapter 1\n" + strings.Repeat("prior text here. ", 60)

	got := NewCompressor().Compress(context, 100)

	iProject := strings.Index(got, "Project:")
	iChars := strings.Index(got, "Main characters:")
	iDoc := strings.Index(got, "Current document:")
	if iProject < 0 || iChars < 0 || iDoc < 0 {
		t.Fatalf("all sections should survive at this budget:\n%s", got)
	}
	if !(iProject < iChars && iChars < iDoc) {
		t.Errorf("section order changed: project=%d characters=%d document=%d", iProject, iChars, iDoc)
	}
}
