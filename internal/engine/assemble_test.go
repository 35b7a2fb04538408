package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kisaragi-hiiragi/plotline/internal/model"
)

var errMissing = errors.New("not found")

// fakeSource is an in-memory RecordSource for assembler tests.
type fakeSource struct {
	projects   map[string]*model.Project
	documents  map[string]*model.Document
	characters map[string][]model.Character
}

func (f *fakeSource) GetProject(_ context.Context, id string) (*model.Project, error) {
	if p, ok := f.projects[id]; ok {
		return p, nil
	}
	return nil, errMissing
}

func (f *fakeSource) GetDocument(_ context.Context, id string) (*model.Document, error) {
	if d, ok := f.documents[id]; ok {
		return d, nil
	}
	return nil, errMissing
}

func (f *fakeSource) ListCharacters(_ context.Context, projectID string) ([]model.Character, error) {
	return f.characters[projectID], nil
}

func testSource() *fakeSource {
	content := strings.Repeat("The journey north went on through snow and silence for days.\n\n", 8)
	return &fakeSource{
		projects: map[string]*model.Project{
			"p1": {
				ID:          "p1",
				Name:        "Starfall",
				Genre:       model.GenreFantasy,
				Description: "A kingdom under a falling sky.",
				Settings: map[string]string{
					"magic-system": "ley lines",
					"races":        "elves, dwarves",
				},
			},
		},
		documents: map[string]*model.Document{
			"d1": {ID: "d1", ProjectID: "p1", Title: "Chapter 3", Content: content},
		},
		characters: map[string][]model.Character{
			"p1": {
				{ID: "c1", ProjectID: "p1", Name: "Ashe", Archetype: "protagonist", Age: 17, Gender: "female",
					Appearance: "silver hair", Background: strings.Repeat("b", 150), Seq: 1,
					Abilities:     []string{"starlight blade"},
					Relationships: []model.Relationship{{TargetID: "c2", Relation: "rival", Description: "childhood rival"}}},
				{ID: "c2", ProjectID: "p1", Name: "Leon", Age: 19, Seq: 2},
			},
		},
	}
}

func TestBuildSectionsOrderAndTypes(t *testing.T) {
	a := NewAssembler(testSource(), KeywordList{})
	doc := testSource().documents["d1"]

	sections, err := a.BuildSections(context.Background(), "p1", "d1", len(doc.Content))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := []SectionType{SectionProject, SectionWorld, SectionCharacters, SectionDocHeader, SectionContent}
	if len(sections) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(sections))
	}
	for i, typ := range want {
		if sections[i].Type != typ {
			t.Errorf("section %d: got %s, want %s", i, sections[i].Type, typ)
		}
	}
}

func TestBuildContextContents(t *testing.T) {
	a := NewAssembler(testSource(), KeywordList{})
	doc := testSource().documents["d1"]

	got, err := a.BuildContext(context.Background(), "p1", "d1", len(doc.Content))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, fragment := range []string{
		"Project: Starfall",
		"Genre: Fantasy",
		"World settings:",
		"Magic system: ley lines",
		"Main characters:",
		"- Ashe (17, female, protagonist)",
		"Appearance: silver hair",
		"rival: childhood rival",
		"- Leon (19)",
		"Current document: Chapter 3",
		"journey north",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("context missing %q:\n%s", fragment, got)
		}
	}

	// Background is truncated to 100 chars plus ellipsis.
	if strings.Contains(got, strings.Repeat("b", 101)) {
		t.Errorf("background not truncated")
	}
	if !strings.Contains(got, strings.Repeat("b", 100)+"...") {
		t.Errorf("truncated background should end with ellipsis")
	}
}

func TestCharacterBlockCJKBackgroundRuneSafe(t *testing.T) {
	c := model.Character{
		Name:       "美玲",
		Background: strings.Repeat("她在边境的村庄长大，后来独自前往王都。", 10),
	}
	block := characterBlock(c)

	if !utf8.ValidString(block) {
		t.Fatalf("background truncation split a rune: %q", block)
	}
	if !strings.Contains(block, "...") {
		t.Errorf("long background should be truncated with ellipsis")
	}
	// The cut lands at or just below the limit, never past it.
	bgLine := block[strings.Index(block, "Background: ")+len("Background: "):]
	if cut := strings.TrimSuffix(bgLine, "..."); len(cut) > 100 {
		t.Errorf("background kept %d bytes, limit 100", len(cut))
	}
}

func TestBuildContextNotFoundPropagates(t *testing.T) {
	a := NewAssembler(testSource(), KeywordList{})

	if _, err := a.BuildContext(context.Background(), "nope", "d1", 0); !errors.Is(err, errMissing) {
		t.Errorf("missing project should propagate the store error, got %v", err)
	}
	if _, err := a.BuildContext(context.Background(), "p1", "nope", 0); !errors.Is(err, errMissing) {
		t.Errorf("missing document should propagate the store error, got %v", err)
	}
}

func TestBuildContextNoContentAtStart(t *testing.T) {
	a := NewAssembler(testSource(), KeywordList{})

	sections, err := a.BuildSections(context.Background(), "p1", "d1", 0)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, s := range sections {
		if s.Type == SectionContent {
			t.Errorf("cursor at 0 should produce no content section")
		}
	}
}
