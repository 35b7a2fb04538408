package engine

import (
	"context"
	"fmt"

	"github.com/kisaragi-hiiragi/plotline/internal/model"
)

// RecordSource supplies the records an assembly call reads. The store
// satisfies it; tests use an in-memory fake.
type RecordSource interface {
	GetProject(ctx context.Context, id string) (*model.Project, error)
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	ListCharacters(ctx context.Context, projectID string) ([]model.Character, error)
}

// Assembler builds the full, uncompressed context for a continuation
// request. It holds no per-call state; one instance serves concurrent
// calls.
type Assembler struct {
	source    RecordSource
	extractor *Extractor
}

// NewAssembler wires an assembler to a record source. kw tunes the
// relevance keywords; pass a zero KeywordList for the defaults.
func NewAssembler(source RecordSource, kw KeywordList) *Assembler {
	return &Assembler{
		source:    source,
		extractor: NewExtractor(kw),
	}
}

// BuildSections assembles the typed sections for a (project, document,
// cursor position) triple, in fixed order: project, world, characters,
// document header, prior content. Record-store NotFound errors
// propagate unchanged.
func (a *Assembler) BuildSections(ctx context.Context, projectID, documentID string, position int) ([]Section, error) {
	project, err := a.source.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("build context: %w", err)
	}
	doc, err := a.source.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("build context: %w", err)
	}
	chars, err := a.source.ListCharacters(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("build context: %w", err)
	}

	sections := []Section{BuildProjectSection(project)}
	if world, ok := BuildWorldSection(project); ok {
		sections = append(sections, world)
	}
	if len(chars) > 0 {
		sections = append(sections, BuildCharacterSection(chars))
	}
	sections = append(sections, BuildDocHeaderSection(doc))
	if content, ok := BuildContentSection(a.extractor.Extract(doc.Content, position)); ok {
		sections = append(sections, content)
	}
	return sections, nil
}

// BuildContext is the flat-string form of BuildSections. No token
// budgeting happens here; pass the result to Compressor.Compress to
// fit a budget.
func (a *Assembler) BuildContext(ctx context.Context, projectID, documentID string, position int) (string, error) {
	sections, err := a.BuildSections(ctx, projectID, documentID, position)
	if err != nil {
		return "", err
	}
	return Render(sections), nil
}

// ExtractRelevantContent exposes the extractor directly.
func (a *Assembler) ExtractRelevantContent(fullText string, position int) string {
	return a.extractor.Extract(fullText, position)
}
