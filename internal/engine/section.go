package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kisaragi-hiiragi/plotline/internal/model"
)

// SectionType identifies one typed chunk of assembled context.
type SectionType string

const (
	SectionProject    SectionType = "project"
	SectionWorld      SectionType = "world"
	SectionCharacters SectionType = "characters"
	SectionDocHeader  SectionType = "document-header"
	SectionContent    SectionType = "content"
)

// Fixed headers rendered by the builder and matched by the segmenter.
const (
	headerProject    = "Project:"
	headerWorld      = "World settings:"
	headerCharacters = "Main characters:"
	headerDocument   = "Current document:"
)

// Section is a transient, importance-weighted chunk of context. Sections
// live for one assembly or compression call and are never persisted.
type Section struct {
	Type       SectionType
	Text       string
	Importance int
}

// importanceOf returns the fixed weight for a section type.
// Higher is more important.
func importanceOf(t SectionType) int {
	switch t {
	case SectionProject:
		return 10
	case SectionCharacters:
		return 9
	case SectionWorld:
		return 8
	case SectionDocHeader:
		return 7
	case SectionContent:
		return 6
	default:
		return 5
	}
}

// maxBackgroundChars caps the background line per character block.
const maxBackgroundChars = 100

// genreSettingKeys lists, per genre, the setting keys rendered into the
// world section, in a fixed order. Unknown or missing keys are omitted.
var genreSettingKeys = map[string][]string{
	model.GenreIsekai:  {"level-system", "magic-system", "reincarnation-method"},
	model.GenreSchool:  {"school-name", "school-type"},
	model.GenreSciFi:   {"tech-level", "world-setting"},
	model.GenreFantasy: {"magic-system", "races"},
}

// settingLabels maps setting keys to their rendered labels.
var settingLabels = map[string]string{
	"level-system":         "Level system",
	"magic-system":         "Magic system",
	"reincarnation-method": "Reincarnation method",
	"school-name":          "School",
	"school-type":          "School type",
	"tech-level":           "Tech level",
	"world-setting":        "World setting",
	"races":                "Races",
}

// BuildProjectSection renders the project summary section.
func BuildProjectSection(p *model.Project) Section {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", headerProject, p.Name)
	fmt.Fprintf(&b, "Genre: %s\n", model.GenreLabel(p.Genre))
	if p.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
	}
	return Section{
		Type:       SectionProject,
		Text:       strings.TrimRight(b.String(), "\n"),
		Importance: importanceOf(SectionProject),
	}
}

// BuildWorldSection renders genre-specific settings. Returns ok=false
// when the project has no settings worth rendering.
func BuildWorldSection(p *model.Project) (Section, bool) {
	if len(p.Settings) == 0 {
		return Section{}, false
	}

	keys := genreSettingKeys[p.Genre]
	var lines []string
	for _, k := range keys {
		if v, ok := p.Settings[k]; ok && v != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", settingLabels[k], v))
		}
	}
	// Settings outside the genre's known keys are still world detail;
	// append them after the known ones in sorted key order.
	var extra []string
	for k, v := range p.Settings {
		if v == "" || settingKnown(keys, k) {
			continue
		}
		extra = append(extra, fmt.Sprintf("%s: %s", k, v))
	}
	sort.Strings(extra)
	lines = append(lines, extra...)

	if len(lines) == 0 {
		return Section{}, false
	}
	return Section{
		Type:       SectionWorld,
		Text:       headerWorld + "\n" + strings.Join(lines, "\n"),
		Importance: importanceOf(SectionWorld),
	}, true
}

func settingKnown(keys []string, k string) bool {
	for _, known := range keys {
		if known == k {
			return true
		}
	}
	return false
}

// BuildCharacterSection renders the cast roster. Order follows the
// store's return order (creation order), earliest first.
func BuildCharacterSection(chars []model.Character) Section {
	var b strings.Builder
	b.WriteString(headerCharacters)
	for _, c := range chars {
		b.WriteString("\n")
		b.WriteString(characterBlock(c))
	}
	return Section{
		Type:       SectionCharacters,
		Text:       b.String(),
		Importance: importanceOf(SectionCharacters),
	}
}

// characterBlock renders one character as a block starting with "- ".
// The first line carries name/age/gender/archetype so the compressor
// can fall back to it alone.
func characterBlock(c model.Character) string {
	var b strings.Builder

	var attrs []string
	if c.Age > 0 {
		attrs = append(attrs, fmt.Sprintf("%d", c.Age))
	}
	if c.Gender != "" {
		attrs = append(attrs, c.Gender)
	}
	if c.Archetype != "" {
		attrs = append(attrs, c.Archetype)
	}
	if len(attrs) > 0 {
		fmt.Fprintf(&b, "- %s (%s)", c.Name, strings.Join(attrs, ", "))
	} else {
		fmt.Fprintf(&b, "- %s", c.Name)
	}

	if c.Appearance != "" {
		fmt.Fprintf(&b, "\n  Appearance: %s", c.Appearance)
	}
	if c.Personality != "" {
		fmt.Fprintf(&b, "\n  Personality: %s", c.Personality)
	}
	if c.Background != "" {
		bg := c.Background
		if len(bg) > maxBackgroundChars {
			bg = truncHead(bg, maxBackgroundChars) + "..."
		}
		fmt.Fprintf(&b, "\n  Background: %s", bg)
	}
	if len(c.Abilities) > 0 {
		fmt.Fprintf(&b, "\n  Abilities: %s", strings.Join(c.Abilities, ", "))
	}
	for _, r := range c.Relationships {
		if r.Description != "" {
			fmt.Fprintf(&b, "\n  %s: %s", r.Relation, r.Description)
		} else {
			fmt.Fprintf(&b, "\n  %s: %s", r.Relation, r.TargetID)
		}
	}
	return b.String()
}

// BuildDocHeaderSection renders the current-document title line.
func BuildDocHeaderSection(d *model.Document) Section {
	return Section{
		Type:       SectionDocHeader,
		Text:       headerDocument + " " + d.Title,
		Importance: importanceOf(SectionDocHeader),
	}
}

// BuildContentSection wraps a prior-text excerpt. Returns ok=false on
// an empty excerpt.
func BuildContentSection(excerpt string) (Section, bool) {
	if excerpt == "" {
		return Section{}, false
	}
	return Section{
		Type:       SectionContent,
		Text:       excerpt,
		Importance: importanceOf(SectionContent),
	}, true
}

// Render joins sections with blank lines in their given order. This is
// the only point where structured sections become a flat string.
func Render(sections []Section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}
