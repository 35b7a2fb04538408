package engine

import (
	"sort"
	"strings"
)

// Segment recovers typed sections from an already-rendered context
// string by matching the fixed section headers. Headers absent from the
// text simply produce no section; segmentation never fails.
//
// The assembler carries []Section natively, so this path exists for
// callers that hold only a flat string (e.g. a context built elsewhere
// and handed to Compress).
func Segment(text string) []Section {
	type marker struct {
		header string
		typ    SectionType
	}
	markers := []marker{
		{headerProject, SectionProject},
		{headerWorld, SectionWorld},
		{headerCharacters, SectionCharacters},
		{headerDocument, SectionDocHeader},
	}

	// Find each header at a line start, in text order.
	type hit struct {
		offset int
		typ    SectionType
	}
	var hits []hit
	for _, m := range markers {
		off := indexAtLineStart(text, m.header)
		if off >= 0 {
			hits = append(hits, hit{offset: off, typ: m.typ})
		}
	}
	if len(hits) == 0 {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		// No recognizable headers: treat the whole text as content.
		return []Section{{
			Type:       SectionContent,
			Text:       text,
			Importance: importanceOf(SectionContent),
		}}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].offset < hits[j].offset })

	var sections []Section
	for i, h := range hits {
		end := len(text)
		if i+1 < len(hits) {
			end = hits[i+1].offset
		}
		region := strings.TrimSpace(text[h.offset:end])
		if region == "" {
			continue
		}
		if h.typ == SectionDocHeader {
			// The document region splits into the title line and the
			// prior-text excerpt, which compress differently.
			head, body, found := strings.Cut(region, "\n")
			sections = append(sections, Section{
				Type:       SectionDocHeader,
				Text:       strings.TrimSpace(head),
				Importance: importanceOf(SectionDocHeader),
			})
			if found {
				if body = strings.TrimSpace(body); body != "" {
					sections = append(sections, Section{
						Type:       SectionContent,
						Text:       body,
						Importance: importanceOf(SectionContent),
					})
				}
			}
			continue
		}
		sections = append(sections, Section{
			Type:       h.typ,
			Text:       region,
			Importance: importanceOf(h.typ),
		})
	}
	return sections
}

// indexAtLineStart finds the first occurrence of header at the start of
// a line.
func indexAtLineStart(text, header string) int {
	if strings.HasPrefix(text, header) {
		return 0
	}
	i := strings.Index(text, "\n"+header)
	if i < 0 {
		return -1
	}
	return i + 1
}
