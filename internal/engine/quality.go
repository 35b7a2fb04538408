package engine

import "strings"

// QualityReport is a coarse, advisory view of a context's completeness.
// Scores are 0-100. Nothing in the engine gates on it.
type QualityReport struct {
	EstimatedTokens    int      `json:"estimated_tokens"`
	CharacterInfo      int      `json:"character_info"`
	WorldBuilding      int      `json:"world_building"`
	NarrativeCoherence int      `json:"narrative_coherence"`
	Overall            int      `json:"overall"`
	Suggestions        []string `json:"suggestions,omitempty"`
}

// AnalyzeQuality scores an assembled context. Derived from what the
// segmenter can recover, not from a model.
func AnalyzeQuality(context string) QualityReport {
	r := QualityReport{EstimatedTokens: EstimateTokens(context)}

	sections := Segment(context)
	byType := map[SectionType]Section{}
	for _, s := range sections {
		byType[s.Type] = s
	}

	if s, ok := byType[SectionCharacters]; ok {
		_, blocks := splitCharacterBlocks(s.Text)
		switch {
		case len(blocks) >= 3:
			r.CharacterInfo = 100
		case len(blocks) > 0:
			r.CharacterInfo = 40 + 20*len(blocks)
		}
	} else {
		r.Suggestions = append(r.Suggestions, "add character records so the cast appears in context")
	}

	if s, ok := byType[SectionWorld]; ok {
		lines := strings.Count(s.Text, "\n")
		r.WorldBuilding = 50 + 25*lines
		if r.WorldBuilding > 100 {
			r.WorldBuilding = 100
		}
	} else {
		r.Suggestions = append(r.Suggestions, "fill in genre settings to describe the world")
	}

	if s, ok := byType[SectionContent]; ok {
		switch {
		case len(s.Text) >= 800:
			r.NarrativeCoherence = 100
		case len(s.Text) >= 200:
			r.NarrativeCoherence = 70
		default:
			r.NarrativeCoherence = 40
		}
	} else {
		r.Suggestions = append(r.Suggestions, "no prior text before the cursor; continuation starts cold")
	}

	r.Overall = (r.CharacterInfo*4 + r.WorldBuilding*3 + r.NarrativeCoherence*3) / 10
	return r
}
