package engine

// minSectionFloor is the smallest floor granted to any section that has
// text to keep, in tokens.
const minSectionFloor = 20

// allocEpsilon bounds the water-fill iteration; allocations within this
// of a cap count as satisfied.
const allocEpsilon = 1e-9

// Allocation maps section types to their token budgets. Values are
// fractional during computation and used as ceilings when compressing.
type Allocation map[SectionType]float64

// Allocate distributes maxTokens across sections proportional to
// importance, with per-section floors and caps.
//
// Three passes: a floor pass guaranteeing each section
// min(original, max(20, idealShare*0.1)) tokens; an iterative
// proportional pass distributing the remainder by importance among
// sections still below their original size (repeated so budget freed
// by capped sections flows to the rest — this is the documented
// resolution of the tie-break when several sections cap at once); and
// an overflow pass handing any slack to the content section.
//
// All math is float64; no allocation ever exceeds the section's own
// original estimate, and the sum never exceeds maxTokens beyond
// rounding error.
func Allocate(sections []Section, maxTokens int) Allocation {
	alloc := make(Allocation, len(sections))
	if maxTokens <= 0 || len(sections) == 0 {
		return alloc
	}

	total := float64(maxTokens)
	orig := make(map[SectionType]float64, len(sections))
	sumImp := 0
	for _, s := range sections {
		orig[s.Type] = estimateF(s.Text)
		sumImp += s.Importance
	}
	if sumImp == 0 {
		return alloc
	}

	// Floor pass.
	remaining := total
	for _, s := range sections {
		ideal := float64(s.Importance) / float64(sumImp) * total
		floor := ideal * 0.1
		if floor < minSectionFloor {
			floor = minSectionFloor
		}
		if floor > orig[s.Type] {
			floor = orig[s.Type]
		}
		alloc[s.Type] = floor
		remaining -= floor
	}

	// Degenerate budgets where the floors alone overshoot: scale them
	// back so the sum invariant holds.
	if remaining < 0 {
		scale := total / (total - remaining)
		for t := range alloc {
			alloc[t] *= scale
		}
		remaining = 0
	}

	// Proportional water-fill over unsatisfied sections.
	for remaining > allocEpsilon {
		impLeft := 0
		for _, s := range sections {
			if orig[s.Type]-alloc[s.Type] > allocEpsilon {
				impLeft += s.Importance
			}
		}
		if impLeft == 0 {
			break
		}
		spent := 0.0
		for _, s := range sections {
			headroom := orig[s.Type] - alloc[s.Type]
			if headroom <= allocEpsilon {
				continue
			}
			share := float64(s.Importance) / float64(impLeft) * remaining
			if share > headroom {
				share = headroom
			}
			alloc[s.Type] += share
			spent += share
		}
		if spent <= allocEpsilon {
			break
		}
		remaining -= spent
	}

	// Overflow pass: spare budget goes to continuation text first.
	if remaining > allocEpsilon {
		if headroom := orig[SectionContent] - alloc[SectionContent]; headroom > 0 {
			grant := remaining
			if grant > headroom {
				grant = headroom
			}
			alloc[SectionContent] += grant
		}
	}

	return alloc
}
