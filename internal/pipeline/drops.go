package pipeline

import (
	"context"
	"strings"
)

// handleDrops removes active filters referenced by drop-action concepts and
// consumes those concepts so later stages never see them. Owns: Concepts,
// ActiveFilters.
//
// A filter is removed when its name appears in the drop concept's text, or
// when a word of the concept text appears in the filter name ("age filter"
// drops "Client Age"). Matching is coarse on purpose: catalog names are
// short human-readable labels, and overlapping vocabulary (dropping "age"
// while "Average Balance" is active) is an accepted limitation.
func (p *Pipeline) handleDrops(_ context.Context, state State) (State, error) {
	var drops []Concept
	var kept []Concept
	for _, c := range state.Concepts {
		if c.Action == ActionDrop {
			drops = append(drops, c)
		} else {
			kept = append(kept, c)
		}
	}

	if len(drops) == 0 {
		return state, nil
	}

	active := state.ActiveFilters
	for _, drop := range drops {
		remaining := active[:0:0]
		for _, f := range active {
			if !dropTargets(drop.Text, f.FilterName) {
				remaining = append(remaining, f)
			}
		}
		active = remaining
	}

	state.Concepts = kept
	state.ActiveFilters = active
	return state, nil
}

// dropTargets reports whether a drop concept refers to the named filter.
// Comparison is case-insensitive. Words shorter than three characters are
// ignored to keep articles and prepositions from matching everything.
func dropTargets(conceptText, filterName string) bool {
	concept := strings.ToLower(conceptText)
	name := strings.ToLower(filterName)
	if strings.Contains(concept, name) {
		return true
	}
	for _, word := range strings.Fields(concept) {
		if len(word) >= 3 && strings.Contains(name, word) {
			return true
		}
	}
	return false
}
