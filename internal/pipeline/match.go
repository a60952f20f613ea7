package pipeline

import (
	"context"
	"strings"

	"github.com/filterchat/filterchat-go/internal/index"
)

// searchText builds the string embedded for a concept: the concept text
// plus its generated keywords, comma-joined.
func searchText(c Concept) string {
	parts := make([]string, 0, 1+len(c.GeneratedKeywords))
	parts = append(parts, c.Text)
	parts = append(parts, c.GeneratedKeywords...)
	return strings.Join(parts, ", ")
}

// matchFilters embeds every concept in one batch call and searches the
// catalog index per concept. Owns: MatchedFilters.
//
// Per concept: zero candidates above the distance threshold means the
// concept is silently unmatched. Otherwise candidates that are both high
// confidence and close to the best are collected; more than one close
// candidate emits a match per candidate (ambiguous), otherwise only the
// best is emitted.
func (p *Pipeline) matchFilters(ctx context.Context, state State) (State, error) {
	if len(state.Concepts) == 0 {
		return state, nil
	}

	texts := make([]string, len(state.Concepts))
	for i, c := range state.Concepts {
		texts[i] = searchText(c)
	}

	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return State{}, err
	}

	matched := state.MatchedFilters
	for i, concept := range state.Concepts {
		if i >= len(vectors) {
			break
		}

		candidates, err := p.store.Search(ctx, vectors[i], searchTopK, concept.CategoryHint, maxSearchDistance)
		if err != nil {
			return State{}, err
		}
		if len(candidates) == 0 {
			continue
		}

		best := candidates[0]
		var close []index.Candidate
		for _, c := range candidates {
			if c.Confidence >= highConfidenceFloor && abs(c.Confidence-best.Confidence) <= closeConfidenceGap {
				close = append(close, c)
			}
		}

		emit := []index.Candidate{best}
		if len(close) > 1 {
			emit = close
		}

		for _, c := range emit {
			matched = append(matched, FilterMatch{
				FilterID:       c.FilterID,
				FilterName:     c.DisplayName,
				Description:    c.Description,
				Operators:      c.Operators,
				Options:        c.Options,
				Confidence:     c.Confidence,
				MatchedConcept: concept.Text,
			})
		}
	}

	state.MatchedFilters = matched
	return state, nil
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
