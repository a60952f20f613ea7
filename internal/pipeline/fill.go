package pipeline

import (
	"context"
	"encoding/json"

	"github.com/filterchat/filterchat-go/internal/logging"
)

// Defaults applied when the model's response omits a filter it was asked
// about.
const (
	defaultOperator = "EQUAL"
)

// valueResult is one element of the value filler's expected model response.
type valueResult struct {
	FilterDisplayName string `json:"filter_display_name"`
	Operator          string `json:"operator"`
	Value             any    `json:"value"`
}

// fillValues asks the model, in a single call, to assign an operator and
// value to every matched filter, then merges results into the session state.
// Owns: ActiveFilters, ClarificationRequest.
//
// Concepts with several matches become clarification requests; concepts
// with exactly one match become active filters, replacing any existing
// filter with the same name. Fail-closed: a model failure or an unparseable
// response leaves the state exactly as it came in, never partially applied.
func (p *Pipeline) fillValues(ctx context.Context, state State) (State, error) {
	logger := logging.FromContext(ctx)

	if len(state.MatchedFilters) == 0 {
		return state, nil
	}

	systemPrompt, err := renderValueFillingPrompt(state.MatchedFilters)
	if err != nil {
		return State{}, err
	}

	response, err := p.llm.Generate(ctx, systemPrompt, "", true)
	if err != nil {
		logger.Warn("value filling model call failed, leaving filters unchanged",
			"session_id", state.SessionID, "error", err)
		return state, nil
	}

	var results []valueResult
	if err := json.Unmarshal([]byte(response), &results); err != nil {
		logger.Warn("value filling returned unexpected shape, leaving filters unchanged",
			"session_id", state.SessionID, "error", err)
		return state, nil
	}

	byName := make(map[string]valueResult, len(results))
	for _, r := range results {
		byName[r.FilterDisplayName] = r
	}

	// Group matches by concept; more than one match per concept marks the
	// concept as ambiguous.
	groupOrder := make([]string, 0, len(state.MatchedFilters))
	groups := make(map[string][]FilterMatch)
	for _, m := range state.MatchedFilters {
		if _, seen := groups[m.MatchedConcept]; !seen {
			groupOrder = append(groupOrder, m.MatchedConcept)
		}
		groups[m.MatchedConcept] = append(groups[m.MatchedConcept], m)
	}

	active := append([]ActiveFilter(nil), state.ActiveFilters...)
	clarifications := append([]FilterSuggestion(nil), state.ClarificationRequest...)

	for _, concept := range groupOrder {
		matches := groups[concept]
		if len(matches) > 1 {
			options := make([]SuggestionOption, 0, len(matches))
			for _, m := range matches {
				r := byName[m.FilterName]
				options = append(options, SuggestionOption{
					FilterID:   m.FilterID,
					FilterName: m.FilterName,
					Operator:   orDefault(r.Operator),
					Value:      orEmpty(r.Value),
				})
			}
			clarifications = append(clarifications, FilterSuggestion{
				ConceptText: concept,
				Options:     options,
			})
			continue
		}

		m := matches[0]
		r := byName[m.FilterName]
		replacement := ActiveFilter{
			FilterID:   m.FilterID,
			FilterName: m.FilterName,
			Operator:   orDefault(r.Operator),
			Value:      orEmpty(r.Value),
		}

		kept := active[:0:0]
		for _, f := range active {
			if f.FilterName != m.FilterName {
				kept = append(kept, f)
			}
		}
		active = append(kept, replacement)
	}

	state.ActiveFilters = active
	state.ClarificationRequest = clarifications
	return state, nil
}

// orDefault substitutes the default operator for a missing one.
func orDefault(op string) string {
	if op == "" {
		return defaultOperator
	}
	return op
}

// orEmpty substitutes an empty string for a missing value.
func orEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}
