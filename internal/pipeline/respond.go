package pipeline

import (
	"context"
	"fmt"
	"strings"
)

// prepareResponse synthesises the human-readable summary and restores any
// PII masked earlier. Owns: Message, Query, ActiveFilters (values only).
func (p *Pipeline) prepareResponse(_ context.Context, state State) (State, error) {
	var parts []string
	if len(state.ActiveFilters) > 0 {
		parts = append(parts, fmt.Sprintf("Applied %d filter(s)", len(state.ActiveFilters)))
	}
	if len(state.ClarificationRequest) > 0 {
		parts = append(parts, fmt.Sprintf("I need clarification on %d filter(s)", len(state.ClarificationRequest)))
	}

	if len(parts) > 0 {
		state.Message = strings.Join(parts, ". ")
	} else {
		state.Message = "No filters to apply"
	}

	if state.mask != nil {
		state.Query = state.mask.Unmask(state.Query)
		for i, f := range state.ActiveFilters {
			if s, ok := f.Value.(string); ok {
				state.ActiveFilters[i].Value = state.mask.Unmask(s)
			}
		}
	}

	return state, nil
}
