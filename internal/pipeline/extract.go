package pipeline

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/filterchat/filterchat-go/internal/logging"
	"github.com/filterchat/filterchat-go/internal/pii"
)

// maskQuery replaces PII spans in the query with placeholder tokens before
// the query reaches an external model. Owns: Query, mask. No-op when
// masking is disabled or the query is empty.
func (p *Pipeline) maskQuery(_ context.Context, state State) (State, error) {
	if !p.maskPII || state.Query == "" {
		return state, nil
	}

	masker := pii.NewMasker()
	masked := masker.Mask(state.Query)
	if masker.Count() == 0 {
		return state, nil
	}

	state.Query = masked
	state.mask = masker
	return state, nil
}

// extractConcepts asks the model which filter-relevant concepts the query
// contains. Owns: Concepts. A model call failure aborts the run; a parse
// failure degrades to zero concepts and the pipeline continues.
func (p *Pipeline) extractConcepts(ctx context.Context, state State) (State, error) {
	logger := logging.FromContext(ctx)

	if strings.TrimSpace(state.Query) == "" {
		return state, nil
	}

	systemPrompt, err := renderConceptExtractionPrompt(state.ActiveFilters)
	if err != nil {
		return State{}, err
	}

	response, err := p.llm.Generate(ctx, systemPrompt, state.Query, true)
	if err != nil {
		return State{}, err
	}

	var concepts []Concept
	if err := json.Unmarshal([]byte(response), &concepts); err != nil {
		logger.Warn("concept extraction returned unexpected shape, continuing with no concepts",
			"session_id", state.SessionID, "error", err)
		concepts = nil
	}

	state.Concepts = concepts
	return state, nil
}
