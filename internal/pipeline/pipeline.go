package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/filterchat/filterchat-go/internal/index"
	"github.com/filterchat/filterchat-go/internal/llm"
	"github.com/filterchat/filterchat-go/internal/logging"
)

// Matcher tuning. The close-match policy distinguishes "one filter clearly
// matches" from "several filters are plausible", which drives clarification
// versus auto-apply downstream.
const (
	// searchTopK is the number of candidates requested per concept.
	searchTopK = 2

	// maxSearchDistance is the cosine distance ceiling; candidates farther
	// away are discarded by the index.
	maxSearchDistance = 0.3

	// highConfidenceFloor is the minimum confidence for a candidate to count
	// as a close match.
	highConfidenceFloor = 0.5

	// closeConfidenceGap is the maximum confidence gap to the best candidate
	// for a close match.
	closeConfidenceGap = 0.3
)

// Runner executes the filter-resolution workflow for one request. The server
// and console front ends depend on this interface rather than the concrete
// Pipeline so tests can substitute doubles.
type Runner interface {
	Run(ctx context.Context, state State) (State, error)
}

// Pipeline wires the extract, drop, match, fill, and respond stages over the
// three external capabilities. Safe for concurrent use: all per-request data
// lives in State.
type Pipeline struct {
	// llm answers the extraction and value-filling prompts.
	llm llm.Client

	// embedder turns concept search strings into vectors.
	embedder index.Embedder

	// store searches the filter catalog by vector.
	store index.Store

	// maskPII enables masking of the query before it reaches the model.
	maskPII bool
}

// New constructs a Pipeline. All three capabilities are required.
func New(client llm.Client, embedder index.Embedder, store index.Store, maskPII bool) (*Pipeline, error) {
	if client == nil || embedder == nil || store == nil {
		return nil, fmt.Errorf("pipeline: llm, embedder, and store are all required")
	}
	return &Pipeline{llm: client, embedder: embedder, store: store, maskPII: maskPII}, nil
}

// stage is one named step of the workflow.
type stage struct {
	name string
	run  func(context.Context, State) (State, error)
}

// Run executes the full workflow over the initial state and returns the
// final state. The stage order is fixed: mask, extract, drop, match, fill,
// respond. A missing session ID is generated before the first stage.
func (p *Pipeline) Run(ctx context.Context, state State) (State, error) {
	logger := logging.FromContext(ctx)

	if state.SessionID == "" {
		state.SessionID = uuid.NewString()
	}

	stages := []stage{
		{"mask_pii", p.maskQuery},
		{"extract_concepts", p.extractConcepts},
		{"handle_drops", p.handleDrops},
		{"match_filters", p.matchFilters},
		{"fill_values", p.fillValues},
		{"prepare_response", p.prepareResponse},
	}

	var err error
	for _, s := range stages {
		state, err = s.run(ctx, state)
		if err != nil {
			return State{}, fmt.Errorf("pipeline: stage %s: %w", s.name, err)
		}
		logger.Debug("stage complete",
			"stage", s.name,
			"session_id", state.SessionID,
			"concepts", len(state.Concepts),
			"matches", len(state.MatchedFilters),
			"active_filters", len(state.ActiveFilters),
			"clarifications", len(state.ClarificationRequest))
	}

	return state, nil
}
