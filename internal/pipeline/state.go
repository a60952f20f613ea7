// Package pipeline implements the filter-resolution workflow: a fixed
// sequence of stages that turns a free-text query into structured data
// filters. Stages communicate through a single State value; each stage
// changes only the fields it owns and forwards everything else verbatim.
package pipeline

import "github.com/filterchat/filterchat-go/internal/pii"

// Concept actions recognised by the pipeline.
const (
	// ActionAdd requests that a new filter be applied.
	ActionAdd = "add"
	// ActionDrop requests that an existing filter be removed.
	ActionDrop = "drop"
	// ActionModify requests a change to an existing filter.
	ActionModify = "modify"
)

// Concept is one semantic unit extracted from the user's query, destined to
// map to zero or more catalog filters.
type Concept struct {
	// Text is the concept's source fragment from the query.
	Text string `json:"text"`

	// GeneratedKeywords are model-produced expansions that broaden the
	// vector search for this concept.
	GeneratedKeywords []string `json:"generated_keywords"`

	// Action is one of add, drop, or modify.
	Action string `json:"action"`

	// CategoryHint optionally narrows the catalog search to one category.
	CategoryHint string `json:"category_hint,omitempty"`
}

// FilterMatch is one ranked candidate pairing of a concept with a catalog
// filter. Produced by the matcher, consumed by the value filler within the
// same request.
type FilterMatch struct {
	// FilterID is the catalog identifier of the candidate filter.
	FilterID string `json:"filter_id"`

	// FilterName is the candidate filter's display name.
	FilterName string `json:"filter_name"`

	// Description explains what the candidate filter selects.
	Description string `json:"description,omitempty"`

	// Operators is the candidate's supported comparison operators.
	Operators []string `json:"operators,omitempty"`

	// Options is the candidate's closed value set, if any.
	Options []string `json:"options,omitempty"`

	// Confidence is the similarity-derived score in [0, 1], higher is better.
	Confidence float32 `json:"confidence"`

	// MatchedConcept is the text of the concept this candidate was found for.
	MatchedConcept string `json:"matched_concept"`
}

// ActiveFilter is a concrete, applied filter instance. Within a session's
// active-filter list there is at most one entry per FilterName.
type ActiveFilter struct {
	// FilterID is the catalog identifier of the applied filter.
	FilterID string `json:"filter_id"`

	// FilterName identifies the filter within the active set.
	FilterName string `json:"filter_name"`

	// Operator is the chosen comparison operator.
	Operator string `json:"operator"`

	// Value is the chosen comparison value. Numbers, strings, and lists all
	// occur depending on the filter's type.
	Value any `json:"value"`
}

// SuggestionOption is one candidate resolution inside a FilterSuggestion,
// carrying the model's proposed operator and value for that candidate.
type SuggestionOption struct {
	// FilterID is the catalog identifier of the candidate filter.
	FilterID string `json:"filter_id"`

	// FilterName is the candidate filter's display name.
	FilterName string `json:"filter_name"`

	// Operator is the model's proposed operator for this candidate.
	Operator string `json:"operator"`

	// Value is the model's proposed value for this candidate.
	Value any `json:"value"`
}

// FilterSuggestion is a clarification request: a concept whose candidate
// filters could not be disambiguated, presented back to the caller with one
// option per candidate.
type FilterSuggestion struct {
	// ConceptText is the concept the candidates were found for.
	ConceptText string `json:"concept_text"`

	// Options are the candidate resolutions, best-first.
	Options []SuggestionOption `json:"options"`
}

// State is the single record threaded through all pipeline stages. It is
// created fresh per request and discarded after the response stage. A stage
// must never silently drop fields it does not own.
type State struct {
	// Query is the user's free-text query, possibly PII-masked.
	Query string

	// Concepts are the extracted semantic concepts, set by the extractor and
	// pruned of drop concepts by the drop handler.
	Concepts []Concept

	// MatchedFilters are the candidate matches, set by the matcher.
	MatchedFilters []FilterMatch

	// ActiveFilters is the session's applied-filter list. Seeded from the
	// caller, mutated by the drop handler and value filler.
	ActiveFilters []ActiveFilter

	// ClarificationRequest accumulates suggestions for ambiguous concepts.
	ClarificationRequest []FilterSuggestion

	// Message is the human-readable summary, set by the response stage.
	Message string

	// SessionID identifies the conversation this request belongs to.
	SessionID string

	// mask holds the PII substitutions made on Query, nil when masking is
	// disabled or nothing was masked. The response stage restores originals.
	mask *pii.Masker
}
