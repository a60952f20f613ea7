package pipeline

import (
	"fmt"
	"strings"
	"text/template"
)

// conceptExtractionTmpl renders the system prompt for the concept extractor.
// The current active filters are included so the model can reason about
// deltas (drop and modify actions).
var conceptExtractionTmpl = template.Must(template.New("concept_extraction").Parse(`You are a filter extraction assistant for a data filtering application.

Analyse the user's query and extract every concept that could map to a data filter. For each concept, generate a few keyword expansions that capture synonyms and related phrasings, and decide the intended action.

Actions:
- "add": the user wants to apply a new filter
- "drop": the user wants to remove an existing filter
- "modify": the user wants to change an existing filter

{{if .CurrentFilters}}Currently active filters:
{{range .CurrentFilters}}- {{.FilterName}}: {{.Operator}} {{printf "%v" .Value}}
{{end}}
{{else}}There are no active filters yet.
{{end}}
Respond with a JSON array only, no prose. Each element must have this shape:
{"text": "<concept text from the query>", "generated_keywords": ["<keyword>", ...], "action": "add|drop|modify"}

If the query contains no filterable concepts, respond with [].`))

// valueFillingTmpl renders the system prompt for the value filler. All
// matched filters are listed with their operator and option metadata so one
// call assigns every value.
var valueFillingTmpl = template.Must(template.New("value_filling").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`You are a filter value assistant for a data filtering application.

For each filter below, choose the most appropriate operator and value based on the concept it was matched for. Operators must come from the filter's allowed list. When a filter declares options, the value must be one of them.

Filters to fill:
{{range .MatchedFilters}}- name: {{.FilterName}}
  matched for: "{{.MatchedConcept}}"
{{- if .Description}}
  description: {{.Description}}
{{- end}}
{{- if .Operators}}
  allowed operators: {{join .Operators ", "}}
{{- end}}
{{- if .Options}}
  allowed values: {{join .Options ", "}}
{{- end}}
{{end}}
Respond with a JSON array only, no prose. One element per filter, in this shape:
{"filter_display_name": "<name exactly as listed>", "operator": "<operator>", "value": <value>}`))

// renderConceptExtractionPrompt builds the extractor's system prompt.
func renderConceptExtractionPrompt(currentFilters []ActiveFilter) (string, error) {
	var sb strings.Builder
	err := conceptExtractionTmpl.Execute(&sb, struct {
		CurrentFilters []ActiveFilter
	}{currentFilters})
	if err != nil {
		return "", fmt.Errorf("pipeline: render concept extraction prompt: %w", err)
	}
	return sb.String(), nil
}

// renderValueFillingPrompt builds the value filler's system prompt.
func renderValueFillingPrompt(matched []FilterMatch) (string, error) {
	var sb strings.Builder
	err := valueFillingTmpl.Execute(&sb, struct {
		MatchedFilters []FilterMatch
	}{matched})
	if err != nil {
		return "", fmt.Errorf("pipeline: render value filling prompt: %w", err)
	}
	return sb.String(), nil
}
