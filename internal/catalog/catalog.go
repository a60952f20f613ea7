// Package catalog defines the filter catalog: the fixed set of filterable
// attributes an application exposes (e.g. "Client Age", "Account Balance").
// Definitions are read-only to the resolution pipeline; they are loaded from
// a JSON file (or the built-in sample set) and indexed into the vector store
// by the Ingestor so the matcher can search them semantically.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FilterDefinition describes one filterable attribute of the application's
// data catalog.
type FilterDefinition struct {
	// ID is the unique catalog identifier for this filter.
	ID string `json:"id"`

	// DisplayName is the short human-readable label (e.g. "Client Age").
	// It is the key by which applied filters are deduplicated.
	DisplayName string `json:"displayName"`

	// Type is the value type: STRING, NUMBER, DATE.
	Type string `json:"type"`

	// ControlType hints at the UI widget: TEXT_INPUT, NUMBER_RANGE,
	// DATE_RANGE, CHECKBOX.
	ControlType string `json:"controlType"`

	// Category groups related filters (e.g. "Client", "Account").
	Category string `json:"category"`

	// Description is a one-sentence explanation of what the filter selects.
	Description string `json:"description"`

	// Operators is the set of comparison operators this filter supports
	// (e.g. EQUALS, GREATER_THAN, BETWEEN).
	Operators []string `json:"operators,omitempty"`

	// Options is the closed value set for choice-style filters.
	Options []string `json:"options,omitempty"`

	// Keywords are extra search terms that improve semantic matching.
	Keywords []string `json:"keywords,omitempty"`
}

// SearchText builds the text that is embedded and indexed for this
// definition: display name, description, and keywords comma-joined.
func (d *FilterDefinition) SearchText() string {
	parts := make([]string, 0, 2+len(d.Keywords))
	if d.DisplayName != "" {
		parts = append(parts, d.DisplayName)
	}
	if d.Description != "" {
		parts = append(parts, d.Description)
	}
	parts = append(parts, d.Keywords...)
	return strings.Join(parts, ", ")
}

// Load reads filter definitions from a JSON file containing an array of
// FilterDefinition objects. Definitions without an explicit ID are assigned
// one derived from their display name.
func Load(path string) ([]FilterDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var defs []FilterDefinition
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	for i := range defs {
		if defs[i].DisplayName == "" {
			return nil, fmt.Errorf("catalog: entry %d in %s has no displayName", i, path)
		}
		if defs[i].ID == "" {
			defs[i].ID = slugify(defs[i].DisplayName)
		}
	}

	return defs, nil
}

// slugify derives a stable lowercase identifier from a display name.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
