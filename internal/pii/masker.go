// Package pii provides reversible masking of personally identifiable
// information in free-text queries before they are sent to an external LLM.
// Masking is opt-in and disabled by default.
package pii

import (
	"fmt"
	"regexp"
	"strings"
)

// Patterns recognised by the masker, applied in order.
var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+?1[\s.\-]?)?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}\b`)
	ssnPattern   = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
)

// kinds pairs each pattern with its placeholder label. SSNs are matched
// before phones so the hyphenated forms are not claimed by the phone pattern.
var kinds = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{"EMAIL", emailPattern},
	{"SSN", ssnPattern},
	{"PHONE", phonePattern},
}

// Masker replaces PII spans with numbered placeholder tokens and restores
// them later. A Masker is single-use: one Mask call builds the mapping that
// Unmask consumes. Not safe for concurrent use.
type Masker struct {
	// replacements maps placeholder tokens back to original spans.
	replacements map[string]string

	// counters tracks the next token number per kind.
	counters map[string]int
}

// NewMasker returns an empty Masker.
func NewMasker() *Masker {
	return &Masker{
		replacements: make(map[string]string),
		counters:     make(map[string]int),
	}
}

// Mask replaces every recognised PII span in text with a token of the form
// <KIND_N>. Identical spans share a token so the model sees consistent
// references.
func (m *Masker) Mask(text string) string {
	for _, k := range kinds {
		text = k.pattern.ReplaceAllStringFunc(text, func(match string) string {
			for token, original := range m.replacements {
				if original == match {
					return token
				}
			}
			m.counters[k.label]++
			token := fmt.Sprintf("<%s_%d>", k.label, m.counters[k.label])
			m.replacements[token] = match
			return token
		})
	}
	return text
}

// Unmask restores the original spans for every token previously issued by
// Mask. Unknown tokens are left untouched.
func (m *Masker) Unmask(text string) string {
	for token, original := range m.replacements {
		text = strings.ReplaceAll(text, token, original)
	}
	return text
}

// Count reports how many distinct spans have been masked.
func (m *Masker) Count() int {
	return len(m.replacements)
}
