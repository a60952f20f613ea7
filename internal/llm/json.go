package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EnsureJSON returns content if it is already a valid JSON document, or the
// first balanced JSON object or array embedded in it. Models often wrap JSON
// in prose or markdown fences; extraction recovers those cases.
func EnsureJSON(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if json.Valid([]byte(trimmed)) {
		return trimmed, nil
	}

	extracted, ok := ExtractJSON(trimmed)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotJSON, truncate(trimmed, 120))
	}
	return extracted, nil
}

// ExtractJSON scans content for the first balanced {...} or [...] span that
// parses as JSON. Brackets inside JSON strings are skipped so values such as
// "a [b]" do not break the balance count.
func ExtractJSON(content string) (string, bool) {
	start := -1
	var open, close byte
	for i := 0; i < len(content); i++ {
		if content[i] == '{' {
			start, open, close = i, '{', '}'
			break
		}
		if content[i] == '[' {
			start, open, close = i, '[', ']'
			break
		}
	}
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		ch := content[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				candidate := content[start : i+1]
				if json.Valid([]byte(candidate)) {
					return candidate, true
				}
				return "", false
			}
		}
	}

	return "", false
}

// truncate shortens s for inclusion in error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
