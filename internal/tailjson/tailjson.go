// Package tailjson pulls the trailing JSON object out of free-form assistant
// text. Tool runs are asked to end their reply with one line of JSON that
// mirrors the tool's raw result; this is how callers read it back.
package tailjson

import (
	"encoding/json"
	"strings"
)

// Extract returns the JSON object on the last non-blank line of text, or the
// last brace-delimited object anywhere in text. It returns nil when no valid
// object is found.
func Extract(text string) map[string]any {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if obj := parseObject(cleanLine(lastLine(text))); obj != nil {
		return obj
	}

	candidates := braceSpans(text)
	if len(candidates) == 0 {
		return nil
	}
	return parseObject(candidates[len(candidates)-1])
}

// StripTail returns text without its trailing JSON line, for display
func StripTail(text string) string {
	text = strings.TrimSpace(text)
	last := lastLine(text)
	if last == "" || parseObject(cleanLine(last)) == nil {
		return text
	}
	idx := strings.LastIndex(text, last)
	return strings.TrimSpace(text[:idx])
}

func lastLine(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}

// cleanLine strips a single-line code fence and a leading "json" language tag
func cleanLine(line string) string {
	if strings.HasPrefix(line, "```") && strings.HasSuffix(line, "```") {
		line = strings.TrimSpace(strings.Trim(line, "`"))
	}
	if len(line) >= 4 && strings.EqualFold(line[:4], "json") {
		line = strings.TrimSpace(line[4:])
	}
	return line
}

func parseObject(s string) map[string]any {
	if !strings.HasPrefix(s, "{") {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil
	}
	if obj == nil {
		return nil
	}
	return obj
}

// braceSpans returns every balanced top-level {...} substring of text in
// order. Braces inside JSON string literals are ignored.
func braceSpans(text string) []string {
	var spans []string
	depth, start := 0, -1
	inString, escaped := false, false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				spans = append(spans, text[start:i+1])
				start = -1
			}
		}
	}
	return spans
}
