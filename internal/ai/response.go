package ai

import (
	"bufio"
	"encoding/json"
	"math"
	"strings"

	"github.com/thomas-vilte/prtitle/internal/conventional"
	"github.com/thomas-vilte/prtitle/internal/models"
	"github.com/thomas-vilte/prtitle/internal/regex"
)

const (
	DefaultSuggestion = "feat: improve PR title"

	defaultReasoning   = "Suggested titles follow the Conventional Commits format based on the pull request content"
	unparsedReasoning  = "AI response could not be parsed as JSON, suggestions were extracted from the raw text"
	defaultConfidence  = 0.8
	fallbackConfidence = 0.5
	maxSuggestions     = 3
	maxHeuristicLength = 100
)

// ParseTitleResponse turns raw model output into a response. It never fails:
// strict JSON, sanitized JSON, the first balanced object and finally a line
// scan are tried in that order, and the worst case is a single default
// suggestion with confidence 0.5.
func ParseTitleResponse(text string) *models.TitleGenerationResponse {
	cleaned := TrimToObject(StripCodeFences(text))

	candidates := []string{cleaned, SanitizeJSON(cleaned)}
	for _, obj := range ExtractBalancedObjects(text) {
		if obj != cleaned {
			candidates = append(candidates, obj, SanitizeJSON(obj))
		}
	}

	for _, c := range candidates {
		if resp, ok := decodeResponse(c); ok {
			return resp
		}
	}
	return ExtractTitlesFromText(text)
}

// StripCodeFences returns the body of the first fenced block, or the text
// with stray fence markers removed.
func StripCodeFences(text string) string {
	if m := regex.MarkdownJSONBlock.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(regex.CodeFence.ReplaceAllString(text, ""))
}

// TrimToObject drops any preamble before the first '{' and suffix after the last '}'.
func TrimToObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[start : end+1])
}

// SanitizeJSON escapes raw newlines inside strings and drops trailing commas.
func SanitizeJSON(s string) string {
	s = regex.JSONString.ReplaceAllStringFunc(s, func(m string) string {
		m = strings.ReplaceAll(m, "\r", "")
		return strings.ReplaceAll(m, "\n", "\\n")
	})
	return regex.TrailingComma.ReplaceAllString(s, "$1")
}

// ExtractBalancedObject returns the first brace-balanced {...} span, ignoring
// braces inside string literals.
func ExtractBalancedObject(text string) (string, bool) {
	objs := ExtractBalancedObjects(text)
	if len(objs) == 0 {
		return "", false
	}
	return objs[0], true
}

// ExtractBalancedObjects returns every maximal brace-balanced span in order.
// Objects nested inside a brace that never closes are still reported. The
// text is scanned once.
func ExtractBalancedObjects(text string) []string {
	type span struct{ start, end int }
	var (
		open     []int
		closed   []span
		inString bool
		escaped  bool
	)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if len(open) == 0 {
			if ch == '{' {
				open = append(open, i)
			}
			continue
		}
		switch {
		case escaped:
			escaped = false
		case inString && ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			open = append(open, i)
		case ch == '}':
			start := open[len(open)-1]
			open = open[:len(open)-1]
			for len(closed) > 0 && closed[len(closed)-1].start > start {
				closed = closed[:len(closed)-1]
			}
			closed = append(closed, span{start, i})
		}
	}

	out := make([]string, 0, len(closed))
	for _, sp := range closed {
		out = append(out, text[sp.start:sp.end+1])
	}
	return out
}

type rawResponse struct {
	Suggestions json.RawMessage `json:"suggestions"`
	Reasoning   json.RawMessage `json:"reasoning"`
	Confidence  json.RawMessage `json:"confidence"`
}

func decodeResponse(s string) (*models.TitleGenerationResponse, bool) {
	if !strings.HasPrefix(s, "{") {
		return nil, false
	}
	var raw rawResponse
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}

	resp := &models.TitleGenerationResponse{
		Suggestions: decodeSuggestions(raw.Suggestions),
		Reasoning:   defaultReasoning,
		Confidence:  defaultConfidence,
	}
	if len(resp.Suggestions) == 0 {
		resp.Suggestions = []string{DefaultSuggestion}
	}

	var reasoning string
	if json.Unmarshal(raw.Reasoning, &reasoning) == nil && strings.TrimSpace(reasoning) != "" {
		resp.Reasoning = strings.TrimSpace(reasoning)
	}

	var confidence *float64
	if json.Unmarshal(raw.Confidence, &confidence) == nil && confidence != nil {
		resp.Confidence = math.Min(1, math.Max(0, *confidence))
	}
	return resp, true
}

func decodeSuggestions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = appendSuggestion(out, s)
			}
		}
		return out
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return appendSuggestion(nil, single)
	}
	return nil
}

func appendSuggestion(list []string, s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || len(list) >= maxSuggestions {
		return list
	}
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

// ExtractTitlesFromText scans text line by line for conventional titles.
func ExtractTitlesFromText(text string) *models.TitleGenerationResponse {
	var found []string
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		line = regex.ListMarker.ReplaceAllString(line, "")
		line = strings.Trim(line, "\"'`")
		line = strings.TrimSpace(line)
		if len(line) > maxHeuristicLength || !conventional.IsConventional(line) {
			continue
		}
		found = appendSuggestion(found, line)
	}

	if len(found) == 0 {
		found = []string{DefaultSuggestion}
	}
	return &models.TitleGenerationResponse{
		Suggestions: found,
		Reasoning:   unparsedReasoning,
		Confidence:  fallbackConfidence,
	}
}
