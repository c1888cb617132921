package interview

import (
	"encoding/json"
	"strings"
)

// Extract recovers the single JSON object in an LLM reply.
//
// The whole text is tried first. Failing that, the span from the first '{'
// to the last '}' is parsed. Prompts only ever ask for one top-level object,
// so nothing smarter is attempted: prose containing stray braces around the
// object makes extraction fail rather than guess.
func Extract(text string) (map[string]any, bool) {
	if obj, ok := parseObject(text); ok {
		return obj, true
	}

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start == -1 || end == -1 || end < start {
		return nil, false
	}
	return parseObject(text[start : end+1])
}

func parseObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}
