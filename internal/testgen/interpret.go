package testgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedSummaries reports a summarize response that does not parse
// into the declared shape.
var ErrMalformedSummaries = errors.New("testgen: malformed summary response")

// fenceTags are the language tags recognized on an opening code fence.
// The empty tag covers the plain untagged fence.
var fenceTags = map[string]bool{
	"":           true,
	"js":         true,
	"jsx":        true,
	"ts":         true,
	"tsx":        true,
	"javascript": true,
	"typescript": true,
	"json":       true,
}

// ToCode strips a recognized leading code fence and its trailing match, then
// trims surrounding whitespace. Text that does not begin with a recognized
// fence is returned unchanged; fences mid-string are left alone. The result
// is a fixed point: ToCode(ToCode(x)) == ToCode(x).
func ToCode(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return raw
	}
	head, rest, ok := strings.Cut(text[3:], "\n")
	if !ok {
		return raw
	}
	if !fenceTags[strings.TrimSpace(head)] {
		return raw
	}
	rest = strings.TrimSpace(rest)
	rest = strings.TrimSuffix(rest, "```")
	return strings.TrimSpace(rest)
}

// ToSummaries parses a summarize response into its test summaries. A fenced
// JSON body is tolerated; models occasionally fence even schema-constrained
// output.
func ToSummaries(raw string) ([]TestSummary, error) {
	var out struct {
		Summaries []TestSummary `json:"summaries"`
	}
	if err := json.Unmarshal([]byte(ToCode(raw)), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSummaries, err)
	}
	if out.Summaries == nil {
		return nil, fmt.Errorf("%w: missing summaries field", ErrMalformedSummaries)
	}
	for i, s := range out.Summaries {
		if strings.TrimSpace(s.Title) == "" {
			return nil, fmt.Errorf("%w: entry %d has no title", ErrMalformedSummaries, i)
		}
	}
	return out.Summaries, nil
}
