package testgen

import (
	genai "google.golang.org/genai"
)

// SummariesSchema declares the structured-output shape for the summarize
// task: an object whose "summaries" array holds {title, description} pairs.
// Attaching it to the request lets the provider enforce the shape instead of
// relying on prompt discipline alone.
func SummariesSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summaries": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title": {
							Type:        genai.TypeString,
							Description: "Short name of the test case",
						},
						"description": {
							Type:        genai.TypeString,
							Description: "What the test verifies and how",
						},
					},
					Required: []string{"title", "description"},
				},
			},
		},
		Required: []string{"summaries"},
	}
}
