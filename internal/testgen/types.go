package testgen

// FileRecord is one user-selected file. Content is embedded into prompts
// verbatim; it is never truncated, escaped or inspected for well-formedness.
type FileRecord struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// TestSummary is one suggested test case. Title doubles as the selection key
// in the wizard UI, so titles are expected to be unique within one batch.
type TestSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
