package llmclient

import (
	"context"
)

// FakeClient returns deterministic payloads for offline runs and tests.
// Schema-bearing requests get a canned summaries object; free-text requests
// get a placeholder test file.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Generate(ctx context.Context, req Request) (string, error) {
	if req.Schema != nil {
		return `{"summaries":[` +
			`{"title":"renders without crashing","description":"Mount the component with default props and assert it renders."},` +
			`{"title":"handles empty input","description":"Call the exported function with empty input and assert the fallback value."}` +
			`]}`, nil
	}
	return "```js\n" +
		"describe('placeholder', () => {\n" +
		"  it('runs', () => {\n" +
		"    expect(true).toBe(true);\n" +
		"  });\n" +
		"});\n" +
		"```", nil
}
