package llm

import (
	"context"
	"encoding/json"
)

// FakeClient returns a canned payload, for offline runs and tests.
type FakeClient struct {
	Payload json.RawMessage
	Err     error
}

func NewFakeClient(payload string) *FakeClient {
	return &FakeClient{Payload: json.RawMessage(payload)}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.Payload) > 0 {
		return f.Payload, nil
	}
	return json.RawMessage(`{"titleKey":"","optionalFieldKeys":{},"metafieldMappings":[]}`), nil
}
