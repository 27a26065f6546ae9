package llm

import (
	"context"
	"encoding/json"
)

// Client generates structured JSON from a prompt. The suggestion service is
// its only consumer; everything the model returns goes through mapping
// validation before it touches any spec.
type Client interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}
