// Package llm defines the chat model port used to read uploaded CV documents.
package llm

import "context"

// ChatModel answers one system/user prompt pair with the model's raw text.
// Providers live in subpackages; the document service only sees this port.
type ChatModel interface {
	Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ChatModelFunc adapts a plain function to ChatModel.
type ChatModelFunc func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

func (f ChatModelFunc) Ask(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f(ctx, systemPrompt, userPrompt)
}
