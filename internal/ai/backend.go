// Package ai talks to completion backends and turns their replies
// into findings.
package ai

import (
	"context"
	"fmt"
)

// Request is one completion call to a backend.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Backend is the completion capability the review pipeline depends
// on. Nothing downstream knows which provider produced the text.
type Backend interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// New creates a backend by provider name.
func New(provider, model, apiKey string) (Backend, error) {
	switch provider {
	case "openai":
		return NewOpenAI(model, apiKey)
	case "anthropic":
		return NewAnthropic(model, apiKey)
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", provider)
	}
}
