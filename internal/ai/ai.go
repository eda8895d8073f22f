// Package ai holds the provider-neutral side of the AI integration: the text
// service contract and the helpers every AI-backed strategy shares.
package ai

import "context"

// Generator is an AI text service. Implementations may fail on any call.
type Generator interface {
	// Complete sends a single prompt and returns the raw reply.
	Complete(ctx context.Context, prompt string) (string, error)
	// Chat sends message under the given system instruction.
	Chat(ctx context.Context, system, message string) (string, error)
}
