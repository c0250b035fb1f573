package llm

import "context"

// FallbackPrompt is returned whenever the model produces an empty completion.
const FallbackPrompt = "Continue speaking naturally."

// Client defines the interface for prompt-generating LLM providers.
type Client interface {
	// GeneratePrompt returns one short coaching prompt based on what the
	// user just said and the topic they are practicing.
	GeneratePrompt(ctx context.Context, transcription, topic string) (string, error)
}
