package ai

import "context"

// Provider generates one prompt for a round together with an example response
// the AI decoy can reuse. Callers bound the call with a context deadline and
// fall back to built-in prompts on error; providers never need to retry.
type Provider interface {
	GeneratePrompt(ctx context.Context) (prompt, exampleResponse string, err error)
}
