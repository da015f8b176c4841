package generator

import "context"

// Generator is the generation service as seen by the orchestrator. The two entry points are
// mutually exclusive per submission.
type Generator interface {
	GeneratePitch(ctx context.Context, req GenerationRequest) (string, error)
	GenerateDetailedPitch(ctx context.Context, req GenerationRequest) (string, error)
}

// LLMClient abstracts the model backend so it can be swapped or mocked.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings is the base configuration handed to a concrete client.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
