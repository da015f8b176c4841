package generator

import (
	"context"
	"errors"
)

// Agent turns an LLMClient into a Generator by building the deck prompts.
type Agent struct {
	llm LLMClient
}

func NewAgent(llm LLMClient) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Agent{llm: llm}, nil
}

func (a *Agent) GeneratePitch(ctx context.Context, req GenerationRequest) (string, error) {
	return a.generate(ctx, BuildPitchPrompt(req))
}

func (a *Agent) GenerateDetailedPitch(ctx context.Context, req GenerationRequest) (string, error) {
	return a.generate(ctx, BuildDetailedPitchPrompt(req))
}

func (a *Agent) generate(ctx context.Context, prompt Prompt) (string, error) {
	raw, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return "", Classify(err)
	}
	return PostProcess(raw)
}
