package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
// Any OpenAI-compatible endpoint (e.g. DeepSeek) works through BaseURL.
type OpenAILLM struct {
	Model string
	Opts  []option.RequestOption
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide generation.api_key or COFOUNDR_API_KEY")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAILLM{Model: cfg.Model, Opts: opts}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, prompt Prompt) (string, error) {
	client := openai.NewClient(o.Opts...)

	msgs := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(prompt.System),
	}
	for _, h := range prompt.History {
		switch h.Role {
		case "assistant":
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(h.Content))
		default:
			msgs = append(msgs, openai.UserMessage(h.Content))
		}
	}
	msgs = append(msgs, openai.UserMessage(prompt.User))

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.Model),
		Messages: msgs,
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", apiFault(apiErr.StatusCode, apiErr.Error())
		}
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &ServiceFault{Message: ErrorMarker + " The model returned no choices."}
	}
	return resp.Choices[0].Message.Content, nil
}

// apiFault maps an HTTP-level API error onto a service fault the orchestrator can classify.
func apiFault(status int, detail string) *ServiceFault {
	switch {
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return &ServiceFault{
			Message:    fmt.Sprintf("%s The generation service is temporarily unavailable (status %d).", ErrorMarker, status),
			StatusCode: status,
		}
	default:
		return &ServiceFault{
			Message:    fmt.Sprintf("%s Generation failed: %s", ErrorMarker, detail),
			StatusCode: status,
		}
	}
}
