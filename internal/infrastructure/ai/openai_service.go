package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jhoicas/asha-billing/internal/application/ports"
	"github.com/jhoicas/asha-billing/internal/domain"
)

var _ ports.LLMService = (*OpenAIService)(nil)

// OpenAIService implementa LLMService con chat completions de go-openai en
// modo de respuesta JSON-object.
type OpenAIService struct {
	client *openai.Client
	model  string
	hasKey bool
}

// NewOpenAIService construye el adaptador. baseURL puede ser vacío para la API pública.
func NewOpenAIService(apiKey, model, baseURL string) *OpenAIService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIService{client: openai.NewClientWithConfig(cfg), model: model, hasKey: apiKey != ""}
}

// TransformRows implementa LLMService.
func (s *OpenAIService) TransformRows(ctx context.Context, instruction string, rows []ports.Row) (*ports.TransformResult, error) {
	prompt, err := transformPrompt(instruction, rows)
	if err != nil {
		return nil, err
	}
	text, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseTransform(text)
}

// AnalyzeRows implementa LLMService.
func (s *OpenAIService) AnalyzeRows(ctx context.Context, rows []ports.Row) (*ports.AnalysisResult, error) {
	prompt, err := analyzePrompt(rows)
	if err != nil {
		return nil, err
	}
	text, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseAnalysis(text)
}

func (s *OpenAIService) complete(ctx context.Context, prompt string) (string, error) {
	if !s.hasKey {
		return "", fmt.Errorf("%w: OPENAI_API_KEY", domain.ErrNotConfigured)
	}
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("AI: OpenAI chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("AI: OpenAI returned an empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
