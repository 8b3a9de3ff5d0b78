package ai

import (
	"github.com/jhoicas/asha-billing/internal/application/ports"
	"github.com/jhoicas/asha-billing/pkg/config"
)

// New devuelve el adaptador elegido por cfg.Provider (gemini por defecto).
func New(cfg config.AIConfig) ports.LLMService {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, "")
	case "anthropic":
		return NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
}
