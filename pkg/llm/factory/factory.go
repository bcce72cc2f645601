package factory

import (
	"fmt"
	"time"

	"guarded-chat-be/pkg/llm"
	"guarded-chat-be/pkg/llm/mock"
	"guarded-chat-be/pkg/llm/ollama"
)

// NewGenerator builds the streaming backend named by providerType.
func NewGenerator(providerType, modelName, baseURL string, mockDelay time.Duration) (llm.Generator, error) {
	switch providerType {
	case "", "mock":
		return mock.NewMockProvider(mockDelay), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("%w: %s", llm.ErrUnknownProvider, providerType)
	}
}
