// File path: internal/llm/providers/ollama.go
package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"

	"github.com/ananyap-codes/TDSproj2/internal/common"
)

type OllamaProvider struct {
	model *ollama.LLM
}

func NewOllamaProvider(host, model string) (*OllamaProvider, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if host != "" {
		opts = append(opts, ollama.WithServerURL(host))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("ollama init: %w", err)
	}
	common.Logger().Info("llm: Ollama provider configured", "model", model, "host", host)
	return &OllamaProvider{model: llm}, nil
}

func (o *OllamaProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	logger := common.Logger()
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		role := schema.ChatMessageTypeHuman
		switch strings.ToLower(msg.Role) {
		case "system":
			role = schema.ChatMessageTypeSystem
		case "assistant":
			role = schema.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(role, msg.Content))
	}
	logger.Debug("llm: sending ollama request", "messages", len(content))
	resp, err := o.model.GenerateContent(ctx, content)
	if err != nil {
		logger.Error("llm: ollama request failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	logger.Debug("llm: ollama request succeeded")
	return resp.Choices[0].Content, nil
}

func (o *OllamaProvider) Name() string {
	return "ollama"
}
